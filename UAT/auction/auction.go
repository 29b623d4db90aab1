// Package auction is a small auction house whose hosts declare their dependencies in their docs.
package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/toejough/depmock"
)

// Exported variables.
var (
	ErrClosed            = errors.New("auction closed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLowBid            = errors.New("bid too low")
)

// Auctioneer runs the auction of a single lot.
type Auctioneer struct {
	depmock.Testable[Auctioneer]

	ledger   Ledger
	notifier Notifier
	clock    TimeSource
	hooks    Hooks
	lot      LotID
	closes   time.Time
	leader   string
	high     int
}

// NewAuctioneer opens the auction of lot, closing at closes.
//
// @depends Ledger, Notifier, Clock
func NewAuctioneer(ledger Ledger, notifier Notifier, clock TimeSource, lot LotID, closes time.Time) *Auctioneer {
	return &Auctioneer{ledger: ledger, notifier: notifier, clock: clock, lot: lot, closes: closes}
}

// Close ends the auction and announces the winner, if any.
//
// @depends Notifier, Hooks
func (a *Auctioneer) Close() (string, int) {
	if a.leader != "" {
		a.notifier.Notify(a.leader, "you won", string(a.lot))
	}

	if a.hooks != nil {
		a.hooks.Call("closed", a.lot, a.leader, a.high)
	}

	return a.leader, a.high
}

// PlaceBid reserves amount from bidder's balance and makes them the leader.
//
// @depends Ledger, Clock
// @depends Notifier
func (a *Auctioneer) PlaceBid(ctx context.Context, bidder string, amount int) error {
	if !a.clock.Now().Before(a.closes) {
		return ErrClosed
	}

	if amount <= a.high {
		return fmt.Errorf("%w: %d does not beat %d", ErrLowBid, amount, a.high)
	}

	balance, err := a.ledger.Balance(bidder)
	if err != nil {
		return fmt.Errorf("balance of %s: %w", bidder, err)
	}

	if balance < amount {
		a.notifier.Notify(bidder, "bid rejected")

		return fmt.Errorf("%w: %s has %d", ErrInsufficientFunds, bidder, balance)
	}

	err = a.ledger.Reserve(ctx, a.lot, amount)
	if err != nil {
		return fmt.Errorf("reserve %d for %s: %w", amount, bidder, err)
	}

	if a.leader != "" && a.leader != bidder {
		a.notifier.Notify(a.leader, "outbid", string(a.lot))
	}

	a.leader, a.high = bidder, amount
	a.notifier.Notify(bidder, "bid accepted", string(a.lot))

	return nil
}

// WithHooks sets the hooks called when the auction closes.
func (a *Auctioneer) WithHooks(hooks Hooks) *Auctioneer {
	a.hooks = hooks

	return a
}

// Clock is the wall clock.
type Clock struct{}

// Now returns the current time.
func (Clock) Now() time.Time { return time.Now() }

// Hooks receives auction events by name.
type Hooks interface {
	Call(name string, args ...any) []any
}

// Ledger holds bidder balances.
type Ledger interface {
	Balance(bidder string) (int, error)
	Reserve(ctx context.Context, lot LotID, amount int) error
}

// LotID identifies a lot.
type LotID string

// Notifier tells bidders what happened.
type Notifier interface {
	Notify(bidder string, messages ...string)
}

// TimeSource is what the auctioneer needs from a clock.
type TimeSource interface {
	Now() time.Time
}
