package core_test

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // gomega convention

	"github.com/toejough/depmock/internal/core"
)

// Alpha is the host type most resolver tests reflect on.
type Alpha struct{}

func (Alpha) NoDocs() {}

func (Alpha) Run() {}

func (*Alpha) Stop() {}

// Beta is a struct dependency; its double satisfies BetaContract.
type Beta struct {
	x int
}

func (b *Beta) X() int { return b.x }

func (b *Beta) Y(s string) error {
	return fmt.Errorf("real Beta called with %q", s) //nolint:err113 // never reached from doubles
}

//nolint:unused // unexported methods must not become operations
func (b *Beta) hidden() {}

type BetaContract interface {
	X() int
	Y(s string) error
}

// Delta resolves names at call time.
type Delta interface {
	Call(name string, args ...any) []any
}

// Epsilon has no operations at all.
type Epsilon interface{}

type GammaIface interface {
	Z(n int) string
}

// Score has no extension points.
type Score int

// Zeta is a host without a constructor.
type Zeta struct{}

func (Zeta) Settle() {}

type betaDouble struct {
	mock *core.Mock
}

func (d *betaDouble) X() int {
	return core.Result[int](d.mock.Invoke("X"), 0)
}

func (d *betaDouble) Y(s string) error {
	return core.Result[error](d.mock.Invoke("Y", s), 0)
}

type gammaDouble struct {
	mock *core.Mock
}

func (d *gammaDouble) Z(n int) string {
	return core.Result[string](d.mock.Invoke("Z", n), 0)
}

// mockTester records failures instead of stopping the test, and never registers cleanups.
type mockTester struct {
	mu       sync.Mutex
	failures []string
}

func (m *mockTester) Fatalf(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures = append(m.failures, fmt.Sprintf(format, args...))
}

func (m *mockTester) Helper() {}

func (m *mockTester) Failures() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.failures...)
}

// cleanupTester is a mockTester that also collects cleanup functions.
type cleanupTester struct {
	mockTester

	cleanups []func()
}

func (c *cleanupTester) Cleanup(f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanups = append(c.cleanups, f)
}

func (c *cleanupTester) runCleanups() {
	c.mu.Lock()
	cleanups := c.cleanups
	c.cleanups = nil
	c.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func newBetaDouble(m *core.Mock) any { return &betaDouble{mock: m} }

func newGammaDouble(m *core.Mock) any { return &gammaDouble{mock: m} }

// newTable returns a table with the fixture dependency types and the Alpha host.
func newTable(t *testing.T) *core.TypeTable {
	t.Helper()

	g := NewWithT(t)
	table := core.NewTypeTable()

	g.Expect(table.RegisterType("", reflect.TypeFor[Beta](), newBetaDouble)).To(Succeed())
	g.Expect(table.RegisterType("", reflect.TypeFor[GammaIface](), newGammaDouble)).To(Succeed())
	g.Expect(table.RegisterType("", reflect.TypeFor[Delta](), nil)).To(Succeed())
	g.Expect(table.RegisterType("", reflect.TypeFor[Epsilon](), nil)).To(Succeed())
	g.Expect(table.RegisterHost(reflect.TypeFor[Alpha](), map[string]string{
		core.Constructor: "NewAlpha builds an Alpha.\n\n@depends Beta, GammaIface",
		"Run":            "Run runs.\n@depends Beta\n@depends Delta",
		"Stop":           "Stop stops.\n@uses Epsilon\n@depends GammaIface",
	})).To(Succeed())

	return table
}
