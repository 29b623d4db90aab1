package depmock

// Testable lets a host type hand out the doubles for its own methods. Embed it with the
// host as type argument:
//
//	type Auctioneer struct {
//		depmock.Testable[Auctioneer]
//		...
//	}
//
// and ask the zero value: Auctioneer{}.MocksFor(t, "PlaceBid"). It carries no state.
type Testable[T any] struct{}

// MocksFor resolves the dependencies declared on method of T.
func (Testable[T]) MocksFor(t TestReporter, method string) (*Mocks, error) {
	return For[T](t).ForMethods(method).GetMocks()
}

// MocksMapFor is MocksFor returning the mapping view.
func (Testable[T]) MocksMapFor(t TestReporter, method string) (map[string]*Mock, error) {
	return For[T](t).ForMethods(method).GetMocksAsMapping()
}
