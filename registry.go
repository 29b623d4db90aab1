package depmock

import (
	"github.com/toejough/depmock/internal/core"
)

// DefaultTable is the process-wide table generated registrations go into.
//
//nolint:gochecknoglobals // generated init functions register here
var DefaultTable = core.NewTypeTable()

// Track records mocks under t so that their expectations are verified when t completes.
// Resolutions track their mocks already; Track is for mocks built with NewMock.
func Track(t TestReporter, mocks ...*Mock) {
	core.Track(t, mocks...)
}

// VerifyAll verifies every mock tracked under t now, failing t on unmet expectations.
// Verified mocks are not checked again at cleanup.
func VerifyAll(t TestReporter) {
	core.VerifyAll(t)
}
