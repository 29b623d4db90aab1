package core

import (
	"errors"
	"sync"
)

// Track records mocks under t so that their expectations are verified when the test
// completes. If the TestReporter supports Cleanup (like *testing.T), verification is
// registered once per reporter; otherwise the mocks wait for an explicit VerifyAll.
func Track(t TestReporter, mocks ...*Mock) {
	if t == nil || len(mocks) == 0 {
		return
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	entry, ok := registry[t]
	if !ok {
		entry = &trackedMocks{}
		registry[t] = entry
	}

	entry.mocks = append(entry.mocks, mocks...)

	if entry.cleanupRegistered {
		return
	}

	if cr, ok := t.(cleanupRegistrar); ok {
		entry.cleanupRegistered = true

		cr.Cleanup(func() {
			VerifyAll(t)

			registryMu.Lock()
			delete(registry, t)
			registryMu.Unlock()
		})
	}
}

// VerifyAll verifies every mock tracked under t and forgets them. Unmet expectations
// fail t.
func VerifyAll(t TestReporter) {
	registryMu.Lock()

	var mocks []*Mock

	if entry, ok := registry[t]; ok {
		mocks = entry.mocks
		entry.mocks = nil
	}

	registryMu.Unlock()

	var errs []error

	for _, mock := range mocks {
		err := mock.Verify()
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return
	}

	t.Helper()
	t.Fatalf("%v", errors.Join(errs...))
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[TestReporter]*trackedMocks)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}

type trackedMocks struct {
	mocks             []*Mock
	cleanupRegistered bool
}
