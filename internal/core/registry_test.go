package core_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // gomega convention

	"github.com/toejough/depmock/internal/core"
)

func TestTrack_VerifiesAtCleanup(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	reporter := &cleanupTester{}

	first := core.NewMock(reporter, "Beta", []string{"X"})
	second := core.NewMock(reporter, "GammaIface", []string{"Z"})

	first.Method("X").ExpectCalled()
	second.Method("Z").ExpectCalled()

	core.Track(reporter, first)
	core.Track(reporter, second)

	g.Expect(reporter.cleanups).To(HaveLen(1), "one cleanup per reporter")

	first.Invoke("X")
	reporter.runCleanups()

	g.Expect(reporter.Failures()).To(HaveLen(1))
	g.Expect(reporter.Failures()[0]).To(ContainSubstring("GammaIface.Z"))
	g.Expect(reporter.Failures()[0]).NotTo(ContainSubstring("Beta.X"))
}

func TestTrack_CleanupAfterVerifyAllDoesNotReportTwice(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	reporter := &cleanupTester{}

	mock := core.NewMock(reporter, "Beta", []string{"X"})
	mock.Method("X").ExpectCalled()

	core.Track(reporter, mock)
	core.VerifyAll(reporter)
	reporter.runCleanups()

	g.Expect(reporter.Failures()).To(HaveLen(1))
}

func TestVerifyAll_WithoutCleanupSupport(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	reporter := &mockTester{}

	mock := core.NewMock(reporter, "Beta", []string{"X"})
	mock.Method("X").ExpectCalled().Once()

	core.Track(reporter, mock)

	mock.Invoke("X")
	core.VerifyAll(reporter)

	g.Expect(reporter.Failures()).To(BeEmpty())
}

func TestTrack_IgnoresNilReporter(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := core.NewMock(nil, "Beta", []string{"X"})
	mock.Method("X").ExpectCalled()

	g.Expect(func() { core.Track(nil, mock) }).NotTo(Panic())
}

func TestResolve_TracksMocks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	reporter := &cleanupTester{}

	mocks, err := newTable(t).Resolve(reporter, "Alpha").GetMocks()
	g.Expect(err).NotTo(HaveOccurred())

	mocks.Mock("Beta").Method("X").ExpectCalled().Times(2)
	mocks.Instance("Beta").(BetaContract).X()

	reporter.runCleanups()

	g.Expect(reporter.Failures()).To(ConsistOf(ContainSubstring("expected exactly 2 calls, got 1")))
}
