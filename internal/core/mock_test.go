package core_test

import (
	"slices"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // gomega convention
	"pgregory.net/rapid"

	"github.com/toejough/depmock/internal/core"
)

func TestNewMock_DeduplicatesOperations(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOf(rapid.SampledFrom([]string{"A", "B", "C", "D"})).Draw(rt, "names")

		var want []string

		for _, name := range names {
			if !slices.Contains(want, name) {
				want = append(want, name)
			}
		}

		got := core.NewMock(nil, "T", names).Operations()
		if !slices.Equal(got, want) {
			rt.Fatalf("expected %v, got %v", want, got)
		}
	})
}

func TestInvoke_WithoutExpectationsReturnsZeroValues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mock := core.NewMock(t, "Beta", []string{"X"})

	g.Expect(mock.Invoke("X", 1, "two")).To(BeEmpty())
	g.Expect(mock.Method("X").CallCount()).To(Equal(1))
	g.Expect(mock.Method("X").Calls()[0].Args).To(Equal([]any{1, "two"}))
	g.Expect(mock.Verify()).To(Succeed())
}

func TestInjectReturnValues_Stub(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mock := core.NewMock(t, "Beta", []string{"X"})

	mock.Method("X").InjectReturnValues(42)

	g.Expect(core.Result[int](mock.Invoke("X"), 0)).To(Equal(42))
	g.Expect(core.Result[int](mock.Invoke("X"), 0)).To(Equal(42))
	g.Expect(mock.Verify()).To(Succeed())
}

func TestInjectReturnValues_StubWithoutCallsVerifies(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mock := core.NewMock(t, "Beta", []string{"X"})

	mock.Method("X").InjectReturnValues(42)

	g.Expect(mock.Verify()).To(Succeed())
}

func TestExpectCalledWithExactly(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mock := core.NewMock(t, "GammaIface", []string{"Z"})

	mock.Method("Z").ExpectCalledWithExactly(3).InjectReturnValues("three")

	g.Expect(mock.Verify()).To(MatchError(core.ErrUnmetExpectation))
	g.Expect(core.Result[string](mock.Invoke("Z", 3), 0)).To(Equal("three"))
	g.Expect(mock.Verify()).To(Succeed())
}

func TestExpectCalledWithExactly_MismatchFails(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mockT := &mockTester{}
	mock := core.NewMock(mockT, "GammaIface", []string{"Z"})

	mock.Method("Z").ExpectCalledWithExactly(3)

	g.Expect(mock.Invoke("Z", 4)).To(BeNil())
	g.Expect(mockT.Failures()).To(HaveLen(1))
	g.Expect(mockT.Failures()[0]).To(ContainSubstring("unexpected call"))
	g.Expect(mockT.Failures()[0]).To(ContainSubstring("Z(4)"))
}

func TestExpectCalledWithMatches(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mock := core.NewMock(t, "Beta", []string{"Y"})

	mock.Method("Y").ExpectCalledWithMatches(HavePrefix("bid-")).Once()

	mock.Invoke("Y", "bid-7")

	g.Expect(mock.Verify()).To(Succeed())
}

func TestExpectCalledWithMatches_LiteralValues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mockT := &mockTester{}
	mock := core.NewMock(mockT, "Beta", []string{"Y"})

	mock.Method("Y").ExpectCalledWithMatches("exact")

	mock.Invoke("Y", "other")

	g.Expect(mockT.Failures()).To(HaveLen(1))
	g.Expect(mockT.Failures()[0]).To(ContainSubstring(`expected "exact", got "other"`))
}

func TestExpectations_AreConsumedInOrder(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mock := core.NewMock(t, "Beta", []string{"X"})

	mock.Method("X").ExpectCalled().Once().InjectReturnValues(1)
	mock.Method("X").ExpectCalled().Once().InjectReturnValues(2)

	g.Expect(core.Result[int](mock.Invoke("X"), 0)).To(Equal(1))
	g.Expect(core.Result[int](mock.Invoke("X"), 0)).To(Equal(2))
	g.Expect(mock.Verify()).To(Succeed())
}

func TestExpectations_OverBudgetFailsVerification(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mock := core.NewMock(nil, "Beta", []string{"X"})

	expectation := mock.Method("X").ExpectCalled().Once().InjectReturnValues(1)

	g.Expect(core.Result[int](mock.Invoke("X"), 0)).To(Equal(1))
	g.Expect(core.Result[int](mock.Invoke("X"), 0)).To(Equal(1))
	g.Expect(expectation.CallCount()).To(Equal(2))

	err := mock.Verify()
	g.Expect(err).To(MatchError(core.ErrUnmetExpectation))
	g.Expect(err.Error()).To(ContainSubstring("Beta.X expectation 1: unmet expectation: expected exactly 1 calls, got 2"))
}

func TestExpectations_CountMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		configure func(*core.Expectation)
		calls     int
		want      string
	}{
		{name: "never", configure: func(e *core.Expectation) { e.Never() }, calls: 1, want: "expected exactly 0 calls, got 1"},
		{name: "times", configure: func(e *core.Expectation) { e.Times(3) }, calls: 2, want: "expected exactly 3 calls, got 2"},
		{name: "at least", configure: func(e *core.Expectation) { e.AtLeast(2) }, calls: 1, want: "expected at least 2 calls, got 1"},
		{name: "default", configure: func(*core.Expectation) {}, calls: 0, want: "expected at least 1 calls, got 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)
			mock := core.NewMock(nil, "Beta", []string{"X"})

			tt.configure(mock.Method("X").ExpectCalled())

			for range tt.calls {
				mock.Invoke("X")
			}

			g.Expect(mock.Verify()).To(MatchError(ContainSubstring(tt.want)))
		})
	}
}

func TestTimes_NegativeCountFails(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mockT := &mockTester{}
	mock := core.NewMock(mockT, "Beta", []string{"X"})

	mock.Method("X").ExpectCalled().Times(-1)

	g.Expect(mockT.Failures()).To(ConsistOf(ContainSubstring("negative call count -1")))
}

func TestInjectPanicValue(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mock := core.NewMock(t, "Beta", []string{"Y"})

	mock.Method("Y").InjectPanicValue("boom")

	g.Expect(func() { mock.Invoke("Y", "x") }).To(PanicWith("boom"))
	g.Expect(mock.Method("Y").CallCount()).To(Equal(1))
}

func TestMethod_UnknownOperation(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mockT := &mockTester{}
	mock := core.NewMock(mockT, "Beta", []string{"X"})

	op := mock.Method("Missing")

	g.Expect(op.Name()).To(Equal("Missing"))
	g.Expect(mockT.Failures()).To(ConsistOf(ContainSubstring(`Beta has no operation "Missing"`)))
}

func TestInvoke_UnknownOperationWithoutReporterPanics(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mock := core.NewMock(nil, "Beta", []string{"X"})

	g.Expect(func() { mock.Invoke("Missing") }).To(PanicWith(MatchError(core.ErrUnknownOperation)))
}

func TestCall_RoutesByName(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mock := core.NewMock(t, "Delta", []string{core.DispatchOperation, "Ping"})

	mock.Method("Ping").InjectReturnValues("pong")
	mock.Method(core.DispatchOperation).InjectReturnValues("dispatched")

	g.Expect(mock.Call("Ping")).To(Equal([]any{"pong"}))
	g.Expect(mock.Call("Anything", 1)).To(Equal([]any{"dispatched"}))
	g.Expect(mock.Method(core.DispatchOperation).Calls()[0].Args).To(Equal([]any{"Anything", 1}))
}

func TestCall_WithoutDispatchFallbackFails(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	mockT := &mockTester{}
	mock := core.NewMock(mockT, "Beta", []string{"X"})

	g.Expect(mock.Call("Anything")).To(BeNil())
	g.Expect(mockT.Failures()).To(ConsistOf(ContainSubstring("no Call fallback")))
}

func TestGenericCall_String(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	call := &core.GenericCall{MethodName: "Y", Args: []any{"a", 2}}

	g.Expect(call.Name()).To(Equal("Y"))
	g.Expect(call.String()).To(Equal(`Y("a", 2)`))
}

func TestMatchValue(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ok, msg := core.MatchValue(5, BeNumerically(">", 3))
	g.Expect(ok).To(BeTrue())
	g.Expect(msg).To(BeEmpty())

	ok, msg = core.MatchValue(1, BeNumerically(">", 3))
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).NotTo(BeEmpty())

	ok, _ = core.MatchValue([]int{1}, []int{1})
	g.Expect(ok).To(BeTrue())
}
