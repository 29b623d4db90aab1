package core

import (
	"fmt"
	"strings"
)

// GenericCall records one invocation of a mocked operation.
type GenericCall struct {
	MethodName string
	Args       []any
}

// Name returns the operation name.
func (c *GenericCall) Name() string {
	return c.MethodName
}

// String renders the call as name(arg, ...).
func (c *GenericCall) String() string {
	parts := make([]string, len(c.Args))
	for i, arg := range c.Args {
		parts[i] = fmt.Sprintf("%#v", arg)
	}

	return c.MethodName + "(" + strings.Join(parts, ", ") + ")"
}

// GenericResponse holds what a mocked operation answers with.
type GenericResponse struct {
	Type         string // "return", "panic"
	ReturnValues []any
	PanicValue   any
}

// TestReporter is the minimal interface depmock needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// unexported constants.
const (
	responsePanic  = "panic"
	responseReturn = "return"
)
