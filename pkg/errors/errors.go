// Package errors provides structured error handling for the ripple runtime.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates a programmer error in a component definition,
	// such as a missing required attribute or an unregistered filter.
	KindConfig
	// KindExpression indicates a template expression failed to compile or run.
	KindExpression
	// KindRender indicates a scheduled re-render failed.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindBind indicates a binding failed while the template was walked.
	KindBind
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindExpression:
		return "expression"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	case KindBind:
		return "bind"
	default:
		return "unknown"
	}
}

// Sentinel errors for configuration failures. Wrapped errors can be matched
// with the standard library errors.Is.
var (
	ErrRequiredAttr     = errors.New("required attribute missing")
	ErrAttrType         = errors.New("attribute type mismatch")
	ErrUnknownFilter    = errors.New("unknown filter")
	ErrUnknownDirective = errors.New("unknown directive")
	ErrTemplate         = errors.New("invalid template")
	ErrDestroyed        = errors.New("component destroyed")
)

// RippleError represents a structured error in the ripple runtime.
type RippleError struct {
	// Op is the operation that failed (e.g., "binding.TextBinding.update").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Component is the component name, if applicable.
	Component string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RippleError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s [%s] component=%s: %v", e.Op, e.Kind, e.Component, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *RippleError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "scheduler.Flush").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// AttrError describes an attribute that failed validation.
type AttrError struct {
	// Component is the name of the component definition.
	Component string
	// Attr is the attribute name.
	Attr string
	// Want is the declared type name. Empty for a missing attribute.
	Want string
	// Got is the value that was supplied.
	Got any
}

func (e *AttrError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("%s: attribute %q is required", e.Component, e.Attr)
	}
	return fmt.Sprintf("%s: attribute %q must be %s, got %T", e.Component, e.Attr, e.Want, e.Got)
}

// Unwrap reports the matching sentinel so callers can use errors.Is.
func (e *AttrError) Unwrap() error {
	if e.Want == "" {
		return ErrRequiredAttr
	}
	return ErrAttrType
}

// BindError represents a failure while attaching a binding to a rendered node.
type BindError struct {
	// Component is the name of the component whose template failed.
	Component string
	// Binding is the binding description (e.g., "text", "attr:href").
	Binding string
	// Source is the template text the binding was built from.
	Source string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BindError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic binding %s in %s: %v", e.Binding, e.Component, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error binding %s in %s: %v", e.Binding, e.Component, e.Err)
	}
	return fmt.Sprintf("unknown error binding %s in %s", e.Binding, e.Component)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the ripple runtime.
type ErrorHandler interface {
	// HandleError is called when a recoverable error occurs.
	HandleError(err *RippleError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
