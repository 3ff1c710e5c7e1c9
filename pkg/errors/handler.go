package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// The process-wide handler receives reports from a Reporter that has no
// handler of its own and from the package-level Report functions.
var (
	processMu      sync.RWMutex
	processHandler ErrorHandler = &LogHandler{}
)

// SetHandler replaces the process-wide handler. nil restores a LogHandler.
func SetHandler(h ErrorHandler) {
	processMu.Lock()
	defer processMu.Unlock()
	if h == nil {
		h = &LogHandler{}
	}
	processHandler = h
}

// Handler returns the process-wide handler.
func Handler() ErrorHandler {
	processMu.RLock()
	defer processMu.RUnlock()
	return processHandler
}

// Reporter routes the errors of one runtime to its handler. A nil Reporter,
// or one whose handler is unset, forwards to the process-wide handler, so
// two runtimes with their own handlers never see each other's reports.
type Reporter struct {
	mu      sync.RWMutex
	handler ErrorHandler
}

// NewReporter returns a Reporter delivering to h. A nil h forwards to the
// process-wide handler.
func NewReporter(h ErrorHandler) *Reporter {
	return &Reporter{handler: h}
}

// SetHandler replaces the reporter's handler. nil falls back to the
// process-wide handler.
func (r *Reporter) SetHandler(h ErrorHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handler = h
}

// Handler returns the handler reports are delivered to.
func (r *Reporter) Handler() ErrorHandler {
	if r != nil {
		r.mu.RLock()
		h := r.handler
		r.mu.RUnlock()
		if h != nil {
			return h
		}
	}
	return Handler()
}

// Report delivers err, stamping its Timestamp when unset.
func (r *Reporter) Report(err *RippleError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	r.Handler().HandleError(err)
}

// ReportPanic delivers a recovered panic, stamping its Timestamp when unset.
func (r *Reporter) ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	r.Handler().HandlePanic(err)
}

// Recover reports a panic in progress. It must be deferred directly:
//
//	defer reporter.Recover("scheduler.Flush")
func (r *Reporter) Recover(op string) {
	if v := recover(); v != nil {
		r.ReportPanic(panicked(op, v))
	}
}

// RecoverWithCallback is Recover followed by callback(v) for the panic value.
func (r *Reporter) RecoverWithCallback(op string, callback func(v any)) {
	if v := recover(); v != nil {
		r.ReportPanic(panicked(op, v))
		if callback != nil {
			callback(v)
		}
	}
}

// Report delivers err to the process-wide handler.
func Report(err *RippleError) {
	(*Reporter)(nil).Report(err)
}

// ReportPanic delivers err to the process-wide handler.
func ReportPanic(err *PanicError) {
	(*Reporter)(nil).ReportPanic(err)
}

// Recover reports a panic in progress to the process-wide handler.
// Usage: defer errors.Recover("operation.name")
func Recover(op string) {
	if v := recover(); v != nil {
		ReportPanic(panicked(op, v))
	}
}

// RecoverWithCallback is Recover followed by callback(v) for the panic value.
func RecoverWithCallback(op string, callback func(v any)) {
	if v := recover(); v != nil {
		ReportPanic(panicked(op, v))
		if callback != nil {
			callback(v)
		}
	}
}

func panicked(op string, v any) *PanicError {
	return &PanicError{
		Op:         op,
		Value:      v,
		StackTrace: stack(4),
		Timestamp:  time.Now(),
	}
}

// CaptureStack returns the caller's call stack, one function and position
// per frame.
func CaptureStack() string {
	return stack(3)
}

func stack(skip int) string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
