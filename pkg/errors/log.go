package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Out overrides the destination. Defaults to os.Stderr.
	Out io.Writer
}

func (h *LogHandler) out() io.Writer {
	if h.Out != nil {
		return h.Out
	}
	return os.Stderr
}

// prefix colours the log tag when the destination is a terminal.
func (h *LogHandler) prefix(tag, color string) string {
	f, ok := h.out().(*os.File)
	if !ok {
		return "[" + tag + "]"
	}
	fd := f.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return color + "[" + tag + "]" + colorReset
	}
	return "[" + tag + "]"
}

// HandleError logs a RippleError.
func (h *LogHandler) HandleError(err *RippleError) {
	if err == nil {
		return
	}
	w := h.out()
	tag := h.prefix("ripple error", colorYellow)
	if h.Verbose {
		fmt.Fprintf(w, "%s %s [%s]", tag, err.Op, err.Kind)
		if err.Component != "" {
			fmt.Fprintf(w, " component=%s", err.Component)
		}
		fmt.Fprintf(w, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(w, "%s %s: %v\n", tag, err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	w := h.out()
	tag := h.prefix("ripple panic", colorRed)
	if err.Op != "" {
		fmt.Fprintf(w, "%s %s: %v\n", tag, err.Op, err.Value)
	} else {
		fmt.Fprintf(w, "%s %v\n", tag, err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}
