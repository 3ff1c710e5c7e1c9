package cmd

import (
	"github.com/go-drift/ripple/pkg/config"
	"github.com/go-drift/ripple/pkg/core"
	"github.com/go-drift/ripple/pkg/directives"
	"github.com/go-drift/ripple/pkg/errors"
	"github.com/go-drift/ripple/pkg/scheduler"
)

// newRuntime creates the runtime used by render and check. Inside a Go
// module the project's ripple.yaml supplies the delimiters; elsewhere the
// defaults apply. Frames are manual because commands render synchronously.
// Errors are logged to stderr, with stack traces under --verbose or
// runtime.verboseErrors.
func newRuntime() (*core.Runtime, error) {
	handler := &errors.LogHandler{Verbose: verbose}
	opts := []core.RuntimeOption{core.WithFrames(&scheduler.ManualFrames{})}
	if root, err := config.FindProjectRoot(); err == nil {
		cfg, err := config.Resolve(root)
		if err != nil {
			return nil, err
		}
		opts = append(opts, core.WithDelims(cfg.Open, cfg.Close))
		handler.Verbose = handler.Verbose || cfg.VerboseErrors
	}
	opts = append(opts, core.WithErrorHandler(handler))
	rt := core.NewRuntime(opts...)
	directives.Register(rt)
	return rt, nil
}
