package binding

import (
	"time"

	"github.com/go-drift/ripple/pkg/errors"
)

// guard runs fn, converting an error or panic into a *errors.BindError.
func guard(view View, desc, source string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errors.BindError{
				Component:  view.Name(),
				Binding:    desc,
				Source:     source,
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
		}
	}()
	if e := fn(); e != nil {
		return &errors.BindError{
			Component: view.Name(),
			Binding:   desc,
			Source:    source,
			Err:       e,
			Timestamp: time.Now(),
		}
	}
	return nil
}

// report sends an update failure to the view's reporter. The binding keeps
// its last render.
func report(view View, op string, err error) {
	view.Reporter().Report(&errors.RippleError{
		Op:        op,
		Kind:      errors.KindRender,
		Component: view.Name(),
		Err:       err,
	})
}
