package hook

import (
	"context"
	"fmt"

	"github.com/CarloDePieri/pass2keepass2/internal/application"
	"github.com/CarloDePieri/pass2keepass2/internal/domain"
)

// Func adapts an in-process function to ports.Transformer. A panic inside
// the function becomes a HookExecutionError.
type Func func(*domain.Record) (*domain.Record, error)

// Transform calls f
func (f Func) Transform(_ context.Context, r *domain.Record) (out *domain.Record, err error) {
	id := r.Path()
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = &application.HookExecutionError{Identifier: id, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	out, err = f(r)
	if err != nil {
		return nil, &application.HookExecutionError{Identifier: id, Err: err}
	}
	return out, nil
}
