package mocks

import (
	"context"
	"sync"

	"lodging/infras/otel"
)

// Otel is an in-memory otel.Otel. It remembers the spans opened through it and the
// errors traced on them.
type Otel struct {
	mu     sync.Mutex
	spans  []string
	errors []error
}

func (o *Otel) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	o.mu.Lock()
	o.spans = append(o.spans, spanName)
	o.mu.Unlock()

	return ctx, &scopeImpl{otel: o}
}

func (o *Otel) Shutdown(_ context.Context) error {
	return nil
}

// Spans returns the names of the spans opened so far.
func (o *Otel) Spans() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]string(nil), o.spans...)
}

// Errors returns every error traced so far.
func (o *Otel) Errors() []error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]error(nil), o.errors...)
}

func (o *Otel) record(err error) {
	o.mu.Lock()
	o.errors = append(o.errors, err)
	o.mu.Unlock()
}

func NewOtel() otel.Otel {
	return NewRecorder()
}

func NewRecorder() *Otel {
	return &Otel{}
}
