package mocks

import "lodging/infras/otel"

type scopeImpl struct {
	otel *Otel
}

func (s *scopeImpl) End() {}

func (s *scopeImpl) AddEvent(_ string) {}

func (s *scopeImpl) SetAttribute(_ string, _ any) {}

func (s *scopeImpl) SetAttributes(_ map[string]any) {}

func (s *scopeImpl) TraceError(err error) {
	if s.otel != nil {
		s.otel.record(err)
	}
}

func (s *scopeImpl) TraceIfError(err *error) {
	if err != nil && *err != nil {
		s.TraceError(*err)
	}
}

func NewScope() otel.Scope {
	return &scopeImpl{}
}
