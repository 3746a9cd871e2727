package audit

import (
	"context"
	"errors"
	"log/slog"

	"formprefill/pkg/platform/circuit"
)

// FallbackStore writes to primary and diverts events to fallback when the
// primary fails or the breaker is open. While open, primary only sees the
// breaker's probe calls. Events written to fallback are not replayed.
type FallbackStore struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallbackStore(primary, fallback Store, breaker *circuit.Breaker, logger *slog.Logger) *FallbackStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackStore{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (s *FallbackStore) Append(ctx context.Context, event Event) error {
	if !s.breaker.AllowPrimary() {
		return s.fallback.Append(ctx, event)
	}

	err := s.primary.Append(ctx, event)
	if err == nil {
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "audit sink recovered", "breaker", s.breaker.Name())
		}
		return nil
	}

	if _, change := s.breaker.RecordFailure(); change.Opened {
		s.logger.WarnContext(ctx, "audit sink failing, diverting to fallback",
			"breaker", s.breaker.Name(),
			"error", err,
		)
	}
	if ferr := s.fallback.Append(ctx, event); ferr != nil {
		return errors.Join(err, ferr)
	}
	return nil
}
