package services

import (
	"context"

	"golang.org/x/time/rate"
)

// RecalcDebouncer coalesces rapid successive recompute requests, such
// as a user typing into a "have" field or a burst of catalog file
// events. The engine itself never debounces; this is the helper calling
// code plugs in front of it.
type RecalcDebouncer struct {
	limiter *rate.Limiter
}

// NewRecalcDebouncer allows at most perSecond recomputes, with a burst
// of one: excess requests wait rather than stack up.
func NewRecalcDebouncer(perSecond float64) *RecalcDebouncer {
	if perSecond <= 0 {
		perSecond = 2
	}
	return &RecalcDebouncer{
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Allow reports whether a recompute may run right now without waiting
func (d *RecalcDebouncer) Allow() bool {
	return d.limiter.Allow()
}

// Wait blocks until a recompute may run, or the context is cancelled
func (d *RecalcDebouncer) Wait(ctx context.Context) error {
	return d.limiter.Wait(ctx)
}
