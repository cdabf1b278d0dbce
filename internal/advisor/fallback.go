package advisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"billaudit/internal/domain"
	"billaudit/internal/port"
)

// circuitState tracks rate-limit backoff for a single advisor.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackAdvisor tries advisors in order, skipping those with open
// rate-limit circuits. It implements port.BillAdvisor. This is provider
// substitution within a single attempt, not a retry policy: each provider is
// called at most once per operation.
type FallbackAdvisor struct {
	advisors []port.BillAdvisor
	circuits []*circuitState
	names    []string
	log      zerolog.Logger
}

// NewFallbackAdvisor creates a FallbackAdvisor from an ordered list of
// advisors and their names.
func NewFallbackAdvisor(advisors []port.BillAdvisor, names []string, log zerolog.Logger) *FallbackAdvisor {
	circuits := make([]*circuitState, len(advisors))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackAdvisor{
		advisors: advisors,
		circuits: circuits,
		names:    names,
		log:      log,
	}
}

func (f *FallbackAdvisor) ExtractLineItems(ctx context.Context, bill, aftercare string) ([]domain.LineItem, error) {
	var out []domain.LineItem
	err := f.attempt(func(a port.BillAdvisor) error {
		items, err := a.ExtractLineItems(ctx, bill, aftercare)
		if err != nil {
			return err
		}
		out = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *FallbackAdvisor) ValidateCodes(ctx context.Context, bill, aftercare string, items []port.EnrichedLineItem) (*port.ValidationOutcome, error) {
	var out *port.ValidationOutcome
	err := f.attempt(func(a port.BillAdvisor) error {
		outcome, err := a.ValidateCodes(ctx, bill, aftercare, items)
		if err != nil {
			return err
		}
		out = outcome
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *FallbackAdvisor) DraftAppeal(ctx context.Context, bill, aftercare, overallReasoning string, disputed []port.DisputedItem) (string, error) {
	var out string
	err := f.attempt(func(a port.BillAdvisor) error {
		letter, err := a.DraftAppeal(ctx, bill, aftercare, overallReasoning, disputed)
		if err != nil {
			return err
		}
		out = letter
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// attempt runs call against each advisor in order until one succeeds,
// opening circuits on rate limits and skipping advisors whose circuit is
// still open.
func (f *FallbackAdvisor) attempt(call func(port.BillAdvisor) error) error {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, a := range f.advisors {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			f.log.Warn().
				Str("advisor", f.names[i]).
				Time("circuit_open_until", resetAt).
				Msg("skipping rate-limited advisor")
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		err := call(a)
		if err == nil {
			return nil
		}

		f.log.Warn().Str("advisor", f.names[i]).Err(err).Msg("advisor call failed")
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		// Every advisor was either skipped or rate limited this pass.
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return NewRateLimitError("all", fmt.Errorf("all advisors rate limited"), int(retryAfter.Seconds()))
	}

	return fmt.Errorf("all advisors failed: %w", lastErr)
}
