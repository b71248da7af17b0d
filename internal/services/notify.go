package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/adriancmurray/notICE/internal/models"
	"github.com/apex/log"
	"github.com/google/uuid"
)

// deliverTimeout bounds each provider call so a slow third party cannot
// stall request handling.
const deliverTimeout = 10 * time.Second

// Provider is one alert delivery channel. Implementations read their
// configuration once at construction; Enabled reflects whether that
// configuration is complete. Deliver performs a single outbound call and
// reports its outcome as an error, never a panic.
type Provider interface {
	Name() string
	Enabled() bool
	Deliver(ctx context.Context, r *models.Report, p Presentation) error
}

// Outcome is the per-provider result of one dispatch.
type Outcome struct {
	Provider string
	Success  bool
	Err      string
}

// Dispatcher fans an accepted report out to every enabled provider. Each
// provider's failure is isolated: it is recorded in the outcome map and can
// neither prevent another provider's attempt nor reach the caller.
type Dispatcher struct {
	providers []Provider
	timeout   time.Duration
}

func NewDispatcher(providers ...Provider) *Dispatcher {
	return &Dispatcher{
		providers: providers,
		timeout:   deliverTimeout,
	}
}

// Dispatch renders the report once and delivers it through all enabled
// providers concurrently. It runs only after the report has been persisted
// and never mutates it. Disabled providers are omitted from the result.
func (d *Dispatcher) Dispatch(r *models.Report) map[string]Outcome {
	p := FormatReport(r)
	dispatchID := uuid.NewString()[:8]

	outcomes := make(map[string]Outcome)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, provider := range d.providers {
		if !provider.Enabled() {
			continue
		}

		wg.Add(1)
		go func(provider Provider) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()

			outcome := Outcome{Provider: provider.Name(), Success: true}
			if err := provider.Deliver(ctx, r, p); err != nil {
				outcome.Success = false
				outcome.Err = err.Error()
				log.WithField("dispatch", dispatchID).
					Errorf("%s delivery failed for report %s: %v", provider.Name(), r.ID, err)
			}

			mu.Lock()
			outcomes[provider.Name()] = outcome
			mu.Unlock()
		}(provider)
	}

	wg.Wait()

	var sent []string
	for name, o := range outcomes {
		if o.Success {
			sent = append(sent, name)
		}
	}

	logger := log.WithField("dispatch", dispatchID)
	if len(sent) > 0 {
		logger.Infof("Notifications sent for report %s via: %s", r.ID, strings.Join(sent, ", "))
	} else {
		logger.Infof("No notification delivered for report %s", r.ID)
	}

	return outcomes
}
