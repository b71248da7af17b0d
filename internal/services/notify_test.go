package services

import (
	"context"
	"errors"
	"testing"

	"github.com/adriancmurray/notICE/internal/models"
)

type fakeProvider struct {
	name    string
	enabled bool
	err     error
	calls   int
}

func (p *fakeProvider) Name() string  { return p.name }
func (p *fakeProvider) Enabled() bool { return p.enabled }

func (p *fakeProvider) Deliver(ctx context.Context, r *models.Report, pres Presentation) error {
	p.calls++
	return p.err
}

func TestDispatchNoEnabledProviders(t *testing.T) {
	d := NewDispatcher(
		&fakeProvider{name: "telegram", enabled: false},
		&fakeProvider{name: "ntfy", enabled: false},
	)

	outcomes := d.Dispatch(&models.Report{ID: "r00000000000001"})
	if len(outcomes) != 0 {
		t.Errorf("Expected empty outcome map, got %v", outcomes)
	}
}

func TestDispatchIsolatesFailure(t *testing.T) {
	failing := &fakeProvider{name: "telegram", enabled: true, err: errors.New("bad token")}
	healthy := &fakeProvider{name: "ntfy", enabled: true}

	d := NewDispatcher(failing, healthy)
	outcomes := d.Dispatch(&models.Report{ID: "r00000000000001", Type: models.ReportTypeDanger})

	if len(outcomes) != 2 {
		t.Fatalf("Expected two outcomes, got %v", outcomes)
	}
	if outcomes["telegram"].Success {
		t.Errorf("Failing provider should be marked failed")
	}
	if outcomes["telegram"].Err == "" {
		t.Errorf("Failure outcome should carry error detail")
	}
	if !outcomes["ntfy"].Success {
		t.Errorf("Healthy provider should succeed despite the other's failure")
	}
	if healthy.calls != 1 {
		t.Errorf("Healthy provider should have been invoked once, got %d", healthy.calls)
	}
}

func TestDispatchSkipsDisabled(t *testing.T) {
	disabled := &fakeProvider{name: "email", enabled: false}
	enabled := &fakeProvider{name: "ntfy", enabled: true}

	d := NewDispatcher(disabled, enabled)
	outcomes := d.Dispatch(&models.Report{ID: "r00000000000001"})

	if _, present := outcomes["email"]; present {
		t.Errorf("Disabled provider must be omitted from outcomes")
	}
	if disabled.calls != 0 {
		t.Errorf("Disabled provider must not be invoked")
	}
	if !outcomes["ntfy"].Success {
		t.Errorf("Enabled provider should have delivered")
	}
}
