package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	carveauth "github.com/carve-stack/carveauth"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() carveauth.MetricsSnapshot
}

type counterDef struct {
	id   carveauth.MetricID
	name string
	help string
}

var counterDefs = []counterDef{
	{carveauth.MetricLoginSuccess, "carveauth_login_success_total", "Successful credential logins."},
	{carveauth.MetricLoginFailure, "carveauth_login_failure_total", "Rejected credential logins."},
	{carveauth.MetricSessionCreated, "carveauth_session_created_total", "Sessions written to the store."},
	{carveauth.MetricSessionRevoked, "carveauth_session_revoked_total", "Explicit session revocations."},
	{carveauth.MetricTokenIssued, "carveauth_token_issued_total", "Bearer tokens minted."},
	{carveauth.MetricIssueRejected, "carveauth_issue_rejected_total", "Issuance requests with no live session."},
	{carveauth.MetricValidateSuccess, "carveauth_validate_success_total", "Tokens resolved to an identity."},
	{carveauth.MetricValidateRejected, "carveauth_validate_rejected_total", "Malformed, expired, or forged tokens."},
	{carveauth.MetricSessionMismatch, "carveauth_session_mismatch_total", "Validations where token and session disagreed."},
}

type observedCounter struct {
	id         carveauth.MetricID
	instrument metric.Int64ObservableCounter
}

// Exporter mirrors engine counters into OTel observable counters.
type Exporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
}

// NewExporter registers one observable counter per engine metric on meter.
func NewExporter(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &Exporter{
		source:   source,
		counters: make([]observedCounter, 0, len(counterDefs)),
	}

	observables := make([]metric.Observable, 0, len(counterDefs))
	for _, def := range counterDefs {
		ins, err := meter.Int64ObservableCounter(def.name, metric.WithDescription(def.help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.id, instrument: ins})
		observables = append(observables, ins)
	}

	registration, err := meter.RegisterCallback(exporter.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	exporter.registration = registration
	return exporter, nil
}

func (e *Exporter) observe(_ context.Context, observer metric.Observer) error {
	snap := e.source.MetricsSnapshot()
	for _, counter := range e.counters {
		observer.ObserveInt64(counter.instrument, int64(snap.Counters[counter.id]))
	}
	return nil
}

// Close unregisters the callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
