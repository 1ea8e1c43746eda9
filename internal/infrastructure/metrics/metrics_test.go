package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/x", 200, time.Millisecond)
	m.EmailSent("teamInvite", nil)
	m.DBConnectRetry(1, errors.New("x"))
	m.CacheLookup("matchmaking", true)
	if m.Registry() != nil {
		t.Fatalf("expected nil registry")
	}
}

func TestCounters(t *testing.T) {
	m := New()

	m.EmailSent("deadlineReminder", nil)
	m.EmailSent("deadlineReminder", errors.New("smtp down"))
	m.EmailSent("deadlineReminder", errors.New("smtp down"))

	if got := testutil.ToFloat64(m.emails.WithLabelValues("deadlineReminder", "ok")); got != 1 {
		t.Fatalf("expected 1 ok, got %v", got)
	}
	if got := testutil.ToFloat64(m.emails.WithLabelValues("deadlineReminder", "error")); got != 2 {
		t.Fatalf("expected 2 errors, got %v", got)
	}

	m.DBConnectRetry(1, nil)
	if got := testutil.ToFloat64(m.dbConnectRetries); got != 1 {
		t.Fatalf("expected 1 retry, got %v", got)
	}

	m.SetBreakerState("smtp", 2)
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("smtp")); got != 2 {
		t.Fatalf("expected open state, got %v", got)
	}
}
