package alerts

import (
	"testing"
	"time"

	"github.com/opstack-labs/platform-sim/internal/models"
)

func makeAlert(id, resource string, severity models.Severity, ts time.Time) models.Alert {
	return models.Alert{
		ID:        id,
		Type:      models.AlertCrashLoop,
		Severity:  severity,
		Resource:  resource,
		Message:   "CrashLoop detected on " + resource,
		Timestamp: ts,
		Status:    "firing",
	}
}

func TestStoreDeduplicatesByResource(t *testing.T) {
	store := NewStore(5 * time.Minute)
	now := time.Now()

	if !store.Record(makeAlert("a1", "payment-service", models.SeverityCritical, now)) {
		t.Fatalf("expected first alert for resource to be recorded")
	}
	if store.Record(makeAlert("a2", "payment-service", models.SeverityWarning, now)) {
		t.Fatalf("expected duplicate resource alert to be rejected")
	}

	list := store.List("all")
	if list.TotalAlerts != 1 {
		t.Fatalf("expected 1 active alert, got %d", list.TotalAlerts)
	}
	if list.Alerts[0].ID != "a1" {
		t.Fatalf("expected original alert to win, got %s", list.Alerts[0].ID)
	}
}

func TestStoreExpiresAlertsLazily(t *testing.T) {
	store := NewStore(5 * time.Minute)
	now := time.Now()

	store.Record(makeAlert("old", "auth-service", models.SeverityCritical, now.Add(-6*time.Minute)))
	store.Record(makeAlert("fresh", "api-gateway", models.SeverityWarning, now))

	list := store.List("all")
	if list.TotalAlerts != 1 {
		t.Fatalf("expected expired alert to be evicted, got %d alerts", list.TotalAlerts)
	}
	if list.Alerts[0].ID != "fresh" {
		t.Fatalf("expected fresh alert to survive, got %s", list.Alerts[0].ID)
	}

	if _, ok := store.Get("old"); ok {
		t.Fatalf("expected expired alert to be unreachable by id")
	}
}

func TestStoreExpiredAlertDoesNotBlockNewInsert(t *testing.T) {
	store := NewStore(5 * time.Minute)
	now := time.Now()

	store.Record(makeAlert("old", "payment-service", models.SeverityCritical, now.Add(-10*time.Minute)))
	if !store.Record(makeAlert("new", "payment-service", models.SeverityCritical, now)) {
		t.Fatalf("expected insert to succeed once the previous alert expired")
	}
}

func TestStoreListFiltersBySeverity(t *testing.T) {
	store := NewStore(5 * time.Minute)
	now := time.Now()

	store.Record(makeAlert("c1", "payment-service", models.SeverityCritical, now))
	store.Record(makeAlert("w1", "auth-service", models.SeverityWarning, now))
	store.Record(makeAlert("w2", "order-service", models.SeverityWarning, now))

	tests := []struct {
		severity string
		want     int
	}{
		{"all", 3},
		{"", 3},
		{"critical", 1},
		{"warning", 2},
		{"info", 0},
	}
	for _, tc := range tests {
		list := store.List(tc.severity)
		if list.TotalAlerts != tc.want {
			t.Fatalf("severity %q: expected %d alerts, got %d", tc.severity, tc.want, list.TotalAlerts)
		}
		if len(list.Alerts) != tc.want {
			t.Fatalf("severity %q: count and slice length disagree", tc.severity)
		}
	}

	critical := store.List("critical")
	if critical.Critical != 1 || critical.Warning != 0 {
		t.Fatalf("expected counts over the filtered set, got critical=%d warning=%d",
			critical.Critical, critical.Warning)
	}
}

func TestStoreGet(t *testing.T) {
	store := NewStore(5 * time.Minute)
	store.Record(makeAlert("a1", "payment-service", models.SeverityCritical, time.Now()))

	alert, ok := store.Get("a1")
	if !ok {
		t.Fatalf("expected alert a1 to be found")
	}
	if alert.Resource != "payment-service" {
		t.Fatalf("unexpected resource %s", alert.Resource)
	}

	if _, ok := store.Get("missing"); ok {
		t.Fatalf("expected missing id to report not found")
	}
}

func TestStoreActiveResource(t *testing.T) {
	store := NewStore(5 * time.Minute)
	store.Record(makeAlert("a1", "payment-service", models.SeverityCritical, time.Now()))

	if !store.ActiveResource("payment-service") {
		t.Fatalf("expected payment-service to be active")
	}
	if store.ActiveResource("auth-service") {
		t.Fatalf("expected auth-service to be inactive")
	}
}
