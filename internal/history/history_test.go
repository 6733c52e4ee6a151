package history

import (
	"sync"
	"testing"
	"time"

	"github.com/opstack-labs/platform-sim/internal/models"
)

func TestRingTrimsToLimit(t *testing.T) {
	ring := NewRing(3)

	for i := 0; i < 10; i++ {
		ring.AppendGateway(models.GatewayStatus{
			Summary:   models.GatewaySummary{TotalRequests: i},
			Timestamp: time.Now(),
		})
	}

	_, gateway, _ := ring.Len()
	if gateway != 3 {
		t.Fatalf("expected 3 retained gateway snapshots, got %d", gateway)
	}

	latest, ok := ring.LatestGateway()
	if !ok {
		t.Fatalf("expected a latest gateway snapshot")
	}
	if latest.Data.Summary.TotalRequests != 9 {
		t.Fatalf("expected newest snapshot to survive the trim, got %d",
			latest.Data.Summary.TotalRequests)
	}
}

func TestRingLatestGatewayEmpty(t *testing.T) {
	ring := NewRing(5)
	if _, ok := ring.LatestGateway(); ok {
		t.Fatalf("expected no snapshot from an empty ring")
	}
}

func TestRingBoundHoldsUnderConcurrentWriters(t *testing.T) {
	ring := NewRing(50)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				ring.AppendCluster(models.ClusterStatus{Timestamp: time.Now()})
				ring.AppendAlertCount(time.Now(), i)
			}
		}()
	}
	wg.Wait()

	cluster, _, alerts := ring.Len()
	if cluster != 50 || alerts != 50 {
		t.Fatalf("expected both categories trimmed to 50, got cluster=%d alerts=%d", cluster, alerts)
	}
}
