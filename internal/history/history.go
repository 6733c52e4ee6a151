package history

import (
	"sync"
	"time"

	"github.com/opstack-labs/platform-sim/internal/models"
)

// DefaultLimit bounds each history category.
const DefaultLimit = 100

// ClusterRecord is one retained cluster snapshot.
type ClusterRecord struct {
	Timestamp time.Time
	Data      models.ClusterStatus
}

// GatewayRecord is one retained gateway snapshot.
type GatewayRecord struct {
	Timestamp time.Time
	Data      models.GatewayStatus
}

// AlertCountRecord is one retained active-alert count sample.
type AlertCountRecord struct {
	Timestamp time.Time
	Count     int
}

// Ring keeps the most recent snapshots per telemetry category. Append and
// trim happen under one lock so the bound holds under concurrent writers.
type Ring struct {
	mu      sync.Mutex
	limit   int
	cluster []ClusterRecord
	gateway []GatewayRecord
	alerts  []AlertCountRecord
}

// NewRing constructs a Ring retaining up to limit entries per category.
func NewRing(limit int) *Ring {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Ring{limit: limit}
}

// AppendCluster retains a cluster snapshot.
func (r *Ring) AppendCluster(status models.ClusterStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cluster = append(r.cluster, ClusterRecord{Timestamp: status.Timestamp, Data: status})
	if len(r.cluster) > r.limit {
		r.cluster = append(r.cluster[:0], r.cluster[len(r.cluster)-r.limit:]...)
	}
}

// AppendGateway retains a gateway snapshot.
func (r *Ring) AppendGateway(status models.GatewayStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateway = append(r.gateway, GatewayRecord{Timestamp: status.Timestamp, Data: status})
	if len(r.gateway) > r.limit {
		r.gateway = append(r.gateway[:0], r.gateway[len(r.gateway)-r.limit:]...)
	}
}

// AppendAlertCount retains an active-alert count sample.
func (r *Ring) AppendAlertCount(ts time.Time, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, AlertCountRecord{Timestamp: ts, Count: count})
	if len(r.alerts) > r.limit {
		r.alerts = append(r.alerts[:0], r.alerts[len(r.alerts)-r.limit:]...)
	}
}

// LatestGateway returns the most recent gateway snapshot, if any.
func (r *Ring) LatestGateway() (GatewayRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.gateway) == 0 {
		return GatewayRecord{}, false
	}
	return r.gateway[len(r.gateway)-1], true
}

// Len reports the retained entry counts (cluster, gateway, alerts).
func (r *Ring) Len() (int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cluster), len(r.gateway), len(r.alerts)
}
