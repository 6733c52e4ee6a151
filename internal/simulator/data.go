package simulator

// Catalogs backing the synthetic telemetry. Pod names carry the "crash"
// marker convention: a pod whose name contains it always logs as problematic.

var podNames = []string{
	"api-gateway-7d9f8b-xyz12",
	"auth-service-5c8a4f-abc34",
	"payment-service-9b2e1d-def56",
	"notification-service-4a7c3e-ghi78",
	"user-service-6f1b9a-jkl90",
	"inventory-service-3d8e2c-mno12",
	"frontend-app-8c4f7b-pqr34",
}

var namespaces = []string{
	"production",
	"staging",
	"dev",
}

var apiEndpoints = []string{
	"/api/v1/users",
	"/api/v1/products",
	"/api/v1/orders",
	"/api/v1/auth/login",
	"/api/v1/payments",
	"/api/v1/inventory",
	"/api/v1/notifications",
}

var errorMessages = []string{
	"Connection refused to database",
	"OutOfMemoryError: Java heap space",
	"Timeout waiting for response",
	"Failed to authenticate request",
	"Null pointer exception in handler",
}

var benignMessages = []string{
	"Request processed successfully",
	"Cache hit for user data",
	"Database query executed in 45ms",
	"Health check passed",
	"Metrics exported to Prometheus",
}

var logSeverities = []string{"INFO", "WARN", "ERROR"}

// Weighted toward Running so a healthy cluster is the common case.
var podStatuses = []string{
	"Running",
	"Running",
	"Running",
	"Running",
	"Pending",
	"CrashLoopBackOff",
}
