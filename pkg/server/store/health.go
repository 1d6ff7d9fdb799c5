package store

// HealthStore provides health check operations
type HealthStore interface {
	// CheckConnectivity verifies the backing store answers queries
	CheckConnectivity() error
}
