package health

import "context"

// Pinger checks availability of a local dependency (corpus, KV store).
type Pinger interface {
	Ping(ctx context.Context) error
}

// RemoteChecker checks availability of a remote provider.
type RemoteChecker interface {
	HealthCheck(ctx context.Context) error
}
