package async

import "context"

// Worker is a long running background job. Run blocks until ctx is done or
// Shutdown is called, then invokes done.
type Worker interface {
	Run(ctx context.Context, done func())
	Shutdown()
}
