package transport

import (
	"context"
	"push-registrar/internal/push/usecases"
	"sync"
)

var _ usecases.Transport = (*MemoryTransport)(nil)

// MemoryTransport registers instantly and keeps its state in memory. It backs
// local mode and tests.
type MemoryTransport struct {
	mu             sync.Mutex
	deviceID       string
	registrationID string
	eligibilityErr error
}

func NewMemoryTransport(deviceID string) *MemoryTransport {
	return &MemoryTransport{deviceID: deviceID}
}

// SetEligibilityError makes CheckEligibility fail with err until reset with nil.
func (t *MemoryTransport) SetEligibilityError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eligibilityErr = err
}

// Rotate simulates the platform issuing a new token.
func (t *MemoryTransport) Rotate(registrationID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.registrationID = registrationID
}

func (t *MemoryTransport) CheckEligibility(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.eligibilityErr != nil {
		return t.eligibilityErr
	}
	if t.deviceID == "" {
		return ErrDeviceIDMissing
	}
	return nil
}

func (t *MemoryTransport) RegistrationID(_ context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.registrationID, nil
}

func (t *MemoryTransport) Register(_ context.Context, applicationID string) error {
	if applicationID == "" {
		return ErrEmptyApplicationID
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.registrationID = applicationID + "/" + t.deviceID
	return nil
}

func (t *MemoryTransport) Unregister(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.registrationID = ""
	return nil
}
