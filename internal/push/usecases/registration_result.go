package usecases

import (
	"errors"
)

var (
	ErrOptionsRequired   = errors.New("registration options are required")
	ErrObjectIDMissing   = errors.New("no remote object id recorded")
	ErrMalformedResponse = errors.New("malformed registration response")
)

type Operation string

const (
	OperationRegister   Operation = "register"
	OperationUnregister Operation = "unregister"
)

// RegistrationResult is what a remote register or unregister call completed with.
// Registered is the flag value the completion wrote.
type RegistrationResult struct {
	Operation  Operation
	Registered bool
	ObjectID   string
	StatusCode int
	Err        error
}

func (r RegistrationResult) Failed() bool {
	return r.Err != nil
}

func (r RegistrationResult) outcome() string {
	switch {
	case r.Err == nil:
		return "success"
	case errors.Is(r.Err, ErrMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}
