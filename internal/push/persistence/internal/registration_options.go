package internal

import (
	"push-registrar/internal/push/domain"

	"github.com/vmihailenco/msgpack/v5"
)

// RegistrationOptions is the stored form of domain.RegistrationOptions: the
// flat bundle, msgpack encoded.
type RegistrationOptions struct {
	Bundle domain.Bundle `msgpack:"b"`
}

func FromRegistrationOptions(value domain.RegistrationOptions) RegistrationOptions {
	return RegistrationOptions{Bundle: value.AsBundle()}
}

func (o RegistrationOptions) ToDomain() domain.RegistrationOptions {
	return domain.FromBundle(o.Bundle)
}

func (o RegistrationOptions) Marshal() ([]byte, error) {
	return msgpack.Marshal(o)
}

func UnmarshalRegistrationOptions(data []byte) (RegistrationOptions, error) {
	var result RegistrationOptions
	if err := msgpack.Unmarshal(data, &result); err != nil {
		return RegistrationOptions{}, err
	}
	return result, nil
}
