package domain

import (
	"errors"
	"push-registrar/internal/infra/utils"
)

const (
	DefaultVendor     = "Android"
	DefaultAPIVersion = "v27.0"
)

// Bundle keys. Changing any of them breaks previously persisted registrations.
const (
	BundleKeyToken           = "pnsToken"
	BundleKeyObjectEntity    = "pushObjectEntity"
	BundleKeyApplicationName = "applicationName"
	BundleKeyNamespacePrefix = "namespacePrefix"
	BundleKeyAPIVersion      = "apiVersion"
	BundleKeyVendor          = "vendor"
)

// Bundle is the flat key-value form RegistrationOptions are persisted in.
type Bundle map[string]string

// RegistrationOptions describes how a device is recorded on the remote backend.
// ObjectID stays nil until a remote registration succeeds.
type RegistrationOptions struct {
	Token           string
	ApplicationName string
	NamespacePrefix string
	Vendor          string
	APIVersion      string
	ObjectID        *string
}

func (o RegistrationOptions) HasObjectID() bool {
	return o.ObjectID != nil
}

// ObjectIDOrEmpty returns the recorded remote object id or "".
func (o RegistrationOptions) ObjectIDOrEmpty() string {
	if o.ObjectID == nil {
		return ""
	}
	return *o.ObjectID
}

func (o *RegistrationOptions) SetObjectID(value string) {
	o.ObjectID = &value
}

func (o RegistrationOptions) AsBundle() Bundle {
	bundle := Bundle{
		BundleKeyToken:           o.Token,
		BundleKeyApplicationName: o.ApplicationName,
		BundleKeyNamespacePrefix: o.NamespacePrefix,
		BundleKeyVendor:          o.Vendor,
		BundleKeyAPIVersion:      o.APIVersion,
	}
	if o.ObjectID != nil {
		bundle[BundleKeyObjectEntity] = *o.ObjectID
	}
	return bundle
}

// FromBundle rebuilds options from their persisted form. Absent vendor and API
// version keys fall back to the defaults so that older bundles keep loading.
// Present keys are kept as is, even when empty.
func FromBundle(bundle Bundle) RegistrationOptions {
	options := RegistrationOptions{
		Token:           bundle[BundleKeyToken],
		ApplicationName: bundle[BundleKeyApplicationName],
		NamespacePrefix: bundle[BundleKeyNamespacePrefix],
		Vendor:          DefaultVendor,
		APIVersion:      DefaultAPIVersion,
	}
	if value, ok := bundle[BundleKeyVendor]; ok {
		options.Vendor = value
	}
	if value, ok := bundle[BundleKeyAPIVersion]; ok {
		options.APIVersion = value
	}
	if value, ok := bundle[BundleKeyObjectEntity]; ok {
		options.SetObjectID(value)
	}
	return options
}

func NewRegistrationOptionsBuilder() *registrationOptionsBuilder {
	return &registrationOptionsBuilder{}
}

type registrationOptionsBuilder struct {
	actions []registrationOptionsHandler
}

type registrationOptionsHandler func(v *RegistrationOptions) error

func (b *registrationOptionsBuilder) WithToken(value string) *registrationOptionsBuilder {
	b.actions = append(b.actions, func(d *RegistrationOptions) error {
		d.Token = value
		return nil
	})
	return b
}

func (b *registrationOptionsBuilder) WithApplicationName(value string) *registrationOptionsBuilder {
	b.actions = append(b.actions, func(d *RegistrationOptions) error {
		d.ApplicationName = value
		return nil
	})
	return b
}

func (b *registrationOptionsBuilder) WithNamespacePrefix(value string) *registrationOptionsBuilder {
	b.actions = append(b.actions, func(d *RegistrationOptions) error {
		d.NamespacePrefix = value
		return nil
	})
	return b
}

func (b *registrationOptionsBuilder) WithVendor(value string) *registrationOptionsBuilder {
	b.actions = append(b.actions, func(d *RegistrationOptions) error {
		if value != "" {
			d.Vendor = value
		}
		return nil
	})
	return b
}

func (b *registrationOptionsBuilder) WithAPIVersion(value string) *registrationOptionsBuilder {
	b.actions = append(b.actions, func(d *RegistrationOptions) error {
		if value != "" {
			d.APIVersion = value
		}
		return nil
	})
	return b
}

func (b *registrationOptionsBuilder) WithObjectID(value string) *registrationOptionsBuilder {
	b.actions = append(b.actions, func(d *RegistrationOptions) error {
		d.ObjectID = utils.StringPtr(value)
		return nil
	})
	return b
}

func (b *registrationOptionsBuilder) Build() (RegistrationOptions, error) {
	result := RegistrationOptions{
		Vendor:     DefaultVendor,
		APIVersion: DefaultAPIVersion,
	}

	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return RegistrationOptions{}, err
		}
	}

	if result.Token == "" {
		return RegistrationOptions{}, errors.New("token is required")
	}

	if result.ApplicationName == "" {
		return RegistrationOptions{}, errors.New("application name is required")
	}

	return result, nil
}
