package domain

// LoginOptions carries what used to be read from the process-wide login
// configuration. A nil *LoginOptions or an empty TransportApplicationID means
// push is not configured for this application.
type LoginOptions struct {
	TransportApplicationID string
	AccountType            AccountType
}

func (o *LoginOptions) PushConfigured() bool {
	return o != nil && o.TransportApplicationID != ""
}
