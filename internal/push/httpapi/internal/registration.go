package internal

import (
	"push-registrar/internal/push/domain"
	"push-registrar/internal/push/usecases"
)

type RegistrationOptions struct {
	Token           string `json:"token"`
	ApplicationName string `json:"application_name"`
	NamespacePrefix string `json:"namespace_prefix,omitempty"`
	Vendor          string `json:"vendor"`
	APIVersion      string `json:"api_version"`
	ObjectID        string `json:"object_id,omitempty"`
}

type RegistrationResult struct {
	Operation  string `json:"operation"`
	Registered bool   `json:"registered"`
	ObjectID   string `json:"object_id,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

type RegistrationStatus struct {
	ApplicationName         string               `json:"application_name"`
	PushConfigured          bool                 `json:"push_configured"`
	TransportRegistrationID string               `json:"transport_registration_id,omitempty"`
	Registered              bool                 `json:"registered"`
	Options                 *RegistrationOptions `json:"options,omitempty"`
	LastResult              *RegistrationResult  `json:"last_result,omitempty"`
}

func FromRegistrationResult(value usecases.RegistrationResult) RegistrationResult {
	result := RegistrationResult{
		Operation:  string(value.Operation),
		Registered: value.Registered,
		ObjectID:   value.ObjectID,
		StatusCode: value.StatusCode,
	}
	if value.Err != nil {
		result.Error = value.Err.Error()
	}
	return result
}

func FromRegistrationStatus(value usecases.RegistrationStatus) RegistrationStatus {
	status := RegistrationStatus{
		ApplicationName:         value.ApplicationName,
		PushConfigured:          value.PushConfigured,
		TransportRegistrationID: value.TransportRegistrationID,
		Registered:              value.Registered,
	}
	if value.Options != nil {
		status.Options = fromRegistrationOptions(*value.Options)
	}
	if value.LastResult != nil {
		result := FromRegistrationResult(*value.LastResult)
		status.LastResult = &result
	}
	return status
}

func fromRegistrationOptions(value domain.RegistrationOptions) *RegistrationOptions {
	return &RegistrationOptions{
		Token:           value.Token,
		ApplicationName: value.ApplicationName,
		NamespacePrefix: value.NamespacePrefix,
		Vendor:          value.Vendor,
		APIVersion:      value.APIVersion,
		ObjectID:        value.ObjectIDOrEmpty(),
	}
}
