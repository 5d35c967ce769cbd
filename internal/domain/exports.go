package domain

import (
	interfaces "serviceflow/internal/domain/interfaces"
	types "serviceflow/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Field             = types.Field
	Stage             = types.Stage
	StageErrors       = types.StageErrors
	RegistrationDraft = types.RegistrationDraft
	GeoLocation       = types.GeoLocation
	AdvisoryKind      = types.AdvisoryKind
	LocationAdvisory  = types.LocationAdvisory
	AccountRequest    = types.AccountRequest
	Account           = types.Account
	RejectedError     = types.RejectedError
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	AccountClient     = interfaces.AccountClient
	GeocodingProvider = interfaces.GeocodingProvider
	LocationSink      = interfaces.LocationSink
	LocationPicker    = interfaces.LocationPicker
	Submitter         = interfaces.Submitter
	AccountStore      = interfaces.AccountStore
	PlaceDirectory    = interfaces.PlaceDirectory
)

// Re-exported constants and sentinels.
const (
	FieldCompanyName     = types.FieldCompanyName
	FieldPhoneNumber     = types.FieldPhoneNumber
	FieldEmail           = types.FieldEmail
	FieldAddress         = types.FieldAddress
	FieldPassword        = types.FieldPassword
	FieldConfirmPassword = types.FieldConfirmPassword

	StageIdentity    = types.StageIdentity
	StageLocation    = types.StageLocation
	StageCredentials = types.StageCredentials

	AdvisoryDenied      = types.AdvisoryDenied
	AdvisoryTimeout     = types.AdvisoryTimeout
	AdvisoryUnavailable = types.AdvisoryUnavailable
	AdvisoryNoResults   = types.AdvisoryNoResults
	AdvisoryInvalid     = types.AdvisoryInvalid
)

var (
	Fields      = types.Fields
	StageFields = types.StageFields

	ErrAccountExists    = types.ErrAccountExists
	ErrPermissionDenied = types.ErrPermissionDenied
	ErrNoResults        = types.ErrNoResults
)
