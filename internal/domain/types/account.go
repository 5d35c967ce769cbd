package types

import "time"

// AccountRequest is the payload sent to the account-creation endpoint.
// Lat and Lng are omitted when no location was resolved.
type AccountRequest struct {
	CompanyName string   `json:"companyName" validate:"notblank"`
	PhoneNumber string   `json:"phoneNumber" validate:"phone10"`
	Email       string   `json:"email" validate:"basicemail"`
	Address     string   `json:"address" validate:"notblank"`
	Password    string   `json:"password" validate:"min=8"`
	Lat         *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng         *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
}

// Account is what the endpoint returns once the company is registered.
type Account struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"companyName"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
}
