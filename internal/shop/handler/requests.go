package handler

import (
	"strings"

	dErrors "shopdir/pkg/domain-errors"
)

// RegisterShopRequest is the HTTP request body for POST /shops.
type RegisterShopRequest struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	LicenseNumber string `json:"license_number"`
	Phone         string `json:"phone"`
}

// Validate validates and normalizes the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RegisterShopRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > 128 {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 128 characters")
	}

	r.Address = strings.TrimSpace(r.Address)
	if r.Address == "" {
		return dErrors.New(dErrors.CodeValidation, "address is required")
	}
	if len(r.Address) > 512 {
		return dErrors.New(dErrors.CodeValidation, "address must be at most 512 characters")
	}

	r.LicenseNumber = strings.TrimSpace(r.LicenseNumber)
	if len(r.LicenseNumber) > 64 {
		return dErrors.New(dErrors.CodeValidation, "license_number must be at most 64 characters")
	}

	r.Phone = strings.TrimSpace(r.Phone)
	if len(r.Phone) > 32 {
		return dErrors.New(dErrors.CodeValidation, "phone must be at most 32 characters")
	}

	return nil
}

// FinalizeRequest is the HTTP request body for the admin approve and reject
// endpoints. Notes are optional for approvals and recorded verbatim.
type FinalizeRequest struct {
	Notes string `json:"notes"`
}

func (r *FinalizeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Notes = strings.TrimSpace(r.Notes)
	if len(r.Notes) > 1024 {
		return dErrors.New(dErrors.CodeValidation, "notes must be at most 1024 characters")
	}
	return nil
}
