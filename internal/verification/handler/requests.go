package handler

import (
	"net/url"
	"strings"

	dErrors "shopdir/pkg/domain-errors"
	"shopdir/pkg/geo"
)

// LocationRequest is the HTTP request body for the location check.
type LocationRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`

	// Parsed values (populated by Validate)
	parsedPoint geo.Point
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *LocationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Lat == nil || r.Lon == nil {
		return dErrors.New(dErrors.CodeValidation, "lat and lon are required")
	}
	point := geo.Point{Lat: *r.Lat, Lon: *r.Lon}
	if !point.Valid() {
		return dErrors.New(dErrors.CodeValidation, "lat must be in [-90, 90] and lon in [-180, 180]")
	}
	r.parsedPoint = point
	return nil
}

// ParsedPoint returns the validated coordinates.
func (r *LocationRequest) ParsedPoint() geo.Point {
	return r.parsedPoint
}

// LicenseRequest is the HTTP request body for the license document check.
type LicenseRequest struct {
	DocumentURL string `json:"document_url"`
}

func (r *LicenseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.DocumentURL = strings.TrimSpace(r.DocumentURL)
	return validateHTTPURL(r.DocumentURL, "document_url")
}

// PhotoRequest is the HTTP request body for the photo proof check.
type PhotoRequest struct {
	PhotoURL string `json:"photo_url"`
}

func (r *PhotoRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.PhotoURL = strings.TrimSpace(r.PhotoURL)
	return validateHTTPURL(r.PhotoURL, "photo_url")
}

func validateHTTPURL(raw, field string) error {
	if raw == "" {
		return dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	if len(raw) > 2048 {
		return dErrors.New(dErrors.CodeValidation, field+" must be at most 2048 characters")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return dErrors.New(dErrors.CodeValidation, field+" must be an absolute http(s) URL")
	}
	return nil
}
