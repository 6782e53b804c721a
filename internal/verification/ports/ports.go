// Package ports declares the narrow contracts the verification pipeline
// consumes. Geocoding, OCR, EXIF extraction, and media hosting are external
// collaborators: the pipeline never talks to a third-party API directly,
// only through these interfaces, so provider failures can be degraded into
// conservative signals at one place.
package ports

import (
	"context"

	"shopdir/pkg/geo"
)

// Address is a geocoding result. Location is nil when the provider returned
// text without coordinates.
type Address struct {
	Formatted string
	Location  *geo.Point
}

// Upload is the durable copy of a re-hosted media file.
type Upload struct {
	URL      string
	PublicID string
}

// ReverseGeocoder resolves coordinates into a human-readable address.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, point geo.Point) (Address, error)
}

// ForwardGeocoder resolves free-form address text into coordinates.
type ForwardGeocoder interface {
	ForwardGeocode(ctx context.Context, query string) (geo.Point, error)
}

// TextExtractor machine-reads a document (OCR) into raw text.
type TextExtractor interface {
	ExtractText(ctx context.Context, documentURL string) (string, error)
}

// ExifReader extracts embedded GPS coordinates from an image. A nil point
// with a nil error means the image carries no GPS metadata; that absence is
// not an error.
type ExifReader interface {
	ExtractGPS(ctx context.Context, imageURL string) (*geo.Point, error)
}

// MediaStore re-hosts a file from a source URL into durable storage.
type MediaStore interface {
	UploadFromURL(ctx context.Context, sourceURL, folder string) (Upload, error)
}
