// Package exifimg implements the EXIF GPS port by downloading the image and
// decoding its metadata locally.
package exifimg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"shopdir/pkg/geo"
)

// maxImageBytes bounds the download; storefront photos beyond this are
// truncated, which still leaves the EXIF header readable.
const maxImageBytes = 20 << 20

// Reader downloads images over HTTP and extracts embedded GPS coordinates.
type Reader struct {
	httpClient *http.Client
}

// New constructs an EXIF reader.
func New(timeout time.Duration) *Reader {
	return &Reader{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ExtractGPS returns the image's embedded coordinates, or nil when the image
// carries no GPS metadata. Stripped metadata is the common case for photos
// that passed through messaging apps, so it is not an error.
func (r *Reader) ExtractGPS(ctx context.Context, imageURL string) (*geo.Point, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	x, err := exif.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		// No EXIF block at all
		return nil, nil
	}

	lat, lon, err := x.LatLong()
	if err != nil {
		// EXIF present but without GPS tags
		return nil, nil
	}

	point := geo.Point{Lat: lat, Lon: lon}
	if !point.Valid() {
		return nil, nil
	}
	return &point, nil
}
