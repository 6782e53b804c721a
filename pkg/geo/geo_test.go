package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	t.Run("identical points have zero distance", func(t *testing.T) {
		p := Point{Lat: 48.8584, Lon: 2.2945}
		assert.Zero(t, p.DistanceMeters(p))
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		a := Point{Lat: 40.7128, Lon: -74.0060}
		b := Point{Lat: 40.7484, Lon: -73.9857}
		assert.InDelta(t, a.DistanceMeters(b), b.DistanceMeters(a), 1e-9)
	})

	t.Run("known distance within tolerance", func(t *testing.T) {
		// Eiffel Tower to Arc de Triomphe, roughly 2.2 km.
		a := Point{Lat: 48.8584, Lon: 2.2945}
		b := Point{Lat: 48.8738, Lon: 2.2950}
		d := a.DistanceMeters(b)
		assert.Greater(t, d, 1500.0)
		assert.Less(t, d, 2500.0)
	})

	t.Run("one degree of latitude is about 111 km", func(t *testing.T) {
		a := Point{Lat: 0, Lon: 0}
		b := Point{Lat: 1, Lon: 0}
		d := a.DistanceMeters(b)
		assert.Less(t, math.Abs(d-111195), 111195*0.005)
	})
}

func TestPointValid(t *testing.T) {
	assert.True(t, Point{Lat: 0, Lon: 0}.Valid())
	assert.True(t, Point{Lat: -90, Lon: 180}.Valid())
	assert.False(t, Point{Lat: 91, Lon: 0}.Valid())
	assert.False(t, Point{Lat: 0, Lon: -181}.Valid())
}
