package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		p := Coordinates{Lat: 55.611087, Lng: 37.20829}
		assert.Equal(t, 0.0, Distance(p, p))
	})

	t.Run("known pair is within tolerance", func(t *testing.T) {
		// Two Moscow stops (Tolstopaltsevo, Marushkino) roughly 1.7km apart.
		a := Coordinates{Lat: 55.611087, Lng: 37.20829}
		b := Coordinates{Lat: 55.595884, Lng: 37.209755}
		d := Distance(a, b)
		assert.InDelta(t, 1692.99, d, 50)
	})

	t.Run("is symmetric", func(t *testing.T) {
		a := Coordinates{Lat: 10, Lng: 10}
		b := Coordinates{Lat: -5, Lng: 20}
		assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
	})
}
