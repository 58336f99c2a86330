package geo

import (
	"testing"

	"craftmart/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	milan := models.Coordinates{Lat: 45.4642, Lng: 9.19}
	turin := models.Coordinates{Lat: 45.0703, Lng: 7.6869}

	// Milan to Turin is roughly 126 km as the crow flies.
	assert.InDelta(t, 126, DistanceKm(milan, turin), 3)

	// Zero distance to itself, and symmetry.
	assert.Zero(t, DistanceKm(milan, milan))
	assert.InDelta(t, DistanceKm(milan, turin), DistanceKm(turin, milan), 0.0001)
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "450m", FormatDistance(0.45))
	assert.Equal(t, "3.9km", FormatDistance(3.94))
	assert.Equal(t, "126km", FormatDistance(126.2))
}
