package geolocation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/campusmove/internal/domain/providers"
)

func TestGeocode_KnownArea(t *testing.T) {
	p := NewDeterministicGeolocationProvider()

	coords, err := p.Geocode(context.Background(), "IKEA Brooklyn, 1 Beard Street")
	require.NoError(t, err)
	assert.InDelta(t, 40.6782, coords.Latitude, 1e-9)
	assert.InDelta(t, -73.9442, coords.Longitude, 1e-9)
}

func TestGeocode_FallsBackToDefaultCenter(t *testing.T) {
	p := NewDeterministicGeolocationProvider()

	coords, err := p.Geocode(context.Background(), "Somewhere Unmapped")
	require.NoError(t, err)
	assert.Equal(t, DefaultCenter, *coords)
}

func TestGeocode_JitterStaysInBounds(t *testing.T) {
	p := NewMockGeolocationProvider()

	for i := 0; i < 100; i++ {
		coords, err := p.Geocode(context.Background(), "Unknown dorm")
		require.NoError(t, err)
		assert.InDelta(t, DefaultCenter.Latitude, coords.Latitude, defaultJitter/2)
		assert.InDelta(t, DefaultCenter.Longitude, coords.Longitude, defaultJitter/2)
	}
}

func TestCalculateDistance(t *testing.T) {
	p := NewDeterministicGeolocationProvider()
	fordham := providers.Coordinates{Latitude: 40.8618, Longitude: -73.8847}
	ikea := providers.Coordinates{Latitude: 40.6827, Longitude: -74.0112}

	d, err := p.CalculateDistance(context.Background(), fordham, ikea)
	require.NoError(t, err)
	assert.InDelta(t, 22.6, d, 0.1)

	zero, err := p.CalculateDistance(context.Background(), fordham, fordham)
	require.NoError(t, err)
	assert.Zero(t, zero)
}
