package kernel_test

import (
	"testing"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	t.Run("should create location with valid coordinates", func(t *testing.T) {
		loc, err := kernel.NewLocation(10.776, 106.700)

		require.NoError(t, err)
		assert.InEpsilon(t, 10.776, loc.Lat(), 1e-9)
		assert.InEpsilon(t, 106.700, loc.Lng(), 1e-9)
		require.NoError(t, loc.Validate())
	})

	t.Run("should accept boundary coordinates", func(t *testing.T) {
		corners := [][2]float64{
			{kernel.LatitudeMin, kernel.LongitudeMin},
			{kernel.LatitudeMin, kernel.LongitudeMax},
			{kernel.LatitudeMax, kernel.LongitudeMin},
			{kernel.LatitudeMax, kernel.LongitudeMax},
			{0, 0},
		}

		for _, c := range corners {
			loc, err := kernel.NewLocation(c[0], c[1])
			require.NoError(t, err)
			require.NoError(t, loc.Validate())
		}
	})

	t.Run("should reject latitude out of range", func(t *testing.T) {
		_, err := kernel.NewLocation(90.001, 0)
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = kernel.NewLocation(-91, 0)
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject longitude out of range", func(t *testing.T) {
		_, err := kernel.NewLocation(0, 180.5)
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = kernel.NewLocation(0, -200)
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestLocation_Validate(t *testing.T) {
	t.Run("zero value is invalid", func(t *testing.T) {
		var loc kernel.Location

		err := loc.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrLocationIsNotConstructed, err)
	})
}

func TestLocation_IsEqual(t *testing.T) {
	t.Run("same coordinates are equal", func(t *testing.T) {
		loc1, _ := kernel.NewLocation(10.5, 106.5)
		loc2, _ := kernel.NewLocation(10.5, 106.5)

		equal, err := loc1.IsEqual(loc2)

		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("different coordinates are not equal", func(t *testing.T) {
		loc1, _ := kernel.NewLocation(10.5, 106.5)
		loc2, _ := kernel.NewLocation(10.5, 106.6)

		equal, err := loc1.IsEqual(loc2)

		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("comparison with zero value fails", func(t *testing.T) {
		loc, _ := kernel.NewLocation(10.5, 106.5)
		var zero kernel.Location

		_, err := loc.IsEqual(zero)

		require.Error(t, err)
	})
}

func TestLocation_DistanceKm(t *testing.T) {
	t.Run("distance to self is zero", func(t *testing.T) {
		loc, _ := kernel.NewLocation(10.776, 106.700)

		km, err := loc.DistanceKm(loc)

		require.NoError(t, err)
		assert.InDelta(t, 0, km, 1e-9)
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		loc1, _ := kernel.NewLocation(10.776, 106.700)
		loc2, _ := kernel.NewLocation(10.800, 106.650)

		d1, err := loc1.DistanceKm(loc2)
		require.NoError(t, err)
		d2, err := loc2.DistanceKm(loc1)
		require.NoError(t, err)

		assert.InEpsilon(t, d1, d2, 1e-9)
	})

	t.Run("known distance between reference points", func(t *testing.T) {
		// One degree of latitude along a meridian is ~111.19 km.
		loc1, _ := kernel.NewLocation(10, 106)
		loc2, _ := kernel.NewLocation(11, 106)

		km, err := loc1.DistanceKm(loc2)

		require.NoError(t, err)
		assert.InDelta(t, 111.19, km, 0.5)
	})

	t.Run("distance from zero value fails", func(t *testing.T) {
		loc, _ := kernel.NewLocation(10, 106)
		var zero kernel.Location

		_, err := loc.DistanceKm(zero)

		require.Error(t, err)
	})
}
