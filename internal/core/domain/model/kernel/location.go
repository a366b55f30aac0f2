package kernel

import (
	"errors"
	"fmt"
	"math"

	"multistop/internal/pkg/errs"
	"multistop/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0

	earthRadiusKm = 6371.0
)

// ErrLocationIsNotConstructed is returned when attempting to use an improperly initialized Location.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError("location must be created via NewLocation")

// Location is a WGS84 point in decimal degrees. The zero value is invalid.
//
//	depot, _ := kernel.NewLocation(52.5200, 13.4050)
//	stop, _ := kernel.NewLocation(52.5163, 13.3777)
//	km, _ := depot.DistanceKm(stop) // ~1.9
type Location struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewLocation creates a location from decimal degrees.
//
// Parameters:
//   - lat: Latitude in [-90, 90]
//   - lng: Longitude in [-180, 180]
//
// Returns:
//   - Location: The validated location
//   - error: Joined range errors for both coordinates
func NewLocation(lat, lng float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLat(lat), loc.setLng(lng)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// Validate returns ErrLocationIsNotConstructed for the zero value.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Lat returns the latitude in decimal degrees.
func (l Location) Lat() float64 {
	return l.lat
}

// Lng returns the longitude in decimal degrees.
func (l Location) Lng() float64 {
	return l.lng
}

// String renders "lat,lng", the form the routing API accepts as a waypoint.
func (l Location) String() string {
	return fmt.Sprintf("%.6f,%.6f", l.lat, l.lng)
}

// IsEqual compares two locations coordinate by coordinate.
// Returns an error if either location was not constructed.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l == other, nil
}

// DistanceKm returns the great-circle (haversine) distance between two locations.
func (l Location) DistanceKm(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dLat := toRadians(other.lat - l.lat)
	dLng := toRadians(other.lng - l.lng)
	lat1 := toRadians(l.lat)
	lat2 := toRadians(other.lat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

func (l *Location) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	l.lat = lat
	return nil
}

func (l *Location) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}

	l.lng = lng
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
