package media

import (
	"context"

	"github.com/daybook-sh/daybook/pkg/journal"
)

// Geocoder resolves coordinates to a location snapshot. Implementations
// deliver the result exactly once via done, after which the caller attaches
// the snapshot to the entry it is creating. There is no cancellation; a
// lookup that cannot resolve a place name still delivers the raw
// coordinates, so an entry can always carry its location.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, latitude, longitude float64, done func(journal.Location))
}

// CoordinateGeocoder is the no-lookup fallback: it snapshots the raw
// coordinates with no place name or address.
type CoordinateGeocoder struct{}

func (CoordinateGeocoder) ReverseGeocode(_ context.Context, latitude, longitude float64, done func(journal.Location)) {
	done(journal.Location{Latitude: latitude, Longitude: longitude})
}
