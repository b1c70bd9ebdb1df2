package geo

import (
	"errors"
	"fmt"
	"math"
)

// Mean Earth radius in meters, as used by the receiver firmware.
const earthRadiusM = 6371000.0

// ErrOutOfRange reports a coordinate outside the valid latitude/longitude
// range. It is distinct from "no position available"; callers that need to
// tell the two apart should compare with errors.Is.
var ErrOutOfRange = errors.New("geo: coordinate out of range")

// Point is a position in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p Point) validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %.6f not in [-90, 90]", ErrOutOfRange, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %.6f not in [-180, 180]", ErrOutOfRange, p.Lon)
	}
	return nil
}

// Distance returns the great-circle distance between a and b in meters,
// rounded to 0.1 m, using the haversine formula. Either point outside the
// valid range yields ErrOutOfRange.
func Distance(a, b Point) (float64, error) {
	if err := a.validate(); err != nil {
		return 0, err
	}
	if err := b.validate(); err != nil {
		return 0, err
	}

	lat1 := a.Lat * math.Pi / 180
	lon1 := a.Lon * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lon2 := b.Lon * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusM*c*10) / 10, nil
}
