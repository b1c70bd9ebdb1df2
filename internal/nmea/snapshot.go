package nmea

import "math"

// Snapshot is the outward rendering of a Fix. A field is present if and only
// if its presence condition holds; absent fields are omitted, never rendered
// as zero.
//
// Altitude and FixType are gated on a GGA having been seen, the DOP triple
// on a GSA (a GGA-supplied HDOP feeds the accuracy estimate but is not
// rendered on its own). Date is [day, month, year] once a date has arrived,
// Time is [hour, minute, second] keyed off the same arrival.
type Snapshot struct {
	Valid bool `json:"valid"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Course    *float64 `json:"course,omitempty"`

	SatellitesUsed    *int `json:"satellites_used,omitempty"`
	SatellitesVisible *int `json:"satellites_visible,omitempty"`
	FixType           *int `json:"fix_type,omitempty"`

	HDOP     *float64 `json:"hdop,omitempty"`
	VDOP     *float64 `json:"vdop,omitempty"`
	PDOP     *float64 `json:"pdop,omitempty"`
	Accuracy *float64 `json:"accuracy,omitempty"`

	Date []int `json:"date,omitempty"`
	Time []int `json:"time,omitempty"`

	Timestamp string `json:"timestamp,omitempty"`
}

// Snapshot renders the current state. A fresh or reset Fix renders only
// the validity flag (false).
func (f *Fix) Snapshot() Snapshot {
	out := Snapshot{Valid: f.valid}

	if !math.IsNaN(f.latitude) {
		v := f.latitude
		out.Latitude = &v
	}
	if !math.IsNaN(f.longitude) {
		v := f.longitude
		out.Longitude = &v
	}
	if f.hasGGA && !math.IsNaN(f.altitude) {
		v := f.altitude
		out.Altitude = &v
	}
	if !math.IsNaN(f.speed) {
		v := round1(f.speed)
		out.Speed = &v
	}
	if !math.IsNaN(f.course) {
		v := round1(f.course)
		out.Course = &v
	}

	if f.hasSatellitesUsed {
		v := f.satellitesUsed
		out.SatellitesUsed = &v
	}
	if f.hasSatellitesVisible {
		v := f.satellitesVisible
		out.SatellitesVisible = &v
	}
	if f.hasGGA {
		v := f.fixType
		out.FixType = &v
	}

	if f.hasGSA && !math.IsNaN(f.hdop) {
		v := round1(f.hdop)
		out.HDOP = &v
	}
	if f.hasGSA && !math.IsNaN(f.vdop) {
		v := round1(f.vdop)
		out.VDOP = &v
	}
	if f.hasGSA && !math.IsNaN(f.pdop) {
		v := round1(f.pdop)
		out.PDOP = &v
	}
	if f.hasAccuracy && !math.IsNaN(f.accuracy) {
		v := f.accuracy
		out.Accuracy = &v
	}

	if f.year > 0 && f.month > 0 && f.day > 0 {
		out.Date = []int{f.day, f.month, f.year}
	}
	if f.year > 0 {
		out.Time = []int{f.hour, f.minute, f.second}
	}
	if f.timestamp != "" {
		out.Timestamp = f.timestamp
	}

	return out
}
