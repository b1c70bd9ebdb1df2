package nmea

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gnssfix/internal/geo"
)

const knotsToMS = 0.514444

// ErrNoPosition reports that the fix has no usable coordinates yet. It is
// distinct from geo.ErrOutOfRange.
var ErrNoPosition = errors.New("nmea: no position fix")

// Fix is the fused receiver state, accumulated across sentence types.
//
// Unset numeric fields hold NaN, never zero: zero is a legitimate course or
// latitude. The has* flags record which sentence types have contributed,
// which gates how some fields are rendered in Snapshot.
//
// A Fix has no internal locking. Calls that feed or read it must be
// serialized by the owner (a single reader goroutine in practice).
type Fix struct {
	latitude  float64
	longitude float64
	altitude  float64
	speed     float64
	course    float64

	satellitesUsed    int
	satellitesVisible int
	fixType           int

	hdop     float64
	vdop     float64
	pdop     float64
	accuracy float64

	year   int
	month  int
	day    int
	hour   int
	minute int
	second int

	valid bool

	hasGGA bool
	hasGSA bool
	hasGSV bool
	hasVTG bool

	hasSatellitesUsed    bool
	hasSatellitesVisible bool
	hasAccuracy          bool

	timestamp string
}

// NewFix returns a fix with every field unset. One Fix corresponds to one
// receiver session.
func NewFix() *Fix {
	f := &Fix{}
	f.Reset()
	return f
}

// Reset reinitializes the fix in place, independent of prior history.
func (f *Fix) Reset() {
	*f = Fix{
		latitude:  math.NaN(),
		longitude: math.NaN(),
		altitude:  math.NaN(),
		speed:     math.NaN(),
		course:    math.NaN(),
		hdop:      math.NaN(),
		vdop:      math.NaN(),
		pdop:      math.NaN(),
		accuracy:  math.NaN(),
	}
}

// Ingest validates and applies one raw sentence.
//
// ok is false when the line is not a checksum-valid NMEA sentence; the fix
// is left untouched and no snapshot is produced. For checksum-valid lines
// ok is true and the returned snapshot reflects the (possibly unchanged)
// state: unrecognized sentence types and recognized sentences with too few
// fields are silent no-ops, never errors.
func (f *Fix) Ingest(line string) (Snapshot, bool) {
	line = strings.TrimSpace(line)
	if len(line) < 6 || !checksumOK(line) {
		return Snapshot{}, false
	}

	switch line[:6] {
	case "$GPRMC", "$GNRMC":
		f.applyRMC(tokenize(line))
	case "$GPGGA", "$GNGGA":
		f.applyGGA(tokenize(line))
	case "$GPGSA", "$GNGSA":
		f.applyGSA(tokenize(line))
	case "$GPGSV", "$GLGSV", "$GNGSV", "$GBGSV":
		f.applyGSV(tokenize(line))
	case "$GPVTG", "$GNVTG":
		f.applyVTG(tokenize(line))
	}

	return f.Snapshot(), true
}

// GGA: fix data. Authoritative for coordinates, altitude, fix type and the
// satellites-used count; also supplies HDOP until a GSA arrives.
//
//	0: talker+type
//	1: time (hhmmss.sss)
//	2: latitude (ddmm.mmmm)
//	3: N/S
//	4: longitude (dddmm.mmmm)
//	5: E/W
//	6: fix quality
//	7: satellites used
//	8: HDOP
//	9: altitude (meters)
func (f *Fix) applyGGA(fields []string) {
	if len(fields) < 14 {
		return
	}

	f.setTimeOfDay(fields[1])

	if fields[2] != "" && fields[3] != "" {
		f.latitude = parseCoordinate(fields[2], fields[3][0])
	}
	if fields[4] != "" && fields[5] != "" {
		f.longitude = parseCoordinate(fields[4], fields[5][0])
	}

	if fields[6] != "" {
		if v, err := strconv.Atoi(fields[6]); err == nil {
			f.fixType = v
		}
	}
	if fields[7] != "" {
		if v, err := strconv.Atoi(fields[7]); err == nil {
			f.satellitesUsed = v
			f.hasSatellitesUsed = true
		}
	}
	// Stored unrounded; GSA overwrites it rounded, and Snapshot rounds
	// either way.
	if v, ok := parseFloat(fields[8]); ok {
		f.hdop = v
	}
	if v, ok := parseFloat(fields[9]); ok {
		f.altitude = round1(v)
	}

	f.hasGGA = true
	f.updateAccuracy()
	f.updateTimestamp()
}

// RMC: recommended minimum. Sole source of the validity flag and the date;
// its coordinates are a fallback used only until a GGA has been seen.
//
//	0: talker+type
//	1: time (hhmmss.sss)
//	2: status (A=active, V=void)
//	3: latitude (ddmm.mmmm)
//	4: N/S
//	5: longitude (dddmm.mmmm)
//	6: E/W
//	7: speed over ground (knots)
//	8: course over ground (deg)
//	9: date (ddmmyy)
func (f *Fix) applyRMC(fields []string) {
	if len(fields) < 12 {
		return
	}

	f.setTimeOfDay(fields[1])

	f.valid = fields[2] != "" && fields[2][0] == 'A'

	if fields[3] != "" && fields[4] != "" && (math.IsNaN(f.latitude) || !f.hasGGA) {
		f.latitude = parseCoordinate(fields[3], fields[4][0])
	}
	if fields[5] != "" && fields[6] != "" && (math.IsNaN(f.longitude) || !f.hasGGA) {
		f.longitude = parseCoordinate(fields[5], fields[6][0])
	}

	if v, ok := parseFloat(fields[7]); ok {
		f.speed = round1(v * knotsToMS)
	}
	if v, ok := parseFloat(fields[8]); ok {
		f.course = round1(v)
	}

	if d := fields[9]; len(d) >= 6 {
		day, err1 := strconv.Atoi(d[0:2])
		month, err2 := strconv.Atoi(d[2:4])
		year, err3 := strconv.Atoi(d[4:6])
		if err1 == nil && err2 == nil && err3 == nil {
			f.day = day
			f.month = month
			f.year = 2000 + year
		}
	}

	f.updateTimestamp()
}

// GSA: DOP and active satellites. Authoritative for the DOP triple,
// overriding any HDOP a GGA supplied.
//
//	15: PDOP
//	16: HDOP
//	17: VDOP
func (f *Fix) applyGSA(fields []string) {
	if len(fields) < 17 {
		return
	}

	if v, ok := parseFloat(fields[15]); ok {
		f.pdop = round1(v)
	}
	if v, ok := parseFloat(fields[16]); ok {
		f.hdop = round1(v)
	}
	if len(fields) > 17 {
		if v, ok := parseFloat(fields[17]); ok {
			f.vdop = round1(v)
		}
	}

	f.hasGSA = true
	f.updateAccuracy()
}

// GSV: satellites in view. Only the running total in field 3 matters; the
// per-message pagination and per-satellite blocks are ignored, and each
// sentence's total replaces the previous one.
func (f *Fix) applyGSV(fields []string) {
	if len(fields) < 4 {
		return
	}
	if fields[3] == "" {
		return
	}
	if v, err := strconv.Atoi(fields[3]); err == nil {
		f.satellitesVisible = v
		f.hasSatellitesVisible = true
		f.hasGSV = true
	}
}

// VTG: course and ground speed. Strictly a fallback supplement: course only
// when none is set, speed (km/h here) only when unset or below 0.1 m/s.
func (f *Fix) applyVTG(fields []string) {
	if len(fields) < 8 {
		return
	}

	if fields[1] != "" && math.IsNaN(f.course) {
		if v, ok := parseFloat(fields[1]); ok {
			f.course = round1(v)
		}
	}
	if fields[7] != "" && (math.IsNaN(f.speed) || f.speed < 0.1) {
		if v, ok := parseFloat(fields[7]); ok {
			f.speed = round1(v / 3.6)
		}
	}

	f.hasVTG = true
}

func (f *Fix) setTimeOfDay(tok string) {
	if len(tok) < 6 {
		return
	}
	hour, err1 := strconv.Atoi(tok[0:2])
	minute, err2 := strconv.Atoi(tok[2:4])
	second, err3 := strconv.Atoi(tok[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return
	}
	f.hour = hour
	f.minute = minute
	f.second = second
}

// estimateAccuracy derives a horizontal accuracy figure in meters from HDOP
// and the satellites-used count. 4.9 m is the receiver's nominal per-HDOP
// error; the multiplier tiers reflect how much redundancy the solution has.
func estimateAccuracy(hdop float64, satellitesUsed int) float64 {
	acc := hdop * 4.9
	switch {
	case satellitesUsed >= 8:
		acc *= 0.7
	case satellitesUsed >= 5:
		acc *= 0.9
	case satellitesUsed <= 3:
		acc *= 1.5
	}
	return acc
}

func (f *Fix) updateAccuracy() {
	if !math.IsNaN(f.hdop) && f.hasSatellitesUsed {
		f.accuracy = round1(estimateAccuracy(f.hdop, f.satellitesUsed))
		f.hasAccuracy = true
		return
	}
	f.accuracy = math.NaN()
	f.hasAccuracy = false
}

func (f *Fix) updateTimestamp() {
	if f.year > 0 && f.month > 0 && f.day > 0 {
		f.timestamp = fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02dZ",
			f.year, f.month, f.day, f.hour, f.minute, f.second)
		return
	}
	f.timestamp = ""
}

// DistanceTo returns the great-circle distance in meters from the fix's
// current coordinates to p. ErrNoPosition when either coordinate is unset;
// geo.ErrOutOfRange when p is not a valid coordinate pair.
func (f *Fix) DistanceTo(p geo.Point) (float64, error) {
	if math.IsNaN(f.latitude) || math.IsNaN(f.longitude) {
		return 0, ErrNoPosition
	}
	return geo.Distance(geo.Point{Lat: f.latitude, Lon: f.longitude}, p)
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
