package nmea

import (
	"fmt"
	"math"
	"testing"
)

func TestParseCoordinate_KnownValues(t *testing.T) {
	cases := []struct {
		token string
		hemi  byte
		want  float64
	}{
		{"4807.038", 'N', 48 + 7.038/60},
		{"4807.038", 'S', -(48 + 7.038/60)},
		{"01131.000", 'E', 11 + 31.0/60},
		{"01131.000", 'W', -(11 + 31.0/60)},
		{"12345.6789", 'E', 123 + 45.6789/60},
		{"17936.123", 'W', -(179 + 36.123/60)},
	}
	for _, c := range cases {
		got := parseCoordinate(c.token, c.hemi)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("parseCoordinate(%q, %c)=%v want %v", c.token, c.hemi, got, c.want)
		}
	}
}

func TestParseCoordinate_DegreeDigitsByPointPosition(t *testing.T) {
	cases := []struct {
		token string
		want  float64
	}{
		{"12.34567", 1 + 2.34567/60},      // point at 2: 1 degree digit
		{"123.4567", 12 + 3.4567/60},      // point at 3: 2 degree digits
		{"1234.567", 12 + 34.567/60},      // point at 4: 2 degree digits
		{"12345.67", 123 + 45.67/60},      // point at 5: 3 degree digits
		{"123456.7", 1234 + 56.7/60},      // point at 6: 4 degree digits
	}
	for _, c := range cases {
		got := parseCoordinate(c.token, 'N')
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("parseCoordinate(%q)=%v want %v", c.token, got, c.want)
		}
	}
}

func TestParseCoordinate_RejectsAmbiguousShapes(t *testing.T) {
	cases := []string{
		"",
		"4807.0",     // shorter than 7 chars
		"48070380",   // no decimal point
		".1234567",   // point at 0
		"4.123456",   // point at 1
		"1234567.8",  // point at 7
		"48ab.038",   // non-numeric degrees/minutes
	}
	for _, c := range cases {
		if got := parseCoordinate(c, 'N'); !math.IsNaN(got) {
			t.Fatalf("parseCoordinate(%q)=%v want NaN", c, got)
		}
	}
}

// encodeCoordinate renders decimal degrees back into the receiver's
// [D]DDMM.MMMM format, for round-trip checks.
func encodeCoordinate(deg float64, latitude bool) (string, byte) {
	hemi := byte('N')
	if latitude && deg < 0 {
		hemi = 'S'
	}
	if !latitude {
		hemi = 'E'
		if deg < 0 {
			hemi = 'W'
		}
	}
	deg = math.Abs(deg)
	whole := math.Floor(deg)
	minutes := (deg - whole) * 60

	if latitude {
		return fmt.Sprintf("%02d%07.4f", int(whole), minutes), hemi
	}
	return fmt.Sprintf("%03d%07.4f", int(whole), minutes), hemi
}

func TestParseCoordinate_RoundTrip(t *testing.T) {
	values := []struct {
		deg      float64
		latitude bool
	}{
		{48.1173, true},
		{-33.8688, true},
		{0.5, true},
		{11.5167, false},
		{-122.4194, false},
		{179.9999, false},
	}
	for _, v := range values {
		token, hemi := encodeCoordinate(v.deg, v.latitude)
		got := parseCoordinate(token, hemi)
		if math.Abs(got-v.deg) > 1e-4 {
			t.Fatalf("round trip %v -> %q %c -> %v", v.deg, token, hemi, got)
		}
	}
}
