package nmea

import (
	"math"
	"strconv"
	"strings"
)

// parseCoordinate decodes an NMEA degrees-plus-minutes token ("4807.038")
// and a hemisphere letter into signed decimal degrees.
//
// The number of degree digits is inferred from the decimal-point position
// rather than the sentence type, so nonstandard receivers that emit a
// single-digit or four-digit degree part still decode correctly:
//
//	DMM.MMMM     point at index 2, 1 degree digit
//	DDM.MMMM     point at index 3, 2 degree digits
//	DDMM.MMMM    point at index 4, 2 degree digits (typical latitude)
//	DDDMM.MMMM   point at index 5, 3 degree digits (typical longitude)
//	DDDDMM.MMMM  point at index 6, 4 degree digits
//
// A short token, or a point anywhere else, yields NaN rather than a best
// guess.
func parseCoordinate(token string, hemisphere byte) float64 {
	if len(token) < 7 {
		return math.NaN()
	}

	dot := strings.IndexByte(token, '.')
	if dot == -1 {
		return math.NaN()
	}

	var degreeDigits int
	switch dot {
	case 2:
		degreeDigits = 1
	case 3, 4:
		degreeDigits = 2
	case 5:
		degreeDigits = 3
	case 6:
		degreeDigits = 4
	default:
		return math.NaN()
	}

	degrees, err := strconv.ParseFloat(token[:degreeDigits], 64)
	if err != nil {
		return math.NaN()
	}
	minutes, err := strconv.ParseFloat(token[degreeDigits:], 64)
	if err != nil {
		return math.NaN()
	}

	dec := degrees + minutes/60
	if hemisphere == 'S' || hemisphere == 'W' {
		dec = -dec
	}
	return dec
}
