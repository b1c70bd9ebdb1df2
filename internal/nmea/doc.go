package nmea

// Package nmea fuses NMEA 0183 sentences from a GNSS receiver into a single
// continuously refined fix.
//
// It handles RMC, GGA, GSA, GSV and VTG; other sentence types are ignored.
// Each sentence type owns a subset of the fix fields and later sentences of
// one type never clear fields owned by another, so a fix fills in as the
// receiver cycles through its output.
