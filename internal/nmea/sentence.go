package nmea

import (
	"strings"
)

const (
	// maxFields bounds the tokenized field count; none of the handled
	// sentence types legitimately exceed it.
	maxFields = 20

	// maxFieldLen is the widest field the tokenizer accepts. An oversized
	// field is replaced by an empty one rather than truncated: a truncated
	// numeric field would parse into a plausible but wrong value, an empty
	// one is simply skipped.
	maxFieldLen = 15
)

// checksumOK reports whether line is a well-formed "$...*HH" sentence whose
// two-hex-digit suffix matches the XOR of the bytes between '$' and '*'.
// Any malformed shape is just an invalid sentence, not an error.
func checksumOK(line string) bool {
	if len(line) == 0 || line[0] != '$' {
		return false
	}
	star := strings.IndexByte(line, '*')
	if star == -1 || star+3 > len(line) {
		return false
	}

	want, ok := hexByte(line[star+1], line[star+2])
	if !ok {
		return false
	}

	got := byte(0)
	for i := 1; i < star; i++ {
		got ^= line[i]
	}
	return got == want
}

func hexByte(hi, lo byte) (byte, bool) {
	h, ok := hexNibble(hi)
	if !ok {
		return 0, false
	}
	l, ok := hexNibble(lo)
	if !ok {
		return 0, false
	}
	return h<<4 | l, true
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// tokenize splits a full sentence (including the "$GPxxx" prefix and the
// checksum suffix) on commas. Field 0 is the talker+type prefix. The final
// field stops at the '*' checksum marker. Fields wider than maxFieldLen
// come back empty.
func tokenize(sentence string) []string {
	parts := strings.Split(sentence, ",")
	truncated := false
	if len(parts) > maxFields {
		parts = parts[:maxFields]
		truncated = true
	}

	fields := make([]string, len(parts))
	for i, p := range parts {
		if i == len(parts)-1 && !truncated {
			if star := strings.IndexByte(p, '*'); star != -1 {
				p = p[:star]
			}
		}
		if len(p) > maxFieldLen {
			p = ""
		}
		fields[i] = p
	}
	return fields
}
