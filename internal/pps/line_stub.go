//go:build !linux

package pps

import (
	"fmt"
	"io"
)

func openPPSLine(chipPath string, offset int, onPulse func()) (io.Closer, error) {
	return nil, fmt.Errorf("pps gpio not supported on this platform")
}
