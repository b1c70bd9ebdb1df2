//go:build linux

package pps

import (
	"io"

	"github.com/warthog618/go-gpiocdev"
)

// openPPSLine requests the PPS input with rising-edge event reporting.
// onPulse runs on the gpiocdev event goroutine once per pulse.
func openPPSLine(chipPath string, offset int, onPulse func()) (io.Closer, error) {
	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return nil, err
	}

	line, err := chip.RequestLine(offset,
		gpiocdev.AsInput,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithConsumer("gnssfix-pps"),
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			if evt.Type == gpiocdev.LineEventRisingEdge {
				onPulse()
			}
		}))
	if err != nil {
		_ = chip.Close()
		return nil, err
	}

	return &ppsLine{chip: chip, line: line}, nil
}

type ppsLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

func (l *ppsLine) Close() error {
	err := l.line.Close()
	if cerr := l.chip.Close(); err == nil {
		err = cerr
	}
	return err
}
