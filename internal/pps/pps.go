// Package pps watches the receiver's pulse-per-second output on a GPIO line.
// A fix may be stale, but a ticking PPS proves the receiver is alive and
// tracking time.
package pps

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

type Config struct {
	Enable bool

	// Chip is the GPIO character device, e.g. /dev/gpiochip0.
	Chip string
	// Line is the offset of the PPS input on that chip.
	Line int
}

// Snapshot is the UI-facing view of the pulse train. PeriodMs is absent
// until two pulses have been seen.
type Snapshot struct {
	Enabled    bool     `json:"enabled"`
	PulseCount uint64   `json:"pulse_count"`
	LastPulse  string   `json:"last_pulse_utc,omitempty"`
	PeriodMs   *float64 `json:"period_ms,omitempty"`
	LastError  string   `json:"last_error,omitempty"`
}

type Service struct {
	cfg Config

	mu         sync.Mutex
	line       io.Closer
	pulseCount uint64
	lastPulse  time.Time
	period     time.Duration
	lastErr    string
}

func New(cfg Config) *Service {
	return &Service{cfg: cfg}
}

func (s *Service) Start() error {
	if s == nil || !s.cfg.Enable {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.line != nil {
		return nil
	}

	line, err := openPPSLine(s.cfg.Chip, s.cfg.Line, func() {
		s.recordPulse(time.Now().UTC())
	})
	if err != nil {
		s.lastErr = err.Error()
		return fmt.Errorf("pps open failed chip=%s line=%d: %w", s.cfg.Chip, s.cfg.Line, err)
	}
	s.line = line

	log.Printf("pps enabled chip=%s line=%d", s.cfg.Chip, s.cfg.Line)
	return nil
}

func (s *Service) recordPulse(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lastPulse.IsZero() {
		s.period = now.Sub(s.lastPulse)
	}
	s.lastPulse = now
	s.pulseCount++
}

func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	line := s.line
	s.line = nil
	s.mu.Unlock()

	if line != nil {
		_ = line.Close()
	}
}

func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Snapshot{
		Enabled:    s.cfg.Enable,
		PulseCount: s.pulseCount,
		LastError:  s.lastErr,
	}
	if !s.lastPulse.IsZero() {
		out.LastPulse = s.lastPulse.Format(time.RFC3339Nano)
	}
	if s.period > 0 {
		v := float64(s.period) / float64(time.Millisecond)
		out.PeriodMs = &v
	}
	return out
}
