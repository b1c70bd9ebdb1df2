package gps

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"gnssfix/internal/nmea"
)

// Config controls the receiver reader.
//
// u-blox USB receivers typically appear as /dev/ttyACM* and emit NMEA
// (often GNxxx talker IDs) at 9600 baud by default.
//
// Device may be empty to auto-detect. Failures are reported through the
// status snapshot; they should not bring down the process.
type Config struct {
	Enable bool

	// Device is the serial device path. Empty means auto-detect.
	Device string
	Baud   int
}

// Status is the service-level view: link details plus the fused fix.
type Status struct {
	Enabled bool   `json:"enabled"`
	Device  string `json:"device,omitempty"`
	Baud    int    `json:"baud,omitempty"`

	Fix nmea.Snapshot `json:"fix"`

	LastError string `json:"last_error,omitempty"`
}

type Service struct {
	cfg Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	last atomic.Value // Status

	mu     sync.Mutex
	closer io.Closer
}

func New(cfg Config) *Service {
	s := &Service{cfg: cfg}
	s.last.Store(Status{Enabled: cfg.Enable, Device: cfg.Device, Baud: cfg.Baud})
	return s
}

func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("gps service is nil")
	}
	if !s.cfg.Enable {
		return nil
	}
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	device := strings.TrimSpace(s.cfg.Device)
	if device == "" {
		device = autoDetectDevice()
		if device == "" {
			s.setErrorLocked("gps auto-detect failed: no /dev/ttyACM* or /dev/ttyUSB* found")
			return fmt.Errorf("gps auto-detect failed")
		}
	}

	baud := s.cfg.Baud
	if baud == 0 {
		baud = 9600
	}

	f, err := openSerial(device, baud)
	if err != nil {
		s.setErrorLocked(fmt.Sprintf("gps open failed device=%s baud=%d: %v", device, baud, err))
		return err
	}
	// Keep the file reference for Close().
	s.closer = f

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	st := Status{Enabled: true, Device: device, Baud: baud}
	s.last.Store(st)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			_ = f.Close()
		}()

		log.Printf("gps enabled device=%s baud=%d", device, baud)
		s.run(childCtx, f, st)
	}()

	return nil
}

// run scans r until EOF, error or cancellation, folding each sentence into
// the fix. Checksum-invalid lines and non-NMEA chatter are dropped without
// touching the fix, matching the receiver protocol's silent-recovery policy.
func (s *Service) run(ctx context.Context, r io.Reader, st Status) {
	scanner := bufio.NewScanner(r)
	// NMEA sentences are typically < 82 chars, but allow some headroom.
	scanner.Buffer(make([]byte, 0, 256), 4096)

	fix := nmea.NewFix()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !scanner.Scan() {
			err := scanner.Err()
			if err == nil {
				err = io.EOF
			}
			s.setError(fmt.Sprintf("gps read stopped: %v", err))
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "$") {
			continue
		}

		snap, ok := fix.Ingest(line)
		if !ok {
			continue
		}
		st.Fix = snap
		s.last.Store(st)
	}
}

func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	closer := s.closer
	s.cancel = nil
	s.closer = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closer != nil {
		_ = closer.Close()
	}
	s.wg.Wait()
}

func (s *Service) Status() Status {
	if s == nil {
		return Status{}
	}
	v := s.last.Load()
	if v == nil {
		return Status{}
	}
	return v.(Status)
}

func (s *Service) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErrorLocked(msg)
}

func (s *Service) setErrorLocked(msg string) {
	cur := s.Status()
	cur.LastError = msg
	// Transient read issues shouldn't blank the last good fix.
	s.last.Store(cur)
}

func autoDetectDevice() string {
	candidates := []string{}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyACM%d", i))
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyUSB%d", i))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
