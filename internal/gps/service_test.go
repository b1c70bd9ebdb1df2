package gps

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func nmeaLine(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("$%s*%02X\r\n", payload, ck)
}

func TestRun_FusesSentencesIntoStatus(t *testing.T) {
	input := "garbage line\n" +
		nmeaLine("GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,") +
		"$GPRMC,bad,checksum*00\r\n" +
		nmeaLine("GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W")

	s := New(Config{Enable: true, Device: "test", Baud: 9600})
	s.run(context.Background(), strings.NewReader(input), Status{Enabled: true, Device: "test", Baud: 9600})

	st := s.Status()
	if !st.Enabled || st.Device != "test" {
		t.Fatalf("status=%+v", st)
	}
	if !st.Fix.Valid {
		t.Fatalf("expected valid fix after RMC, got %+v", st.Fix)
	}
	if st.Fix.Latitude == nil || st.Fix.Altitude == nil {
		t.Fatalf("expected fused GGA fields, got %+v", st.Fix)
	}
	// EOF is reported, not fatal.
	if st.LastError == "" {
		t.Fatalf("expected read-stopped error after EOF")
	}
}

func TestRun_InvalidLinesLeaveFixUntouched(t *testing.T) {
	input := "$GPGGA,totally,broken*FF\n" +
		"not nmea at all\n"

	s := New(Config{Enable: true})
	s.run(context.Background(), strings.NewReader(input), Status{Enabled: true})

	st := s.Status()
	if st.Fix.Valid || st.Fix.Latitude != nil {
		t.Fatalf("invalid input mutated fix: %+v", st.Fix)
	}
}

func TestStatus_NilService(t *testing.T) {
	var s *Service
	if st := s.Status(); st.Enabled {
		t.Fatalf("nil service status=%+v", st)
	}
}
