package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"gnssfix/internal/geo"
	"gnssfix/internal/gps"
	"gnssfix/internal/pps"
)

// FixSource supplies the current receiver status. *gps.Service implements it.
// Implementations must be safe to call concurrently.
type FixSource interface {
	Status() gps.Status
}

// PulseSource supplies the PPS view. *pps.Service implements it.
type PulseSource interface {
	Snapshot() pps.Snapshot
}

// streamInterval is how often the websocket stream pushes a snapshot.
const streamInterval = 1 * time.Second

var upgrader = websocket.Upgrader{
	// The stream is read-only status data; any origin may watch it.
	CheckOrigin: func(*http.Request) bool { return true },
}

func Handler(fix FixSource, pulse PulseSource) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/fix", func(w http.ResponseWriter, r *http.Request) {
		if !requireGet(w, r) {
			return
		}
		writeJSON(w, fix.Status().Fix)
	})

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if !requireGet(w, r) {
			return
		}
		out := struct {
			GPS gps.Status   `json:"gps"`
			PPS pps.Snapshot `json:"pps"`
		}{GPS: fix.Status()}
		if pulse != nil {
			out.PPS = pulse.Snapshot()
		}
		writeJSON(w, out)
	})

	mux.HandleFunc("/api/distance", func(w http.ResponseWriter, r *http.Request) {
		if !requireGet(w, r) {
			return
		}

		lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lon, err2 := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
		if err1 != nil || err2 != nil {
			http.Error(w, "lat and lon query parameters are required", http.StatusBadRequest)
			return
		}

		snap := fix.Status().Fix
		if snap.Latitude == nil || snap.Longitude == nil {
			http.Error(w, "no position fix", http.StatusNotFound)
			return
		}

		d, err := geo.Distance(
			geo.Point{Lat: *snap.Latitude, Lon: *snap.Longitude},
			geo.Point{Lat: lat, Lon: lon},
		)
		if err != nil {
			if errors.Is(err, geo.ErrOutOfRange) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, struct {
			Meters float64 `json:"meters"`
		}{Meters: d})
	})

	mux.HandleFunc("/api/fix/stream", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the error response.
			return
		}
		defer func() { _ = conn.Close() }()

		ticker := time.NewTicker(streamInterval)
		defer ticker.Stop()

		// Immediate first frame so clients don't wait a full tick.
		if err := conn.WriteJSON(fix.Status().Fix); err != nil {
			return
		}
		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
				if err := conn.WriteJSON(fix.Status().Fix); err != nil {
					return
				}
			}
		}
	})

	return mux
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
	_, _ = w.Write([]byte("\n"))
}
