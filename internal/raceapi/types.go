package raceapi

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

// Race statuses used by the backend. Older deployments report finished
// races as "completed", so both spellings are treated as final.
const (
	StatusOpen      = "open"
	StatusClosed    = "closed"
	StatusFinished  = "finished"
	StatusCompleted = "completed"
)

// Race mirrors a cycling race record from /api/cycling.
type Race struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Date           string          `json:"date"`
	Location       string          `json:"location"`
	Category       string          `json:"category"`
	DistanceKM     Kilometers      `json:"distance_km"`
	Gender         string          `json:"gender"`
	EntryFee       float64         `json:"entry_fee"`
	TotalSlots     int             `json:"total_slots"`
	AvailableSlots int             `json:"available_slots"`
	Status         string          `json:"status"`
	Image          string          `json:"image"`
	Description    string          `json:"description"`
	Coordinates    *LatLng         `json:"coordinates,omitempty"`
	Participants   []Participation `json:"cyclingParticipants,omitempty"`
}

// LatLng is a geographic coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Participation links a user to a race. Time and Banned are assigned
// server-side once the race has finished.
type Participation struct {
	ID      int64  `json:"id"`
	Cycling *Race  `json:"cycling,omitempty"`
	Dorsal  int    `json:"dorsal"`
	Time    string `json:"time,omitempty"`
	Banned  bool   `json:"banned"`
}

// User mirrors /api/user/{id}. The participations slice is only populated
// on that endpoint.
type User struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Gender         string          `json:"gender"`
	Age            int             `json:"age,omitempty"`
	Image          string          `json:"image,omitempty"`
	Token          string          `json:"token,omitempty"`
	Participations []Participation `json:"cyclingParticipants,omitempty"`
}

// Kilometers tolerates the backend's loose typing for distance_km: numbers,
// quoted numbers, or junk. Anything unparsable decodes as zero.
type Kilometers float64

// UnmarshalJSON implements json.Unmarshaler.
func (k *Kilometers) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if raw == "" || raw == "null" {
		*k = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		*k = 0
		return nil
	}
	*k = Kilometers(v)
	return nil
}

const raceDateLayout = "2006-01-02"

// ParsedDate returns the race date as time.Time when possible.
func (r Race) ParsedDate() time.Time {
	return parseDate(r.Date)
}

// IsOpen reports whether the race is accepting registrations.
func (r Race) IsOpen() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), StatusOpen)
}

// IsFinished reports whether the race has been run and may carry results.
func (r Race) IsFinished() bool {
	status := strings.ToLower(strings.TrimSpace(r.Status))
	return status == StatusFinished || status == StatusCompleted
}

func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, raceDateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
