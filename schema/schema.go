// Package schema has models, enums and result records for all parts of the attendance panel.
package schema

import (
	"encoding/json"
	"fmt"
)

// AttendeeRow is one attendance record exported by the meeting platform.
// On the wire it is a positional tuple of six strings.
type AttendeeRow struct {
	FirstName    string // Raw first name, may carry a sede prefix like "SG - "
	LastName     string // Raw last name
	Email        string // Email as reported by the platform
	DurationText string // Duration like "1 h 23 min"
	JoinText     string // Join time like "2:30 p.m."
	LeaveText    string // Leave time like "4:10 p.m."
}

// RowFieldCount is the number of positional fields an attendee row carries.
const RowFieldCount = 6

// NewAttendeeRow builds a row from positional fields. Callers must pass at least RowFieldCount fields.
func NewAttendeeRow(fields []string) AttendeeRow {
	return AttendeeRow{
		FirstName:    fields[0],
		LastName:     fields[1],
		Email:        fields[2],
		DurationText: fields[3],
		JoinText:     fields[4],
		LeaveText:    fields[5],
	}
}

// Fields returns the row in its positional form.
func (r AttendeeRow) Fields() []string {
	return []string{r.FirstName, r.LastName, r.Email, r.DurationText, r.JoinText, r.LeaveText}
}

// MarshalJSON encodes the row as a six-element array.
func (r AttendeeRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields())
}

// UnmarshalJSON decodes a six-element array.
func (r *AttendeeRow) UnmarshalJSON(data []byte) error {
	var fields []string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) < RowFieldCount {
		return fmt.Errorf("attendee row has %d fields, want %d", len(fields), RowFieldCount)
	}
	*r = NewAttendeeRow(fields)
	return nil
}

// Session is one class meeting with its attendee rows.
// Sessions are never mutated once appended to a store.
type Session struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Date    string        `json:"date"`              // ISO-8601 date
	Time    string        `json:"time"`              // "HH:MM - HH:MM" window or empty
	Program string        `json:"program,omitempty"` // Program label used as a sede hint
	Rows    []AttendeeRow `json:"students"`
}

// AttendanceEntry is one attended session inside a student's metrics.
type AttendanceEntry struct {
	SessionID       int    `json:"session_id"`
	SessionName     string `json:"session_name"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
	DurationText    string `json:"duration_text"`
	JoinTime        string `json:"join_time"`
	LeaveTime       string `json:"leave_time"`
	JoinMinutes     int    `json:"join_minutes"` // Parsed join time, 0 when unparseable
}

// StudentMetrics is the aggregated record for one student under the active filters.
type StudentMetrics struct {
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Sede          Sede              `json:"sede"`
	Area          Area              `json:"area"`
	Attended      int               `json:"attended"`
	TotalSessions int               `json:"total_sessions"`
	Entries       []AttendanceEntry `json:"sessions"`
	TotalDuration int               `json:"total_duration"`
	AvgDuration   float64           `json:"avg_duration"`
	AttRate       float64           `json:"att_rate"`
	Engagement    int               `json:"engagement"`
}

// FilterState holds the two independent filter dimensions.
// Sede filters rows, Area filters whole sessions.
type FilterState struct {
	Sede SedeFilter `json:"sede"`
	Area AreaFilter `json:"area"`
}

// DefaultFilter is the unfiltered state.
var DefaultFilter = FilterState{Sede: AllSedes, Area: AllAreas}
