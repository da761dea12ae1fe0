package schema

// EnrichedStudent adds presentation data to a StudentMetrics.
type EnrichedStudent struct {
	Rank      int    `json:"rank"`
	Label     string `json:"label"`
	Status    string `json:"status"`
	Contacted bool   `json:"contacted"`
	Note      string `json:"note,omitempty"`
	StudentMetrics
}

// RankedStudent is a student positioned by the unified score.
type RankedStudent struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	Sede        Sede    `json:"sede"`
	Area        Area    `json:"area"`
	Attended    int     `json:"attended"`
	AvgDuration float64 `json:"avg_duration"`
	AvgDelay    float64 `json:"avg_delay"`
	Score       float64 `json:"score"`
	Label       string  `json:"label"`
}

// ClassScore is one valid attendee of a single session scored by duration and punctuality.
type ClassScore struct {
	Rank            int     `json:"rank"`
	Name            string  `json:"name"`
	Sede            Sede    `json:"sede"`
	DurationMinutes int     `json:"duration_minutes"`
	JoinTime        string  `json:"join_time"`
	Delay           int     `json:"delay"`
	Score           float64 `json:"score"`
}

// ClassRanking is the per-session ranking with its reference start.
type ClassRanking struct {
	SessionID    int          `json:"session_id"`
	SessionName  string       `json:"session_name"`
	Date         string       `json:"date"`
	StartMinutes int          `json:"start_minutes"`
	Scores       []ClassScore `json:"scores"`
}

// GlobalRanking is the cross-session ranking with its reference start.
type GlobalRanking struct {
	ReferenceStart int             `json:"reference_start"`
	TotalSessions  int             `json:"total_sessions"`
	Students       []RankedStudent `json:"students"`
}

// Engagement labels by score band.
const (
	LabelCritical  = "Crítico"
	LabelLow       = "Bajo"
	LabelMedium    = "Medio"
	LabelHigh      = "Alto"
	LabelExcellent = "Excelente"
)

// Attendance status values used by reports.
const (
	StatusExcellent = "Excelente"
	StatusAttention = "Atención"
	StatusRisk      = "Riesgo"
)

// GetPlainLabel returns a plain text label for a 0-100 score.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return LabelExcellent
	case score >= 60:
		return LabelHigh
	case score >= 40:
		return LabelMedium
	case score >= 20:
		return LabelLow
	default:
		return LabelCritical
	}
}

// GetAttendanceStatus returns the report status for an attendance rate in [0,1].
func GetAttendanceStatus(attRate float64) string {
	pct := attRate * 100
	switch {
	case pct >= 80:
		return StatusExcellent
	case pct >= 50:
		return StatusAttention
	default:
		return StatusRisk
	}
}

// EnrichStudents adds rank, label and status to an ordered list of students.
// The notes and contacted maps may be nil.
func EnrichStudents(students []StudentMetrics, notes map[string]string, contacted map[string]bool) []EnrichedStudent {
	output := make([]EnrichedStudent, len(students))
	for i, s := range students {
		output[i] = EnrichedStudent{
			Rank:           i + 1,
			Label:          GetPlainLabel(float64(s.Engagement)),
			Status:         GetAttendanceStatus(s.AttRate),
			Contacted:      contacted[s.Name],
			Note:           notes[s.Name],
			StudentMetrics: s,
		}
	}
	return output
}
