package schema

// HistogramBucket is a half-open [Min, Max) range with its count.
type HistogramBucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// PunctualityBuckets counts row delays against each session's earliest join.
type PunctualityBuckets struct {
	Early    int `json:"early"`     // <= 5 min
	OnTime   int `json:"on_time"`   // <= 15 min
	Late     int `json:"late"`      // <= 30 min
	VeryLate int `json:"very_late"` // > 30 min
}

// SedeCount is the number of students attributed to a sede.
type SedeCount struct {
	Sede  Sede `json:"sede"`
	Count int  `json:"count"`
}

// JoinSlot counts rows whose join time falls in one hour.
type JoinSlot struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary holds the dashboard KPIs for the current filters.
type Summary struct {
	Filter             FilterState        `json:"filter"`
	TotalStudents      int                `json:"total_students"`
	TotalSessions      int                `json:"total_sessions"`
	FullAttendance     int                `json:"full_attendance"`
	AtRisk             int                `json:"at_risk"`
	AvgAttendancePct   float64            `json:"avg_attendance_pct"`
	AvgEngagement      float64            `json:"avg_engagement"`
	AvgDuration        float64            `json:"avg_duration"`
	MedianDuration     float64            `json:"median_duration"`
	StdDevDuration     float64            `json:"stddev_duration"`
	TotalEntries       int                `json:"total_entries"`
	EntriesOver1h      int                `json:"entries_over_1h"`
	EntriesUnder30     int                `json:"entries_under_30"`
	Contacted          int                `json:"contacted"`
	WithNotes          int                `json:"with_notes"`
	Sedes              []SedeCount        `json:"sedes"`
	DurationHistogram  []HistogramBucket  `json:"duration_histogram"`
	EngagementBuckets  []HistogramBucket  `json:"engagement_histogram"`
	Punctuality        PunctualityBuckets `json:"punctuality"`
	JoinSlots          []JoinSlot         `json:"join_slots"`
	SelectorSedeCounts map[SedeFilter]int `json:"selector_sede_counts"`
	SelectorAreaCounts map[AreaFilter]int `json:"selector_area_counts"`
}

// SessionStats summarizes one filtered session.
type SessionStats struct {
	Index          int     `json:"index"` // 1-based position among filtered sessions
	SessionID      int     `json:"session_id"`
	Name           string  `json:"name"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Area           Area    `json:"area"`
	Sede           Sede    `json:"sede"`
	Attendees      int     `json:"attendees"` // Rows with at least one minute
	AvgDuration    float64 `json:"avg_duration"`
	MedianDuration float64 `json:"median_duration"`
	Retained       int     `json:"retained"`
	RetentionPct   int     `json:"retention_pct"`
	Deserted       int     `json:"deserted"`
	DesertionPct   int     `json:"desertion_pct"`
}

// SessionComparison contrasts the first two filtered sessions.
type SessionComparison struct {
	First          SessionStats `json:"first"`
	Second         SessionStats `json:"second"`
	AttendeesDelta int          `json:"attendees_delta"`
	DurationDelta  float64      `json:"duration_delta"`
}

// SessionAttendee is one non-excluded row of a session detail.
type SessionAttendee struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	DurationText    string `json:"duration_text"`
	DurationMinutes int    `json:"duration_minutes"`
	JoinTime        string `json:"join_time"`
	LeaveTime       string `json:"leave_time"`
	ProgressPct     int    `json:"progress_pct"`
}

// SessionDetail lists the attendees of a single session.
type SessionDetail struct {
	Stats     SessionStats      `json:"stats"`
	Attendees []SessionAttendee `json:"attendees"`
}

// SessionReport is the sessions tab: per-session stats plus the comparison when available.
type SessionReport struct {
	Sessions   []SessionStats     `json:"sessions"`
	Comparison *SessionComparison `json:"comparison,omitempty"`
}

// AlertList groups students needing follow-up.
type AlertList struct {
	Risk      []StudentMetrics `json:"risk"`
	Warn      []StudentMetrics `json:"warn"`
	Excellent []StudentMetrics `json:"excellent"`
}

// HeatLevel classifies a heatmap cell.
type HeatLevel string

// All heatmap levels.
const (
	HeatAbsent HeatLevel = "absent"
	HeatLow    HeatLevel = "low"  // < 45 min
	HeatMid    HeatLevel = "mid"  // < 90 min
	HeatHigh   HeatLevel = "high" // >= 90 min
)

// HeatCell is one student × session cell.
type HeatCell struct {
	SessionID       int       `json:"session_id"`
	DurationMinutes int       `json:"duration_minutes"`
	Level           HeatLevel `json:"level"`
}

// HeatRow is one student's row in the heatmap.
type HeatRow struct {
	Name  string     `json:"name"`
	Cells []HeatCell `json:"cells"`
}

// Heatmap is the student × session attendance matrix.
type Heatmap struct {
	Sessions []SessionStats `json:"sessions"`
	Rows     []HeatRow      `json:"rows"`
}

// StudentDetail is a student's metrics plus side-state.
type StudentDetail struct {
	Metrics     StudentMetrics `json:"metrics"`
	UnifiedRank int            `json:"unified_rank"`
	Unified     float64        `json:"unified_score"`
	Note        string         `json:"note"`
	Contacted   bool           `json:"contacted"`
}
