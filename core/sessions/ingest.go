package sessions

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/seamosgenios/panel/schema"
)

// ErrEmptyFile is returned for files without at least a header and one data line.
var ErrEmptyFile = errors.New("attendance file has no data rows")

var (
	fileSessionRe = regexp.MustCompile(`Asistencia de (.+?)\s*\(`)
	fileDateRe    = regexp.MustCompile(`\((\d{4}_\d{2}_\d{2})`)
	lineSplitRe   = regexp.MustCompile(`\r?\n`)
)

// isoDate is the layout of Session.Date.
const isoDate = "2006-01-02"

// ParseFileName extracts the session name and ISO date embedded in an export file name.
// It falls back to the base file name and the date of now.
func ParseFileName(fileName string, now time.Time) (name, date string) {
	base := filepath.Base(fileName)

	name = base
	if m := fileSessionRe.FindStringSubmatch(base); m != nil {
		name = m[1]
	}

	date = now.Format(isoDate)
	if m := fileDateRe.FindStringSubmatch(base); m != nil {
		date = strings.ReplaceAll(m[1], "_", "-")
	}
	return name, date
}

// splitLines returns the non-blank lines of content.
func splitLines(content string) []string {
	var lines []string
	for _, line := range lineSplitRe.Split(content, -1) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ParseFile parses an attendance export into a session without an ID.
// The first line is a header. Rows with fewer than six comma-separated fields are dropped;
// quoted fields containing commas are not supported.
func ParseFile(content, fileName string, now time.Time) (schema.Session, error) {
	lines := splitLines(content)
	if len(lines) < 2 {
		return schema.Session{}, ErrEmptyFile
	}

	name, date := ParseFileName(fileName, now)
	session := schema.Session{Name: name, Date: date}

	for _, line := range lines[1:] {
		cols := strings.Split(line, ",")
		if len(cols) < schema.RowFieldCount {
			continue
		}
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		row := schema.NewAttendeeRow(cols)
		if session.Time == "" && row.JoinText != "" {
			session.Time = row.JoinText + " - " + row.LeaveText
		}
		session.Rows = append(session.Rows, row)
	}

	return session, nil
}
