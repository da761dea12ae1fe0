// Package identity resolves student keys, sedes and subject areas from raw attendance data.
package identity

import (
	"regexp"
	"strings"

	"github.com/seamosgenios/panel/schema"
	"golang.org/x/text/unicode/norm"
)

// sedePrefixRe matches a leading "SG" or "IETAC" and any separator after it.
// Separators are whitespace (including no-break space), hyphen, en dash or em dash.
var sedePrefixRe = regexp.MustCompile(`(?i)^(SG|IETAC)[\s\p{Zs}]*[-–—]?[\s\p{Zs}]*`)

// stripSedePrefix removes sede prefixes until none remain and returns the first one found.
func stripSedePrefix(name string) (rest string, prefix string) {
	rest = strings.TrimSpace(name)
	for {
		m := sedePrefixRe.FindStringSubmatch(rest)
		if m == nil {
			return rest, prefix
		}
		if prefix == "" {
			prefix = strings.ToUpper(m[1])
		}
		rest = strings.TrimSpace(rest[len(m[0]):])
	}
}

// NormalizeKey trims, NFC-normalizes and uppercases a display name.
func NormalizeKey(name string) string {
	return strings.ToUpper(norm.NFC.String(strings.TrimSpace(name)))
}

// StudentKey returns the canonical identity of an attendee row.
func StudentKey(row schema.AttendeeRow) string {
	first, _ := stripSedePrefix(row.FirstName)
	last := strings.TrimSpace(row.LastName)
	if last != "" {
		first = first + " " + last
	}
	return NormalizeKey(first)
}

// KeyFromName canonicalizes a free-form full name typed by a user the same way StudentKey does.
func KeyFromName(name string) string {
	return StudentKey(schema.AttendeeRow{FirstName: name})
}

// SedeFromPrefix returns the sede named by the first-name prefix, or "" when there is none.
func SedeFromPrefix(row schema.AttendeeRow) schema.Sede {
	_, prefix := stripSedePrefix(row.FirstName)
	return schema.Sede(prefix)
}

// SessionSede infers a sede from the session name and program. SG is checked before IETAC.
func SessionSede(session schema.Session) schema.Sede {
	text := strings.ToUpper(session.Name + " " + session.Program)
	switch {
	case strings.Contains(text, string(schema.SedeSG)):
		return schema.SedeSG
	case strings.Contains(text, string(schema.SedeIETAC)):
		return schema.SedeIETAC
	default:
		return schema.SedeOther
	}
}

// ResolveSede applies the priority chain: name prefix, then session text, then OTRO.
func ResolveSede(row schema.AttendeeRow, session schema.Session) schema.Sede {
	if sede := SedeFromPrefix(row); sede != "" {
		return sede
	}
	return SessionSede(session)
}
