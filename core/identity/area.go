package identity

import (
	"strings"

	"github.com/seamosgenios/panel/schema"
)

// AreaRule maps a subject area to the keywords that identify it in a session name.
type AreaRule struct {
	Area     schema.Area
	Keywords []string
}

// AreaRules is evaluated in order and the first matching rule wins.
var AreaRules = []AreaRule{
	{Area: schema.AreaCiencias, Keywords: []string{"CIENCIA"}},
	{Area: schema.AreaIngles, Keywords: []string{"INGLÉ", "ENGLISH"}},
	{Area: schema.AreaLectura, Keywords: []string{"LECTURA", "CRÍTICA", "CRITICA"}},
	{Area: schema.AreaMatematicas, Keywords: []string{"MATEMÁ", "MATE"}},
	{Area: schema.AreaSociales, Keywords: []string{"SOCIAL", "SOCIO"}},
}

// ClassifyArea returns the area for a session display name.
func ClassifyArea(name string) schema.Area {
	upper := NormalizeKey(name)
	for _, rule := range AreaRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(upper, kw) {
				return rule.Area
			}
		}
	}
	return schema.AreaGeneral
}

// SessionArea returns the area of a session.
func SessionArea(session schema.Session) schema.Area {
	return ClassifyArea(session.Name)
}

// MatchesArea reports whether a session passes the area filter.
func MatchesArea(session schema.Session, filter schema.AreaFilter) bool {
	return filter == schema.AllAreas || schema.AreaFilter(SessionArea(session)) == filter
}

// MatchesSede reports whether a resolved sede passes the sede filter.
func MatchesSede(sede schema.Sede, filter schema.SedeFilter) bool {
	return filter == schema.AllSedes || schema.SedeFilter(sede) == filter
}
