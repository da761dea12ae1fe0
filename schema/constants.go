package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for side-state and history.
	DatabaseBackend string

	// Sede represents the institution a student belongs to.
	Sede string

	// SedeFilter is a Sede or AllSedes.
	SedeFilter string

	// Area represents an academic subject area.
	Area string

	// AreaFilter is an Area or AllAreas.
	AreaFilter string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All sedes. OTRO is the fallback when neither prefix nor session text names one.
const (
	SedeSG    Sede = "SG"
	SedeIETAC Sede = "IETAC"
	SedeOther Sede = "OTRO"
)

// AllSedes disables the sede filter.
const AllSedes SedeFilter = "todas"

// All areas. General is the fallback when no keyword matches.
const (
	AreaCiencias    Area = "Ciencias Naturales"
	AreaIngles      Area = "Inglés"
	AreaLectura     Area = "Lectura Crítica"
	AreaMatematicas Area = "Matemáticas"
	AreaSociales    Area = "Sociales"
	AreaGeneral     Area = "General"
)

// AllAreas disables the area filter.
const AllAreas AreaFilter = "todas"

// AllSedeValues lists sedes in display order.
var AllSedeValues = []Sede{SedeSG, SedeIETAC, SedeOther}

// AllAreaValues lists areas in display order.
var AllAreaValues = []Area{AreaCiencias, AreaIngles, AreaLectura, AreaMatematicas, AreaSociales, AreaGeneral}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSedeFilters lists all valid sede filter values.
var ValidSedeFilters = map[SedeFilter]struct{}{
	AllSedes:              {},
	SedeFilter(SedeSG):    {},
	SedeFilter(SedeIETAC): {},
	SedeFilter(SedeOther): {},
}

// ValidAreaFilters lists all valid area filter values.
var ValidAreaFilters = map[AreaFilter]struct{}{
	AllAreas:                    {},
	AreaFilter(AreaCiencias):    {},
	AreaFilter(AreaIngles):      {},
	AreaFilter(AreaLectura):     {},
	AreaFilter(AreaMatematicas): {},
	AreaFilter(AreaSociales):    {},
	AreaFilter(AreaGeneral):     {},
}

// Institution describes a sede for display.
type Institution struct {
	Sede     Sede   `json:"sede"`
	FullName string `json:"full_name"`
	Color    string `json:"color"`
}

// Institutions maps each sede to its display data.
var Institutions = map[Sede]Institution{
	SedeSG:    {Sede: SedeSG, FullName: "Seamos Genios", Color: "#8b5cf6"},
	SedeIETAC: {Sede: SedeIETAC, FullName: "IETAC", Color: "#06b6d4"},
	SedeOther: {Sede: SedeOther, FullName: "Otro", Color: "#f59e0b"},
}

// DefaultExcludedAccounts are administrative or test accounts skipped by aggregation.
var DefaultExcludedAccounts = []string{
	"DANIEL SOLARTE",
	"PREICFES SEAMOS GENIOS",
	"DANIEL CAMILO CUSPOCA QUITIAN",
	"PREINTENSIVO SEAMOSGENIOS",
}
