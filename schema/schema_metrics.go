package schema

// MetricsFormula describes one scoring formula.
type MetricsFormula struct {
	Name     string             `json:"name"`
	Purpose  string             `json:"purpose"`
	Factors  []string           `json:"factors"`
	Weights  map[string]float64 `json:"weights"`
	Formula  string             `json:"formula"`
	Rounding string             `json:"rounding"`
}

// MetricsSubScore describes a sub-score shared by the formulas.
type MetricsSubScore struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
}

// MetricsRenderModel is everything `panel metrics` shows.
type MetricsRenderModel struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	SubScores   []MetricsSubScore `json:"sub_scores"`
	Formulas    []MetricsFormula  `json:"formulas"`
}
