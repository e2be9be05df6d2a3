package record

// TestingData is one batch's full lab result sheet.
type TestingData struct {
	Batch            string `json:"batch"`
	Code             string `json:"code"`
	Date             string `json:"date"`
	Pen0x            string `json:"pen0x"`
	Pen60x           string `json:"pen60x"`
	Pen10k           string `json:"pen10k"`
	Pen100k          string `json:"pen100k"`
	DropPoint        string `json:"dropPoint"`
	Weld             string `json:"weld"`
	Timken           string `json:"timken"`
	Rust             string `json:"rust"`
	CopperCorrosion  string `json:"copperCorrosion"`
	Oxidation        string `json:"oxidation"`
	OilBleed         string `json:"oilBleed"`
	SprayOff         string `json:"sprayOff"`
	Washout          string `json:"washout"`
	PressureBleed    string `json:"pressureBleed"`
	RollStabilityDry string `json:"rollStabilityDry"`
	RollStabilityWet string `json:"rollStabilityWet"`
	Wear             string `json:"wear"`
	FtIr             string `json:"ftIr"`
	MinitestMinus40  string `json:"minitestMinus40"`
	MinitestMinus30  string `json:"minitestMinus30"`
	MinitestMinus20  string `json:"minitestMinus20"`
	Minitest0        string `json:"minitest0"`
	Minitest20       string `json:"minitest20"`
	Rheometer        string `json:"rheometer"`
	RheometerTemp    string `json:"rheometerTemp"`
}

func (t TestingData) Key() string { return t.Batch }

// Column describes an optional result column.
type Column struct {
	Key   string
	Label string
	value func(TestingData) string
}

// Value returns the column's raw value for t.
func (c Column) Value(t TestingData) string {
	if c.value == nil {
		return ""
	}
	return c.value(t)
}

// OptionalColumns is the catalog of result columns hidden by default.
var OptionalColumns = []Column{
	{"pen0x", "Unworked Pen", func(t TestingData) string { return t.Pen0x }},
	{"pen10k", "10K Pen", func(t TestingData) string { return t.Pen10k }},
	{"pen100k", "100K Pen", func(t TestingData) string { return t.Pen100k }},
	{"weld", "Weld", func(t TestingData) string { return t.Weld }},
	{"wear", "Wear", func(t TestingData) string { return t.Wear }},
	{"timken", "Timken", func(t TestingData) string { return t.Timken }},
	{"rust", "Rust", func(t TestingData) string { return t.Rust }},
	{"copperCorrosion", "Cu Corr", func(t TestingData) string { return t.CopperCorrosion }},
	{"oxidation", "Oxidation", func(t TestingData) string { return t.Oxidation }},
	{"oilBleed", "Oil Bleed", func(t TestingData) string { return t.OilBleed }},
	{"sprayOff", "Spray Off", func(t TestingData) string { return t.SprayOff }},
	{"washout", "Washout", func(t TestingData) string { return t.Washout }},
	{"pressureBleed", "Pres Bleed", func(t TestingData) string { return t.PressureBleed }},
	{"rollStabilityDry", "Roll Stab (D)", func(t TestingData) string { return t.RollStabilityDry }},
	{"rollStabilityWet", "Roll Stab (W)", func(t TestingData) string { return t.RollStabilityWet }},
	{"ftIr", "FT-IR", func(t TestingData) string { return t.FtIr }},
	{"minitestMinus40", "Mini -40", func(t TestingData) string { return t.MinitestMinus40 }},
	{"minitestMinus30", "Mini -30", func(t TestingData) string { return t.MinitestMinus30 }},
	{"minitestMinus20", "Mini -20", func(t TestingData) string { return t.MinitestMinus20 }},
	{"minitest0", "Mini 0", func(t TestingData) string { return t.Minitest0 }},
	{"minitest20", "Mini 20", func(t TestingData) string { return t.Minitest20 }},
	{"rheometer", "Rheometer", func(t TestingData) string { return t.Rheometer }},
}

// ColumnsByKey picks optional columns in catalog order. "all" selects every
// column; unknown keys are returned separately.
func ColumnsByKey(keys []string) ([]Column, []string) {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "all" {
			return append([]Column(nil), OptionalColumns...), nil
		}
		want[k] = true
	}
	var cols []Column
	for _, c := range OptionalColumns {
		if want[c.Key] {
			cols = append(cols, c)
			delete(want, c.Key)
		}
	}
	var unknown []string
	for _, k := range keys {
		if want[k] {
			unknown = append(unknown, k)
			delete(want, k)
		}
	}
	return cols, unknown
}
