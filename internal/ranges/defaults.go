package ranges

// KnownParameters is the fixed set of water-quality buoy parameters served
// by the permissive loader, in report column order.
var KnownParameters = []string{
	"Water Temperature (°C)",
	"Conductivity (μS/cm)",
	"Turbidity (NTU)",
	"Dissolved Oxygen (mg/L)",
	"pH",
	"Chlorophyll-a (μg/L)",
	"Crude Oil (ppm)",
	"Fine Oil (ppm)",
}

// defaultRanges are the hardcoded fallbacks used when the range source is
// missing, malformed, or omits a known parameter.
var defaultRanges = map[string]Range{
	"Water Temperature (°C)":  {Min: 26.00, Max: 35.00},
	"Conductivity (μS/cm)":    {Min: 42000.00, Max: 52000.00},
	"Turbidity (NTU)":         {Min: 0.00, Max: 25.00},
	"Dissolved Oxygen (mg/L)": {Min: 4.00, Max: 10.00},
	"pH":                      {Min: 7.50, Max: 9.00},
	"Chlorophyll-a (μg/L)":    {Min: 0.00, Max: 20.00},
	"Crude Oil (ppm)":         {Min: 0.00, Max: 0.50},
	"Fine Oil (ppm)":          {Min: 0.00, Max: 0.50},
}

// NewDefault returns the hardcoded default table covering every known
// parameter.
func NewDefault() *Table {
	return New(defaultRanges)
}

// LoadWithDefaults is the permissive loader for the fixed buoy parameter
// set. Rows for unknown parameters are ignored, every known parameter the
// source omitted gets its hardcoded default, and any source error results
// in the full default table. It never surfaces an error to the caller.
func LoadWithDefaults(path string) *Table {
	loaded, err := Load(path)
	if err != nil {
		return NewDefault()
	}

	m := make(map[string]Range, len(KnownParameters))
	for _, p := range KnownParameters {
		if r, ok := loaded.Get(p); ok {
			m[p] = r
		} else {
			m[p] = defaultRanges[p]
		}
	}
	return &Table{m: m}
}
