package model

// Source represents the input data source for a forecast job
type Source struct {
	Type string `json:"type"` // csv
	URL  string `json:"url"`  // file path or http(s) URL
}

// ArimaOrder is the (p, d, q) order triple of the autoregressive model
type ArimaOrder struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// Subregion maps a subregion name to its member country aliases.
// Alias order is significant: matching walks aliases in declaration order.
type Subregion struct {
	Name      string   `json:"name"`
	Countries []string `json:"countries"`
}

// SubregionMap is an ordered set of subregions. Order is significant:
// the first subregion whose alias matches a country wins.
type SubregionMap []Subregion

// Names returns the subregion names in declaration order.
func (m SubregionMap) Names() []string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Name
	}
	return names
}

// Export defines export targets for forecast output
type Export struct {
	Dir    string `json:"dir"`    // output directory for CSV/JSON files
	Format string `json:"format"` // csv (default) or json
}

// Workers defines number of workers per stage
type Workers struct {
	Forecast int `json:"forecast"`
}

// ConcurrencyConfig defines concurrency and job options
type ConcurrencyConfig struct {
	Workers    Workers `json:"workers"`
	JobTimeout string  `json:"jobTimeout"` // e.g., "5m"
}

// ForecastJobSpec defines the entire forecast pipeline configuration.
// It is an explicit value passed into the pipeline entry points; there is
// no process-wide configuration state.
type ForecastJobSpec struct {
	Source         Source            `json:"source"`
	EvalWindow     int               `json:"evalWindow"`     // held-out periods, default 5
	Order          ArimaOrder        `json:"order"`          // default (1,1,1)
	HorizonEndYear int               `json:"horizonEndYear"` // default 2030
	Subregions     SubregionMap      `json:"subregions,omitempty"`
	Concurrency    ConcurrencyConfig `json:"concurrency"`
	Export         *Export           `json:"export,omitempty"`
}

// ApplyDefaults fills unset fields with the standard configuration.
func (s *ForecastJobSpec) ApplyDefaults() {
	if s.EvalWindow <= 0 {
		s.EvalWindow = 5
	}
	if s.Order == (ArimaOrder{}) {
		s.Order = ArimaOrder{P: 1, D: 1, Q: 1}
	}
	if s.HorizonEndYear == 0 {
		s.HorizonEndYear = 2030
	}
	if len(s.Subregions) == 0 {
		s.Subregions = DefaultSubregions()
	}
	if s.Concurrency.Workers.Forecast <= 0 {
		s.Concurrency.Workers.Forecast = 2
	}
}

// DefaultSubregions returns the built-in Sub-Saharan-Africa grouping.
// Alias lists carry the spelling variants used by the World Bank data,
// diacritics included; matching does not strip them.
func DefaultSubregions() SubregionMap {
	return SubregionMap{
		{
			Name: "East Africa",
			Countries: []string{
				"Burundi", "Comoros", "Djibouti", "Eritrea", "Ethiopia", "Kenya",
				"Madagascar", "Malawi", "Mauritius", "Mozambique", "Rwanda",
				"Seychelles", "Somalia", "South Sudan", "Uganda", "Tanzania",
				"Zambia", "Zimbabwe",
			},
		},
		{
			Name: "West Africa",
			Countries: []string{
				"Benin", "Burkina Faso", "Cabo Verde", "Côte d'Ivoire",
				"Gambia, The", "Gambia", "Ghana", "Guinea", "Guinea-Bissau",
				"Liberia", "Mali", "Mauritania", "Niger", "Nigeria",
				"Saint Helena", "Senegal", "Sierra Leone", "Togo",
			},
		},
		{
			Name: "Central Africa",
			Countries: []string{
				"Angola", "Cameroon", "Central African Republic", "Chad",
				"Congo, Dem. Rep.", "Congo, Rep.", "Equatorial Guinea", "Gabon",
				"Sao Tome and Principe",
			},
		},
		{
			Name: "Southern Africa",
			Countries: []string{
				"Botswana", "Eswatini", "Lesotho", "Namibia", "South Africa",
			},
		},
	}
}

// RawRecord is a single normalized observation produced by the loader
type RawRecord struct {
	Country string  `json:"country"`
	ISO3    string  `json:"iso3,omitempty"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
}
