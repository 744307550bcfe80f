package config

// Config holds the numerical conventions shared by the valuation packages.
// Instruments, exposures and mandates read these when the caller does not
// supply an explicit value.
type Config struct {
	// DaysInYear, DaysInMonth and DaysInWeek define the additive day count
	// used for every accrual factor (30/360 style by default).
	DaysInYear  int `yaml:"days_in_year"`
	DaysInMonth int `yaml:"days_in_month"`
	DaysInWeek  int `yaml:"days_in_week"`

	// BumpSize is the zero-yield shift used by the zero delta central difference.
	BumpSize float64 `yaml:"bump_size"`

	// DeviationEpsilon stabilises (actual+eps)/(target+eps) when both are near zero.
	DeviationEpsilon float64 `yaml:"deviation_epsilon"`

	// PreviousFixing is substituted for the leading forward of a floating leg
	// whose current accrual period started before the valuation date.
	PreviousFixing float64 `yaml:"previous_fixing"`

	// MinNotional and MaxNotional bound the notionals a mandate may trade
	// through its instrument generators.
	MinNotional float64 `yaml:"min_notional"`
	MaxNotional float64 `yaml:"max_notional"`
}

// DefaultConfig provides the conventions of the reference valuation setup.
var DefaultConfig = Config{
	DaysInYear:       360,
	DaysInMonth:      30,
	DaysInWeek:       7,
	BumpSize:         1e-4,
	DeviationEpsilon: 1e-6,
	PreviousFixing:   0.02,
	MinNotional:      -1e6,
	MaxNotional:      1e6,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// Set replaces the active configuration.
func Set(c Config) {
	cfg = c
}

// Get returns the active configuration.
func Get() Config {
	return cfg
}
