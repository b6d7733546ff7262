package srs

// Params defines all configurable parameters for the review scheduling policy.
type Params struct {
	// GrowthFactor multiplies the current interval after a correct answer.
	GrowthFactor float64

	// MinIntervalDays is the floor for every computed interval and the reset
	// interval after an incorrect answer.
	MinIntervalDays int

	// MaxIntervalDays caps interval growth to avoid unbounded scheduling.
	MaxIntervalDays int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values leave the corresponding default unchanged.
type ParamsConfig struct {
	GrowthFactor    float64
	MinIntervalDays int
	MaxIntervalDays int
}

// NewDefaultParams creates a new Params instance with default values:
// intervals double on correct recall, reset to one day on incorrect recall,
// and never exceed 180 days.
func NewDefaultParams() *Params {
	return &Params{
		GrowthFactor:    2.0,
		MinIntervalDays: 1,
		MaxIntervalDays: 180,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.GrowthFactor > 1.0 {
		params.GrowthFactor = config.GrowthFactor
	}
	if config.MinIntervalDays > 0 {
		params.MinIntervalDays = config.MinIntervalDays
	}
	if config.MaxIntervalDays > 0 {
		params.MaxIntervalDays = config.MaxIntervalDays
	}

	return params
}
