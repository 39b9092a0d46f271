// internal/wizard/options.go
package wizard

import "fmt"

// MissingFieldPolicy decides what Advance does with unanswered fields.
type MissingFieldPolicy string

const (
	// MissingFieldsReject blocks the transition with a *MissingFieldError.
	MissingFieldsReject MissingFieldPolicy = "reject"
	// MissingFieldsDefault fills each unanswered field with its first option.
	MissingFieldsDefault MissingFieldPolicy = "default"
)

// RecomputePolicy decides how often the recommendation is computed on Step3.
type RecomputePolicy string

const (
	// RecomputeOnTransition computes once when Step3 is entered.
	RecomputeOnTransition RecomputePolicy = "transition"
	// RecomputeOnRender computes on every Recommendation call.
	RecomputeOnRender RecomputePolicy = "render"
)

type Options struct {
	MissingFields MissingFieldPolicy
	Recompute     RecomputePolicy
}

func DefaultOptions() Options {
	return Options{
		MissingFields: MissingFieldsReject,
		Recompute:     RecomputeOnTransition,
	}
}

func (o Options) withDefaults() Options {
	if o.MissingFields == "" {
		o.MissingFields = MissingFieldsReject
	}
	if o.Recompute == "" {
		o.Recompute = RecomputeOnTransition
	}
	return o
}

// ParseOptions validates policy names coming from configuration.
func ParseOptions(missing, recompute string) (Options, error) {
	o := Options{
		MissingFields: MissingFieldPolicy(missing),
		Recompute:     RecomputePolicy(recompute),
	}.withDefaults()

	switch o.MissingFields {
	case MissingFieldsReject, MissingFieldsDefault:
	default:
		return Options{}, fmt.Errorf("unknown missing field policy %q", missing)
	}
	switch o.Recompute {
	case RecomputeOnTransition, RecomputeOnRender:
	default:
		return Options{}, fmt.Errorf("unknown recompute policy %q", recompute)
	}
	return o, nil
}
