package classify

import "github.com/rotisserie/eris"

// ErrInvalidVariables rejects choropleth requests that name neither one nor
// two variables.
var ErrInvalidVariables = eris.New("classify: choropleth takes exactly one or two variables")

// Mode selects the choropleth coloring: a single continuous ramp or the
// joint 3x3 bivariate palette. Construct with Univariate or Bivariate; the
// zero value is invalid.
type Mode struct {
	vars []string
}

// Univariate colors by a single variable on a continuous ramp.
func Univariate(variable string) Mode {
	return Mode{vars: []string{variable}}
}

// BivariateMode colors by the joint quantile class of two variables.
func BivariateMode(var1, var2 string) Mode {
	return Mode{vars: []string{var1, var2}}
}

// ModeFromVars builds a Mode from a flat variable list, rejecting any arity
// other than one or two.
func ModeFromVars(vars []string) (Mode, error) {
	switch len(vars) {
	case 1:
		return Univariate(vars[0]), nil
	case 2:
		return BivariateMode(vars[0], vars[1]), nil
	default:
		return Mode{}, eris.Wrapf(ErrInvalidVariables, "got %d", len(vars))
	}
}

// IsBivariate reports whether the mode carries two variables.
func (m Mode) IsBivariate() bool { return len(m.vars) == 2 }

// Vars returns the variables in order.
func (m Mode) Vars() []string { return m.vars }

// Validate checks that the mode was built through a constructor.
func (m Mode) Validate() error {
	if len(m.vars) == 1 || len(m.vars) == 2 {
		return nil
	}
	return ErrInvalidVariables
}
