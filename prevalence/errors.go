package prevalence

import "errors"

// ErrConfiguration indicates an empty or contradictory calculator
// configuration.
var ErrConfiguration = errors.New("prevalence: invalid configuration")
