package autodiff

import "errors"

// Common errors.
var (
	ErrGraphMismatch    = errors.New("roots belong to a different graph")
	ErrReleasedNode     = errors.New("node has been released")
	ErrGradientMismatch = errors.New("analytic and numerical gradients disagree")
	ErrInvalidEpsilon   = errors.New("epsilon must be positive")
	ErrLeafCount        = errors.New("build returned a different number of leaves than inputs")
)
