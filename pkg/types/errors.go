package types

import "errors"

// Stage model errors.
var (
	ErrInvalidDuration    = errors.New("duration must be positive")
	ErrInvalidInoculation = errors.New("inoculation must be positive")
	ErrInvalidFermentSpec = errors.New("invalid ferment spec")
	ErrInvalidHold        = errors.New("invalid hold")
)

// Schedule errors.
var (
	ErrStageNotFound = errors.New("stage not found")
	ErrBakeNotFound  = errors.New("bake not found")
)

// ErrUnparseableTime is returned by callers that turn user text into
// timestamps before handing them to a Bake.
var ErrUnparseableTime = errors.New("unparseable day/time")
