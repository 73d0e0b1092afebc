package series

import "errors"

// Structural errors are programming or data-integrity defects: the calling
// computation must abort, they are never downgraded to warnings.
var (
	// ErrInvalidRange is returned when a requested stop date is before the start date.
	ErrInvalidRange = errors.New("series: stop date is before start date")

	// ErrUnordered is returned when input dates are not in chronological order.
	ErrUnordered = errors.New("series: dates are not in chronological order")

	// ErrEmptyInput is returned when an operation requires at least one observation.
	ErrEmptyInput = errors.New("series: at least one observation is required")

	// ErrLengthMismatch is returned when parallel date and value slices differ in length.
	ErrLengthMismatch = errors.New("series: date and value slices must have identical length")

	// ErrTargetAfterStart is returned when extending into the past with a
	// target date that is not strictly before the series' first date.
	ErrTargetAfterStart = errors.New("series: target date is not before the series start")

	// ErrTargetBeforeStop is returned when extending into the future with a
	// target date that is not strictly after the series' last date.
	ErrTargetBeforeStop = errors.New("series: target date is not after the series end")

	// ErrNoUsableObservations is returned by Fuse when, after discarding
	// near-zero values, not a single observation remains.
	ErrNoUsableObservations = errors.New("series: no usable observations after fusion")
)
