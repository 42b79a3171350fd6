package rangefiltertree

import (
	"errors"

	"github.com/hupe1980/rangefiltertree/core"
)

// ErrEmptyIndex is returned by Build when called with zero points.
var ErrEmptyIndex = errors.New("rangefiltertree: cannot build an index over zero points")

// ShapeError indicates the caller's points/filter arrays don't agree on
// shape — a fatal, build-time condition. Re-exported from core so that
// every layer able to detect one (pointstore, layout, this façade) can
// construct it directly without an import cycle back to this package.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ShapeError = core.ShapeError

// ParameterError indicates a build or query parameter is out of its valid
// domain — e.g. a non-positive cutoff, a non-positive dimension, or k = 0.
// Build-time parameters (cutoff, dimension) fail at Build; k is a
// per-query parameter and so can also surface from Query/BatchSearch.
// Re-exported from core for the same reason as ShapeError.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ParameterError = core.ParameterError
