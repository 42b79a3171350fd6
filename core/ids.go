// Package core defines the dense identifier types shared by every layer of
// the range filter tree.
package core

// SortedID is a point's position after the filter-ascending sort performed
// at build time. It is the coordinate space the bucket pyramid, the range
// resolver and every SubIndex operate in.
type SortedID = uint32

// OriginalID is a point's index in the caller's input arrays, as supplied to
// Build. Results are translated back to this space before being handed to
// the caller.
type OriginalID = uint32
