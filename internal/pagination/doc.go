// Package pagination turns a Relay style connection request (first/after)
// into a bounded page over a deterministically ordered, filtered set.
//
// A cursor is an opaque token holding the zero-based ordinal of an entity in
// that set. It carries no filter state: a cursor is only meaningful when it is
// passed back with the same filter it was issued for. Using it with a different
// filter is undefined; the engine does not detect or reinterpret it.
package pagination
