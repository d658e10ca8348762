package repository

// Page represents a simple limit/offset window for listing operations.
// Offset is the ordinal of the first row in the ordered, filtered set.
type Page struct {
	Limit  int
	Offset int
}
