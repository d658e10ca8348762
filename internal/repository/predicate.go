package repository

// Field names a filterable attribute of the branches/banks join.
type Field string

const (
	FieldIFSC       Field = "ifsc"
	FieldCity       Field = "city"
	FieldDistrict   Field = "district"
	FieldState      Field = "state"
	FieldBankName   Field = "bank_name"
	FieldBranchName Field = "branch_name"
)

// MatchKind selects how a predicate value is compared. Both kinds are case-insensitive.
type MatchKind int

const (
	MatchExact MatchKind = iota + 1
	MatchContains
)

func (m MatchKind) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchContains:
		return "contains"
	default:
		return "unknown"
	}
}

// Predicate is a single normalized constraint. A list of predicates is a conjunction.
type Predicate struct {
	Field Field
	Match MatchKind
	Value string
}
