package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder renders the n-th (1-based) bind parameter of a SQL dialect.
type Placeholder func(n int) string

// DollarPlaceholder renders Postgres style parameters ($1, $2, ...).
func DollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

// QuestionPlaceholder renders SQLite style parameters.
func QuestionPlaceholder(int) string { return "?" }

// Dialect is what BuildWhere needs to know about a SQL backend. Lower and
// Upper name SQL functions that fold a column the same way strings.ToLower
// and strings.ToUpper fold the bound value, so matching stays case-insensitive
// outside ASCII.
type Dialect struct {
	Placeholder Placeholder
	Lower       string
	Upper       string
}

var (
	PostgresDialect = Dialect{Placeholder: DollarPlaceholder, Lower: "LOWER", Upper: "UPPER"}
	// SQLite's LOWER and UPPER fold ASCII only; the sqlite backend registers
	// these Go implementations with the driver.
	SQLiteDialect = Dialect{Placeholder: QuestionPlaceholder, Lower: "go_lower", Upper: "go_upper"}
)

// Queries are written against "branches b LEFT JOIN banks ba".
var columns = map[Field]string{
	FieldIFSC:       "b.ifsc",
	FieldCity:       "b.city",
	FieldDistrict:   "b.district",
	FieldState:      "b.state",
	FieldBankName:   "ba.name",
	FieldBranchName: "b.branch",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildWhere renders preds as a WHERE clause (empty when preds is empty).
// Parameters are numbered starting after argOffset so callers can append their own.
func BuildWhere(preds []Predicate, d Dialect, argOffset int) (string, []any, error) {
	if len(preds) == 0 {
		return "", nil, nil
	}
	conds := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	for _, p := range preds {
		col, ok := columns[p.Field]
		if !ok {
			return "", nil, fmt.Errorf("unsupported filter field %q", p.Field)
		}
		n := argOffset + len(args) + 1
		switch p.Match {
		case MatchExact:
			conds = append(conds, fmt.Sprintf("%s(%s) = %s", d.Upper, col, d.Placeholder(n)))
			args = append(args, strings.ToUpper(p.Value))
		case MatchContains:
			conds = append(conds, fmt.Sprintf(`%s(%s) LIKE %s ESCAPE '\'`, d.Lower, col, d.Placeholder(n)))
			args = append(args, "%"+likeEscaper.Replace(strings.ToLower(p.Value))+"%")
		default:
			return "", nil, fmt.Errorf("unsupported match kind %s for field %q", p.Match, p.Field)
		}
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// CheckBankPredicates rejects predicates that need the branches table, for
// queries that read banks alone.
func CheckBankPredicates(preds []Predicate) error {
	for _, p := range preds {
		if p.Field != FieldBankName {
			return fmt.Errorf("unsupported bank filter field %q", p.Field)
		}
	}
	return nil
}

// BankNames returns the distinct bank names of rows in first-seen order.
func BankNames(rows []ImportRow) []string {
	seen := make(map[string]struct{}, 256)
	var names []string
	for _, r := range rows {
		if _, ok := seen[r.BankName]; ok {
			continue
		}
		seen[r.BankName] = struct{}{}
		names = append(names, r.BankName)
	}
	return names
}
