package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWhere_Empty(t *testing.T) {
	clause, args, err := BuildWhere(nil, PostgresDialect, 0)
	require.NoError(t, err)
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestBuildWhere_Dollar(t *testing.T) {
	preds := []Predicate{
		{Field: FieldIFSC, Match: MatchExact, Value: "abhy0065001"},
		{Field: FieldBankName, Match: MatchContains, Value: "State Bank"},
	}
	clause, args, err := BuildWhere(preds, PostgresDialect, 2)
	require.NoError(t, err)
	assert.Equal(t, ` WHERE UPPER(b.ifsc) = $3 AND LOWER(ba.name) LIKE $4 ESCAPE '\'`, clause)
	assert.Equal(t, []any{"ABHY0065001", "%state bank%"}, args)
}

func TestBuildWhere_QuestionAndEscaping(t *testing.T) {
	preds := []Predicate{{Field: FieldCity, Match: MatchContains, Value: `50%_off\`}}
	clause, args, err := BuildWhere(preds, SQLiteDialect, 0)
	require.NoError(t, err)
	assert.Equal(t, ` WHERE go_lower(b.city) LIKE ? ESCAPE '\'`, clause)
	assert.Equal(t, []any{`%50\%\_off\\%`}, args)
}

func TestBuildWhere_FoldsUnicodeValues(t *testing.T) {
	preds := []Predicate{
		{Field: FieldIFSC, Match: MatchExact, Value: "éco0000001"},
		{Field: FieldBankName, Match: MatchContains, Value: "ÉCOLE"},
	}
	clause, args, err := BuildWhere(preds, SQLiteDialect, 0)
	require.NoError(t, err)
	assert.Equal(t, ` WHERE go_upper(b.ifsc) = ? AND go_lower(ba.name) LIKE ? ESCAPE '\'`, clause)
	assert.Equal(t, []any{"ÉCO0000001", "%école%"}, args)
}

func TestBuildWhere_Unsupported(t *testing.T) {
	_, _, err := BuildWhere([]Predicate{{Field: "pincode", Match: MatchExact, Value: "1"}}, PostgresDialect, 0)
	require.Error(t, err)

	_, _, err = BuildWhere([]Predicate{{Field: FieldCity, Value: "x"}}, PostgresDialect, 0)
	require.Error(t, err)
}

func TestCheckBankPredicates(t *testing.T) {
	require.NoError(t, CheckBankPredicates(nil))
	require.NoError(t, CheckBankPredicates([]Predicate{{Field: FieldBankName, Match: MatchContains, Value: "a"}}))
	require.Error(t, CheckBankPredicates([]Predicate{{Field: FieldCity, Match: MatchContains, Value: "a"}}))
}

func TestBankNames_FirstSeenOrder(t *testing.T) {
	rows := []ImportRow{{BankName: "Beta"}, {BankName: "Alpha"}, {BankName: "Beta"}, {BankName: "Gamma"}}
	assert.Equal(t, []string{"Beta", "Alpha", "Gamma"}, BankNames(rows))
}
