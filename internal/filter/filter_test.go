package filter

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestCompileBranches(t *testing.T) {
	cases := []struct {
		name string
		in   *BranchFilter
		want []repository.Predicate
	}{
		{"nil_filter", nil, nil},
		{"no_fields", &BranchFilter{}, nil},
		{"empty_values_ignored", &BranchFilter{City: ptr(""), State: ptr("   ")}, nil},
		{
			"ifsc_exact",
			&BranchFilter{IFSC: ptr(" abhy0065001 ")},
			[]repository.Predicate{{Field: repository.FieldIFSC, Match: repository.MatchExact, Value: "abhy0065001"}},
		},
		{
			"fixed_order_conjunction",
			&BranchFilter{BranchName: ptr("Fort"), BankName: ptr("Alpha"), City: ptr("Mumbai"), District: ptr("Thane")},
			[]repository.Predicate{
				{Field: repository.FieldCity, Match: repository.MatchContains, Value: "Mumbai"},
				{Field: repository.FieldDistrict, Match: repository.MatchContains, Value: "Thane"},
				{Field: repository.FieldBankName, Match: repository.MatchContains, Value: "Alpha"},
				{Field: repository.FieldBranchName, Match: repository.MatchContains, Value: "Fort"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CompileBranches(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompileBranches_ValidationNamesInputField(t *testing.T) {
	_, err := CompileBranches(&BranchFilter{BankName: ptr(strings.Repeat("x", 129))})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "bankName", verrs[0].Field())
}

func TestCompileBanks(t *testing.T) {
	got, err := CompileBanks(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = CompileBanks(&BankFilter{Name: ptr("state bank")})
	require.NoError(t, err)
	assert.Equal(t, []repository.Predicate{{Field: repository.FieldBankName, Match: repository.MatchContains, Value: "state bank"}}, got)

	got, err = CompileBanks(&BankFilter{Name: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, got)
}
