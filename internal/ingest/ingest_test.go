package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maxviazov/bank-branches-graphql/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `ifsc,bank_id,branch,address,city,district,state,bank_name
abhy0065001,60,RTGS-HO,"ABHYUDAYA BANK BLDG., B.NO.71, NEHRU NAGAR, KURLA (E), MUMBAI-400024",MUMBAI,GREATER MUMBAI,MAHARASHTRA,ABHYUDAYA COOPERATIVE BANK LIMITED
ABHY0065002,60,ABHYUDAYA NAGAR,"ABHYUDAYA EDUCATION SOCIETY, OPP. BLDG. NO. 18",MUMBAI,GREATER MUMBAI,MAHARASHTRA,ABHYUDAYA COOPERATIVE BANK LIMITED
ALLA0210001,11,KOLKATA,2 NETAJI SUBHAS ROAD,KOLKATA,KOLKATA,WEST BENGAL,ALLAHABAD BANK
`

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, repository.ImportRow{
		IFSC:     "ABHY0065001",
		BankName: "ABHYUDAYA COOPERATIVE BANK LIMITED",
		Branch:   "RTGS-HO",
		Address:  "ABHYUDAYA BANK BLDG., B.NO.71, NEHRU NAGAR, KURLA (E), MUMBAI-400024",
		City:     "MUMBAI",
		District: "GREATER MUMBAI",
		State:    "MAHARASHTRA",
	}, rows[0])
	assert.Equal(t, "ALLAHABAD BANK", rows[2].BankName)
	assert.Equal(t, []string{"ABHYUDAYA COOPERATIVE BANK LIMITED", "ALLAHABAD BANK"}, repository.BankNames(rows))
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadCSV(strings.NewReader("ifsc,city\nX1,Pune\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "bank_name")

	_, err = ReadCSV(strings.NewReader("bank_name,ifsc\nAlpha,X1\nBeta,\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

type recordingImporter struct {
	rows []repository.ImportRow
}

func (r *recordingImporter) Import(_ context.Context, rows []repository.ImportRow) (repository.ImportResult, error) {
	r.rows = rows
	return repository.ImportResult{Banks: len(repository.BankNames(rows)), Branches: len(rows)}, nil
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank_branches.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	im := &recordingImporter{}
	res, err := LoadFile(context.Background(), im, path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, repository.ImportResult{Banks: 2, Branches: 3}, res)
	assert.Len(t, im.rows, 3)

	_, err = LoadFile(context.Background(), im, filepath.Join(t.TempDir(), "missing.csv"), zerolog.Nop())
	assert.Error(t, err)
}
