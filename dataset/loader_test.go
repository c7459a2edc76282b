package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, "Genmodel,Price,Seat_num\nC3,4500,5\nPanda,3900,4\n")

	df, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, []string{"Genmodel", "Price", "Seat_num"}, df.Names())

	// Columns stay strings until Reduce coerces them.
	for _, name := range df.Names() {
		assert.Equal(t, series.String, df.Col(name).Type(), "column %s", name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestLoadEmptyTable(t *testing.T) {
	path := writeCSV(t, "Genmodel,Price\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestCategoricalColumns(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Genmodel", "Price", "Trim"},
		{"C3", "4500", "Base"},
	},
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	require.NoError(t, df.Err)

	// Genmodel is declared categorical, Price declared numeric, and the
	// undeclared string column Trim falls back to categorical.
	assert.Equal(t, []string{"Genmodel", "Trim"}, CategoricalColumns(df))
}

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", "NA", "NaN", "nan", "<NA>"} {
		assert.True(t, IsMissing(v), "%q should count as missing", v)
	}
	for _, v := range []string{"0", "none", "N/A "} {
		assert.False(t, IsMissing(v), "%q should not count as missing", v)
	}
}
