package pipeline

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/carprice/dataset"
	"github.com/YuminosukeSato/carprice/modelselection"
)

// syntheticAds builds a 20-row table that satisfies every filter
// predicate: five rows per model, mixed fuels and colors, prices loosely
// tied to mileage.
func syntheticAds() [][]string {
	header := []string{
		"Maker", "Genmodel", "Genmodel_ID", "Adv_ID", "Adv_year", "Adv_month",
		"Reg_year", "Bodytype", "Runned_Miles", "Engin_size", "Gearbox",
		"Fuel_type", "Price", "Seat_num", "Door_num", "Color",
	}
	models := []string{"C3", "DS3", "Grande Punto", "Panda"}
	colors := []string{"Blue", "Grey", "Black", "Red", "White"}
	fuels := []string{"Diesel", "Petrol"}

	records := [][]string{header}
	row := 0
	for _, model := range models {
		for i := 0; i < 5; i++ {
			miles := 10000 + 7000*row
			price := 9000 - 350*row + 211*i
			records = append(records, []string{
				"Maker", model, fmt.Sprintf("%d", row), fmt.Sprintf("ad-%d", row),
				"2018", "3", "2012", "Hatchback", fmt.Sprintf("%d", miles), "1.2",
				"Manual", fuels[row%2], fmt.Sprintf("%d", price), "5", "5",
				colors[row%5],
			})
			row++
		}
	}
	return records
}

func reducedTable(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df := dataframe.LoadRecords(syntheticAds(),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	require.NoError(t, df.Err)

	df, err := dataset.ApplyFilters(df)
	require.NoError(t, err)
	df, err = dataset.Reduce(df)
	require.NoError(t, err)
	return df
}

func TestModelEndToEnd(t *testing.T) {
	df := reducedTable(t)
	outDir := t.TempDir()

	res, err := Model(df, outDir)
	require.NoError(t, err)

	for name, v := range map[string]float64{
		"train R²":                res.TrainR2,
		"train RMSE":              res.TrainRMSE,
		"test explained variance": res.TestExplainedVariance,
		"test RMSE":               res.TestRMSE,
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s is not finite: %v", name, v)
	}

	// The name list must cover the one-hot block plus the passthrough
	// numerics, with no duplicates, and match both importance vectors.
	require.NotEmpty(t, res.FeatureNames)
	assert.Len(t, res.ImpurityImportance, len(res.FeatureNames))
	assert.Len(t, res.Permutation.ImportancesMean, len(res.FeatureNames))

	// Replay the deterministic split to count the categories the encoder
	// saw: one indicator per training-set category of Genmodel, Fuel_type
	// and Color, plus the Seat_num and Runned_Miles passthrough.
	labels := df.Col(dataset.ColGenmodel).Records()
	trainIdx, _, err := modelselection.TrainTestSplit(labels, TestFraction, SplitSeed)
	require.NoError(t, err)

	expected := 2
	for _, col := range []string{dataset.ColGenmodel, dataset.ColFuelType, dataset.ColColor} {
		records := df.Col(col).Records()
		distinct := make(map[string]struct{})
		for _, i := range trainIdx {
			distinct[records[i]] = struct{}{}
		}
		expected += len(distinct)
	}
	assert.Len(t, res.FeatureNames, expected)

	seen := make(map[string]struct{})
	for _, n := range res.FeatureNames {
		_, dup := seen[n]
		assert.False(t, dup, "duplicate feature name %q", n)
		seen[n] = struct{}{}
	}
	assert.Contains(t, res.FeatureNames, "Genmodel_Panda")
	assert.Contains(t, res.FeatureNames, dataset.ColRunnedMiles)
}

func TestRunFromCSV(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "ads.csv")

	records := syntheticAds()
	// Rows the filter chain must remove.
	records = append(records,
		[]string{"Maker", "Golf", "99", "ad-99", "2018", "3", "2012", "Hatchback",
			"50000", "1.2", "Manual", "Diesel", "7000", "5", "5", "Blue"},
		[]string{"Maker", "C3", "98", "ad-98", "2018", "3", "2012", "Hatchback",
			"40000", "1.2", "Automatic", "Diesel", "7000", "5", "5", "Blue"},
	)
	f, err := os.Create(dataPath)
	require.NoError(t, err)
	for _, rec := range records {
		for i, field := range rec {
			if i > 0 {
				_, _ = f.WriteString(",")
			}
			_, _ = f.WriteString(field)
		}
		_, _ = f.WriteString("\n")
	}
	require.NoError(t, f.Close())

	outDir := filepath.Join(dir, "figures")
	res, err := Run(dataPath, outDir)
	require.NoError(t, err)
	require.NotNil(t, res)

	for _, figure := range []string{
		"color_frequency.png",
		"price_distribution.png",
		"predicted_vs_actual.png",
		"feature_importance.png",
	} {
		_, err := os.Stat(filepath.Join(outDir, figure))
		assert.NoError(t, err, "figure %s was not written", figure)
	}
}

func TestRunMissingFile(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "absent.csv"), t.TempDir())
	require.Error(t, err)
}

func TestCompleteRowsDropsMissing(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Genmodel", "Price", "Runned_Miles"},
		{"C3", "4500", "10000"},
		{"C3", "", "20000"},
		{"Panda", "5100", "oops"},
		{"Panda", "4900", "30000"},
	},
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	require.NoError(t, df.Err)
	df, err := dataset.Reduce(df)
	require.NoError(t, err)

	keep := completeRows(df)
	assert.Equal(t, []int{0, 3}, keep)
}
