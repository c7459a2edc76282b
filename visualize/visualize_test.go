package visualize

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/carprice/dataset"
	"github.com/YuminosukeSato/carprice/pkg/errors"
)

func plotTable(t *testing.T) dataframe.DataFrame {
	t.Helper()
	records := [][]string{
		{"Genmodel", "Color", "Fuel_type", "Seat_num", "Runned_Miles", "Price"},
		{"C3", "Blue", "Diesel", "5", "12000", "6400"},
		{"C3", "Grey", "Petrol", "5", "30000", "5100"},
		{"DS3", "Black", "Diesel", "5", "8000", "9800"},
		{"DS3", "Red", "Petrol", "4", "45000", "7200"},
		{"Grande Punto", "White", "Diesel", "5", "60000", "3900"},
		{"Panda", "Blue", "Petrol", "4", "25000", "4300"},
	}
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	require.NoError(t, df.Err)

	df, err := dataset.Reduce(df)
	require.NoError(t, err)
	return df
}

func requirePNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestDescriptivePlotsRender(t *testing.T) {
	df := plotTable(t)
	dir := t.TempDir()

	renders := map[string]func(dataframe.DataFrame, string) error{
		"color_frequency.png":  ColorFrequency,
		"mileage.png":          MileageDistribution,
		"price.png":            PriceDistribution,
		"scatter_matrix.png":   ScatterMatrix,
		"price_by_fuel.png":    PriceByFuelBox,
		"price_by_color.png":   PriceByColorBox,
		"price_vs_mileage.png": PriceMileageScatter,
	}
	for name, render := range renders {
		path := filepath.Join(dir, name)
		require.NoError(t, render(df, path), name)
		requirePNG(t, path)
	}
}

func TestColorFrequencyMissingColumn(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"Genmodel"},
		{"C3"},
	},
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	require.NoError(t, df.Err)

	err := ColorFrequency(df, filepath.Join(t.TempDir(), "out.png"))
	require.Error(t, err)

	var schemaErr *errors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "Color", schemaErr.Column)
}

func TestKDECurve(t *testing.T) {
	values := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5}

	pts := kdeCurve(values, 200)
	require.Len(t, pts, 200)

	peakX, peakY := pts[0].X, pts[0].Y
	for _, pt := range pts {
		assert.False(t, math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0))
		assert.GreaterOrEqual(t, pt.Y, 0.0)
		if pt.Y > peakY {
			peakX, peakY = pt.X, pt.Y
		}
	}
	// The mode of the sample is 3; the density peak should sit nearby.
	assert.InDelta(t, 3.0, peakX, 1.0)
}

func TestKDECurveDegenerate(t *testing.T) {
	assert.Nil(t, kdeCurve([]float64{5}, 100))
	assert.Nil(t, kdeCurve([]float64{2, 2, 2, 2}, 100))
}

func TestFinite(t *testing.T) {
	in := []float64{1, math.NaN(), 2, math.Inf(1), 3}
	assert.Equal(t, []float64{1, 2, 3}, finite(in))
}
