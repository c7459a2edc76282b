package dataset

import (
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/carprice/pkg/errors"
	"github.com/YuminosukeSato/carprice/pkg/log"
)

// Reduce drops the identifier and constant columns left behind by the
// filter chain and coerces Price, Seat_num and Runned_Miles to float
// columns. Columns on the drop list that the table does not carry are
// skipped silently; cell values that do not parse become NaN.
func Reduce(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	logger := log.GetLoggerWithName("dataset.reduce")

	dropped := 0
	for _, name := range DropColumns {
		if !HasColumn(df, name) {
			continue
		}
		out := df.Drop(name)
		if out.Err != nil {
			return dataframe.DataFrame{}, errors.Wrapf(out.Err, "dataset.Reduce: dropping %s", name)
		}
		df = out
		dropped++
	}

	for _, name := range NumericColumns {
		if !HasColumn(df, name) {
			continue
		}
		out := df.Mutate(coerceNumeric(df.Col(name), name))
		if out.Err != nil {
			return dataframe.DataFrame{}, errors.Wrapf(out.Err, "dataset.Reduce: coercing %s", name)
		}
		df = out
	}

	logger.Info("table reduced",
		"dropped_columns", dropped,
		"columns", df.Ncol(),
		"rows", df.Nrow(),
	)
	return df, nil
}

// coerceNumeric converts a string column to a float series. Missing and
// unparseable cells become NaN.
func coerceNumeric(s series.Series, name string) series.Series {
	records := s.Records()
	floats := make([]float64, len(records))
	for i, r := range records {
		if IsMissing(r) {
			floats[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(r, 64)
		if err != nil {
			floats[i] = math.NaN()
			continue
		}
		floats[i] = v
	}
	return series.New(floats, series.Float, name)
}
