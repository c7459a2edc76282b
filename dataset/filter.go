package dataset

import (
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/carprice/pkg/errors"
	"github.com/YuminosukeSato/carprice/pkg/log"
)

// filterStep is one stage of the filter chain. Steps are conjunctive, so
// their order only matters for readability of the per-step row counts.
type filterStep struct {
	name  string
	apply func(dataframe.DataFrame) (dataframe.DataFrame, error)
}

// chain is the fixed filter order: four membership filters, the color
// restriction, then seat-count imputation over the surviving rows.
var chain = []filterStep{
	membership("model set", ColGenmodel, ModelSet),
	equality("hatchback only", ColBodytype, "Hatchback"),
	equality("manual gearbox", ColGearbox, "Manual"),
	membership("fuel set", ColFuelType, FuelSet),
	membership("color set", ColColor, ColorSet),
	{name: "seat-count imputation", apply: imputeSeatMode},
}

// ApplyFilters runs the filter chain over df and returns the narrowed
// table. A filter column absent from the table is a fatal SchemaError.
// The chain is idempotent: applying it to its own output is an identity.
func ApplyFilters(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	logger := log.GetLoggerWithName("dataset.filter")
	for _, step := range chain {
		out, err := step.apply(df)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		logger.Debug("filter applied",
			"step", step.name,
			"rows_in", df.Nrow(),
			"rows_out", out.Nrow(),
		)
		df = out
	}
	logger.Info("filter chain complete", "rows", df.Nrow())
	return df, nil
}

func membership(name, column string, allowed []string) filterStep {
	return filterStep{
		name: name,
		apply: func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
			if !HasColumn(df, column) {
				return dataframe.DataFrame{}, errors.NewSchemaError("filter "+name, column)
			}
			out := df.Filter(dataframe.F{
				Colname:    column,
				Comparator: series.In,
				Comparando: allowed,
			})
			if out.Err != nil {
				return dataframe.DataFrame{}, errors.Wrapf(out.Err, "filter %s", name)
			}
			return out, nil
		},
	}
}

func equality(name, column, value string) filterStep {
	return filterStep{
		name: name,
		apply: func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
			if !HasColumn(df, column) {
				return dataframe.DataFrame{}, errors.NewSchemaError("filter "+name, column)
			}
			out := df.Filter(dataframe.F{
				Colname:    column,
				Comparator: series.Eq,
				Comparando: value,
			})
			if out.Err != nil {
				return dataframe.DataFrame{}, errors.Wrapf(out.Err, "filter %s", name)
			}
			return out, nil
		},
	}
}

// imputeSeatMode fills missing seat counts with the column mode, computed
// over the rows that survived the membership filters. Ties resolve to the
// smallest value.
func imputeSeatMode(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !HasColumn(df, ColSeatNum) {
		return dataframe.DataFrame{}, errors.NewSchemaError("seat-count imputation", ColSeatNum)
	}

	records := df.Col(ColSeatNum).Records()
	counts := make(map[float64]int)
	missing := 0
	for _, r := range records {
		if IsMissing(r) {
			missing++
			continue
		}
		v, err := strconv.ParseFloat(r, 64)
		if err != nil {
			// Unparseable seat counts count as missing for the mode.
			missing++
			continue
		}
		counts[v]++
	}
	if missing == 0 {
		return df, nil
	}
	if len(counts) == 0 {
		return dataframe.DataFrame{}, errors.NewDegenerateStatisticError(
			"mode", ColSeatNum, "column has no non-missing values")
	}

	values := make([]float64, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Float64s(values)
	mode := values[0]
	for _, v := range values[1:] {
		if counts[v] > counts[mode] {
			mode = v
		}
	}
	modeStr := strconv.FormatFloat(mode, 'f', -1, 64)

	imputed := make([]string, len(records))
	for i, r := range records {
		if IsMissing(r) {
			imputed[i] = modeStr
			continue
		}
		if _, err := strconv.ParseFloat(r, 64); err != nil {
			imputed[i] = modeStr
			continue
		}
		imputed[i] = r
	}

	out := df.Mutate(series.New(imputed, series.String, ColSeatNum))
	if out.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(out.Err, "seat-count imputation")
	}
	return out, nil
}
