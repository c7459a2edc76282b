// Package dataset loads the advertisement table and applies the row
// filters and column reduction that precede modeling. The table is a gota
// DataFrame; every column is loaded as a string and given numeric meaning
// only by the explicit coercion step, so nothing in the pipeline depends
// on type inference over ambient values.
package dataset

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names of the advertisement table used by the pipeline.
const (
	ColGenmodel    = "Genmodel"
	ColBodytype    = "Bodytype"
	ColGearbox     = "Gearbox"
	ColFuelType    = "Fuel_type"
	ColColor       = "Color"
	ColSeatNum     = "Seat_num"
	ColRunnedMiles = "Runned_Miles"
	ColPrice       = "Price"
)

// Filter target sets. ColorSet order is also the category order of the
// color frequency chart.
var (
	ModelSet = []string{"C3", "DS3", "Grande Punto", "Panda"}
	FuelSet  = []string{"Diesel", "Petrol"}
	ColorSet = []string{"Blue", "Grey", "Black", "Red", "White"}
)

// DropColumns is removed by Reduce when present; absence is not an error.
var DropColumns = []string{
	"Genmodel_ID", "Adv_ID", "Adv_year", "Adv_month", "Reg_year",
	"Engin_size", "Door_num", "Gearbox", "Bodytype", "Maker",
}

// NumericColumns is coerced to float by Reduce; unparseable values become
// NaN, never an error.
var NumericColumns = []string{ColPrice, ColSeatNum, ColRunnedMiles}

// Kind is the declared semantic type of a column.
type Kind int

const (
	// Categorical columns are one-hot encoded by the model pipeline.
	Categorical Kind = iota
	// Numeric columns pass through to the feature matrix unchanged.
	Numeric
)

// Schema declares the semantic type of every column the pipeline knows
// about. Columns carried by the source file but not declared here default
// to Categorical when string-typed and Numeric otherwise.
var Schema = map[string]Kind{
	ColGenmodel:    Categorical,
	ColColor:       Categorical,
	ColFuelType:    Categorical,
	ColSeatNum:     Numeric,
	ColRunnedMiles: Numeric,
	ColPrice:       Numeric,
}

// CategoricalColumns returns the categorical columns present in df, in
// the table's column order.
func CategoricalColumns(df dataframe.DataFrame) []string {
	var out []string
	for _, name := range df.Names() {
		kind, declared := Schema[name]
		if declared {
			if kind == Categorical {
				out = append(out, name)
			}
			continue
		}
		if df.Col(name).Type() == series.String {
			out = append(out, name)
		}
	}
	return out
}

// HasColumn reports whether df carries the named column.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// IsMissing reports whether a raw string cell counts as a missing value.
// The source container writes missing entries as empty strings; NA and NaN
// sentinels appear once a column has been round-tripped through a float
// series.
func IsMissing(v string) bool {
	return v == "" || v == "NA" || v == "NaN" || v == "nan" || v == "<NA>"
}
