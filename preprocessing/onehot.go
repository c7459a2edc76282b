// Package preprocessing implements the feature transformation in front of
// the regressor: one-hot encoding of the categorical columns and numeric
// passthrough for the rest. The transformer emits its output column names
// together with the matrix, so importance vectors can always be mapped
// back to readable names without re-deriving encoder internals.
package preprocessing

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/carprice/core/model"
	"github.com/YuminosukeSato/carprice/pkg/errors"
)

// UnknownPolicy controls what Transform does with a category value that
// was not seen during Fit.
type UnknownPolicy int

const (
	// HandleUnknownIgnore emits an all-zero indicator block for the
	// unknown value.
	HandleUnknownIgnore UnknownPolicy = iota
	// HandleUnknownError fails the transform.
	HandleUnknownError
)

// OneHotEncoder expands each configured categorical column into one
// binary indicator column per category. Categories are stored in
// lexicographic order per column.
type OneHotEncoder struct {
	model.BaseEstimator

	Columns       []string
	HandleUnknown UnknownPolicy

	categories map[string][]string
	index      map[string]map[string]int
}

// NewOneHotEncoder creates an encoder for the given columns.
func NewOneHotEncoder(columns []string, policy UnknownPolicy) *OneHotEncoder {
	return &OneHotEncoder{
		Columns:       append([]string(nil), columns...),
		HandleUnknown: policy,
	}
}

// Fit learns the category set of every configured column.
func (e *OneHotEncoder) Fit(df dataframe.DataFrame) error {
	e.Reset()
	e.categories = make(map[string][]string, len(e.Columns))
	e.index = make(map[string]map[string]int, len(e.Columns))

	for _, col := range e.Columns {
		if !hasColumn(df, col) {
			return errors.NewSchemaError("OneHotEncoder.Fit", col)
		}
		seen := make(map[string]struct{})
		for _, v := range df.Col(col).Records() {
			seen[v] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Strings(cats)

		idx := make(map[string]int, len(cats))
		for i, c := range cats {
			idx[c] = i
		}
		e.categories[col] = cats
		e.index[col] = idx
	}

	e.SetFitted()
	return nil
}

// Transform encodes the configured columns of df into the indicator
// matrix, column blocks in configuration order.
func (e *OneHotEncoder) Transform(df dataframe.DataFrame) (*mat.Dense, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	rows := df.Nrow()
	if rows == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "OneHotEncoder.Transform")
	}
	width := e.width()
	out := mat.NewDense(rows, width, nil)

	offset := 0
	for _, col := range e.Columns {
		if !hasColumn(df, col) {
			return nil, errors.NewSchemaError("OneHotEncoder.Transform", col)
		}
		idx := e.index[col]
		for i, v := range df.Col(col).Records() {
			j, known := idx[v]
			if !known {
				if e.HandleUnknown == HandleUnknownError {
					return nil, errors.NewValueError("OneHotEncoder.Transform",
						"unknown category "+v+" in column "+col)
				}
				continue // ignore: leave the indicator block all zeros
			}
			out.Set(i, offset+j, 1)
		}
		offset += len(e.categories[col])
	}
	return out, nil
}

// FitTransform fits the encoder and transforms df in one call.
func (e *OneHotEncoder) FitTransform(df dataframe.DataFrame) (*mat.Dense, error) {
	if err := e.Fit(df); err != nil {
		return nil, err
	}
	return e.Transform(df)
}

// FeatureNames returns the "<column>_<category>" names of the indicator
// columns, aligned with Transform's output.
func (e *OneHotEncoder) FeatureNames() ([]string, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "FeatureNames")
	}
	names := make([]string, 0, e.width())
	for _, col := range e.Columns {
		for _, cat := range e.categories[col] {
			names = append(names, col+"_"+cat)
		}
	}
	return names, nil
}

// Categories returns the learned category order of a column.
func (e *OneHotEncoder) Categories(col string) []string {
	return e.categories[col]
}

func (e *OneHotEncoder) width() int {
	w := 0
	for _, col := range e.Columns {
		w += len(e.categories[col])
	}
	return w
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
