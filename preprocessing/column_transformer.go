package preprocessing

import (
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/carprice/core/model"
	"github.com/YuminosukeSato/carprice/pkg/errors"
)

// ColumnTransformer one-hot encodes the declared categorical columns and
// passes every other column through unchanged. The output layout is the
// encoded block first (in categorical configuration order), followed by
// the passthrough columns in their original table order, and the matching
// name list is produced by the transformation itself.
type ColumnTransformer struct {
	model.BaseEstimator

	encoder     *OneHotEncoder
	categorical []string
	passthrough []string
}

// NewColumnTransformer creates a transformer that encodes the given
// categorical columns with the given unknown-category policy.
func NewColumnTransformer(categorical []string, policy UnknownPolicy) *ColumnTransformer {
	return &ColumnTransformer{
		encoder:     NewOneHotEncoder(categorical, policy),
		categorical: append([]string(nil), categorical...),
	}
}

// Fit learns the encoder categories and records the passthrough columns.
func (t *ColumnTransformer) Fit(df dataframe.DataFrame) error {
	t.Reset()
	if err := t.encoder.Fit(df); err != nil {
		return err
	}

	isCategorical := make(map[string]struct{}, len(t.categorical))
	for _, c := range t.categorical {
		isCategorical[c] = struct{}{}
	}
	t.passthrough = t.passthrough[:0]
	for _, name := range df.Names() {
		if _, ok := isCategorical[name]; ok {
			continue
		}
		t.passthrough = append(t.passthrough, name)
	}

	t.SetFitted()
	return nil
}

// Transform builds the dense feature matrix for df.
func (t *ColumnTransformer) Transform(df dataframe.DataFrame) (*mat.Dense, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnTransformer", "Transform")
	}

	encoded, err := t.encoder.Transform(df)
	if err != nil {
		return nil, err
	}
	rows, encWidth := encoded.Dims()

	out := mat.NewDense(rows, encWidth+len(t.passthrough), nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < encWidth; j++ {
			out.Set(i, j, encoded.At(i, j))
		}
	}
	for j, name := range t.passthrough {
		if !hasColumn(df, name) {
			return nil, errors.NewSchemaError("ColumnTransformer.Transform", name)
		}
		values := df.Col(name).Float()
		if len(values) != rows {
			return nil, errors.NewDimensionError("ColumnTransformer.Transform", rows, len(values), 0)
		}
		for i := 0; i < rows; i++ {
			out.Set(i, encWidth+j, values[i])
		}
	}
	return out, nil
}

// FitTransform fits the transformer and transforms df in one call.
func (t *ColumnTransformer) FitTransform(df dataframe.DataFrame) (*mat.Dense, error) {
	if err := t.Fit(df); err != nil {
		return nil, err
	}
	return t.Transform(df)
}

// FeatureNames returns the output column names: encoded indicator names
// first, then the passthrough column names.
func (t *ColumnTransformer) FeatureNames() ([]string, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnTransformer", "FeatureNames")
	}
	names, err := t.encoder.FeatureNames()
	if err != nil {
		return nil, err
	}
	return append(names, t.passthrough...), nil
}

var _ model.TableTransformer = (*ColumnTransformer)(nil)
