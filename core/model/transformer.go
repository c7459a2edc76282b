package model

import (
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"
)

// TableTransformer turns a typed table into a dense feature matrix.
// Implementations learn their parameters (e.g. one-hot categories) in Fit
// and must report the resulting column layout through FeatureNames, in the
// exact order of the matrix columns they emit.
type TableTransformer interface {
	Fit(df dataframe.DataFrame) error
	Transform(df dataframe.DataFrame) (*mat.Dense, error)
	FitTransform(df dataframe.DataFrame) (*mat.Dense, error)

	// FeatureNames returns the output column names aligned with the
	// transformed matrix. Only valid after Fit.
	FeatureNames() ([]string, error)
}

// Regressor is the supervised estimator contract for this pipeline.
type Regressor interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)

	// Score returns the coefficient of determination R² on the given data.
	Score(X, y mat.Matrix) (float64, error)
}
