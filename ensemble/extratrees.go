// Package ensemble implements the extremely randomized trees regressor
// that predicts listing price. Trees are built independently on the full
// training set (no bootstrap), each from its own seeded random source, so
// a fixed RandomState reproduces the ensemble exactly regardless of how
// the tree-building goroutines are scheduled.
package ensemble

import (
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/carprice/core/model"
	"github.com/YuminosukeSato/carprice/metrics"
	"github.com/YuminosukeSato/carprice/pkg/errors"
	"github.com/YuminosukeSato/carprice/pkg/log"
)

// ExtraTreesRegressor is an ensemble of extremely randomized regression
// trees with a scikit-learn style Fit/Predict/Score surface.
type ExtraTreesRegressor struct {
	model.BaseEstimator

	NEstimators     int   // number of trees
	MaxDepth        int   // 0 means unlimited
	MinSamplesSplit int   // minimum rows to attempt a split
	MinSamplesLeaf  int   // minimum rows in each child
	MaxFeatures     int   // 0 means all features at every split
	RandomState     int64 // base seed; tree i uses RandomState+i
	Verbose         bool  // log per-fit progress

	trees     []*regTree
	nFeatures int
}

// NewExtraTreesRegressor creates a regressor with scikit-learn's default
// forest size. MaxFeatures 0 considers every feature at every split.
func NewExtraTreesRegressor() *ExtraTreesRegressor {
	return &ExtraTreesRegressor{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		RandomState:     0,
	}
}

// WithNEstimators sets the number of trees.
func (e *ExtraTreesRegressor) WithNEstimators(n int) *ExtraTreesRegressor {
	e.NEstimators = n
	return e
}

// WithMaxFeatures sets the per-split feature sample size (0 = all).
func (e *ExtraTreesRegressor) WithMaxFeatures(k int) *ExtraTreesRegressor {
	e.MaxFeatures = k
	return e
}

// WithRandomState sets the base random seed.
func (e *ExtraTreesRegressor) WithRandomState(seed int64) *ExtraTreesRegressor {
	e.RandomState = seed
	return e
}

// WithVerbose enables fit progress logging.
func (e *ExtraTreesRegressor) WithVerbose(v bool) *ExtraTreesRegressor {
	e.Verbose = v
	return e
}

// Fit trains the ensemble on X (n×p) and y (n×1).
func (e *ExtraTreesRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "ExtraTreesRegressor.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 {
		return errors.Wrap(errors.ErrEmptyData, "ExtraTreesRegressor.Fit")
	}
	if yRows != rows {
		return errors.NewDimensionError("ExtraTreesRegressor.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("ExtraTreesRegressor.Fit", 1, yCols, 1)
	}
	if e.NEstimators < 1 {
		return errors.NewValueError("ExtraTreesRegressor.Fit", "NEstimators must be positive")
	}

	Xd := mat.DenseCopyOf(X)
	yv := make([]float64, rows)
	for i := 0; i < rows; i++ {
		yv[i] = y.At(i, 0)
	}

	logger := log.GetLoggerWithName("ensemble.extratrees")
	if e.Verbose {
		logger.Info("fitting ensemble",
			"trees", e.NEstimators,
			"samples", rows,
			"features", cols,
			"seed", e.RandomState,
		)
	}

	params := treeParams{
		minSamplesSplit: e.MinSamplesSplit,
		minSamplesLeaf:  e.MinSamplesLeaf,
		maxFeatures:     e.MaxFeatures,
		maxDepth:        e.MaxDepth,
	}

	e.trees = make([]*regTree, e.NEstimators)
	var wg sync.WaitGroup
	for i := 0; i < e.NEstimators; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(e.RandomState + int64(i)))
			e.trees[i] = buildTree(Xd, yv, params, rng)
		}(i)
	}
	wg.Wait()

	e.nFeatures = cols
	e.SetFitted()
	if e.Verbose {
		logger.Info("ensemble fitted", "trees", len(e.trees))
	}
	return nil
}

// Predict returns the mean tree prediction for every row of X as an n×1
// matrix.
func (e *ExtraTreesRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("ExtraTreesRegressor", "Predict")
	}
	rows, cols := X.Dims()
	if cols != e.nFeatures {
		return nil, errors.NewDimensionError("ExtraTreesRegressor.Predict", e.nFeatures, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	x := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x[j] = X.At(i, j)
		}
		var sum float64
		for _, t := range e.trees {
			sum += t.predict(x)
		}
		out.Set(i, 0, sum/float64(len(e.trees)))
	}
	return out, nil
}

// Score returns the coefficient of determination R² on the given data.
func (e *ExtraTreesRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := e.Predict(X)
	if err != nil {
		return 0, err
	}
	rows, _ := y.Dims()
	yTrue := mat.NewVecDense(rows, nil)
	yPred := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yTrue.SetVec(i, y.At(i, 0))
		yPred.SetVec(i, pred.At(i, 0))
	}
	return metrics.R2Score(yTrue, yPred)
}

// FeatureImportances returns the impurity-based importances: each tree's
// variance-reduction totals normalized to sum 1, averaged over the
// ensemble.
func (e *ExtraTreesRegressor) FeatureImportances() ([]float64, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("ExtraTreesRegressor", "FeatureImportances")
	}
	out := make([]float64, e.nFeatures)
	for _, t := range e.trees {
		for j, imp := range t.importances {
			out[j] += imp
		}
	}
	for j := range out {
		out[j] /= float64(len(e.trees))
	}
	return out, nil
}

var _ model.Regressor = (*ExtraTreesRegressor)(nil)
