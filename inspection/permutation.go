// Package inspection implements model-agnostic feature diagnostics,
// currently permutation importance: the drop in R² when one feature
// column is shuffled while the rest stay fixed.
package inspection

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/carprice/core/model"
	"github.com/YuminosukeSato/carprice/pkg/errors"
)

// Result holds the permutation importance distributions. Importances is
// indexed [feature][repeat]; the mean and population standard deviation
// are precomputed per feature.
type Result struct {
	Importances     [][]float64
	ImportancesMean []float64
	ImportancesStd  []float64
}

// PermutationImportance scores est on (X, y), then for every feature
// shuffles that column nRepeats times and records the score drop per
// repeat. X is modified in place during the computation and restored
// before returning. The shuffles are driven by seed, so results are
// deterministic.
func PermutationImportance(est model.Regressor, X *mat.Dense, y *mat.VecDense, nRepeats int, seed int64) (*Result, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "inspection.PermutationImportance")
	}
	if y.Len() != rows {
		return nil, errors.NewDimensionError("PermutationImportance", rows, y.Len(), 0)
	}
	if nRepeats < 1 {
		return nil, errors.NewValueError("PermutationImportance", "nRepeats must be positive")
	}

	yMat := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		yMat.Set(i, 0, y.AtVec(i))
	}

	baseline, err := est.Score(X, yMat)
	if err != nil {
		return nil, errors.Wrap(err, "PermutationImportance: baseline score")
	}

	rng := rand.New(rand.NewSource(seed))
	res := &Result{
		Importances:     make([][]float64, cols),
		ImportancesMean: make([]float64, cols),
		ImportancesStd:  make([]float64, cols),
	}

	original := make([]float64, rows)
	shuffled := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(original, j, X)
		res.Importances[j] = make([]float64, nRepeats)

		for r := 0; r < nRepeats; r++ {
			copy(shuffled, original)
			rng.Shuffle(rows, func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})
			setCol(X, j, shuffled)

			score, err := est.Score(X, yMat)
			if err != nil {
				setCol(X, j, original)
				return nil, errors.Wrapf(err, "PermutationImportance: feature %d repeat %d", j, r)
			}
			res.Importances[j][r] = baseline - score
		}
		setCol(X, j, original)

		res.ImportancesMean[j], res.ImportancesStd[j] = meanStd(res.Importances[j])
	}
	return res, nil
}

func setCol(X *mat.Dense, j int, values []float64) {
	for i, v := range values {
		X.Set(i, j, v)
	}
}

func meanStd(v []float64) (mean, std float64) {
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))
	for _, x := range v {
		d := x - mean
		std += d * d
	}
	return mean, math.Sqrt(std / float64(len(v)))
}
