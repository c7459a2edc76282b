package inspection

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/carprice/ensemble"
)

func trainedModel(t *testing.T) (*ensemble.ExtraTreesRegressor, *mat.Dense, *mat.VecDense) {
	t.Helper()
	rng := rand.New(rand.NewSource(9))
	n := 150
	X := mat.NewDense(n, 3, nil)
	y := mat.NewVecDense(n, nil)
	yMat := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x0 := rng.Float64() * 10
		X.Set(i, 0, x0)
		X.Set(i, 1, rng.Float64())
		X.Set(i, 2, rng.Float64())
		target := 2*x0 + 0.1*rng.NormFloat64()
		y.SetVec(i, target)
		yMat.Set(i, 0, target)
	}

	reg := ensemble.NewExtraTreesRegressor().WithNEstimators(30).WithRandomState(75)
	require.NoError(t, reg.Fit(X, yMat))
	return reg, X, y
}

func TestPermutationImportanceRanksSignal(t *testing.T) {
	reg, X, y := trainedModel(t)

	res, err := PermutationImportance(reg, X, y, 5, 1)
	require.NoError(t, err)

	require.Len(t, res.ImportancesMean, 3)
	require.Len(t, res.Importances[0], 5)

	assert.Greater(t, res.ImportancesMean[0], res.ImportancesMean[1],
		"shuffling the signal feature should hurt the score the most")
	assert.Greater(t, res.ImportancesMean[0], res.ImportancesMean[2],
		"shuffling the signal feature should hurt the score the most")
	assert.Greater(t, res.ImportancesMean[0], 0.1)
}

func TestPermutationImportanceRestoresMatrix(t *testing.T) {
	reg, X, y := trainedModel(t)
	before := mat.DenseCopyOf(X)

	_, err := PermutationImportance(reg, X, y, 3, 1)
	require.NoError(t, err)

	assert.True(t, mat.Equal(before, X), "X must be restored after permutation")
}

func TestPermutationImportanceDeterministic(t *testing.T) {
	reg, X, y := trainedModel(t)

	res1, err := PermutationImportance(reg, X, y, 5, 1)
	require.NoError(t, err)
	res2, err := PermutationImportance(reg, X, y, 5, 1)
	require.NoError(t, err)

	assert.Equal(t, res1.ImportancesMean, res2.ImportancesMean)
	assert.Equal(t, res1.Importances, res2.Importances)
}

func TestPermutationImportanceValidation(t *testing.T) {
	reg, X, y := trainedModel(t)

	_, err := PermutationImportance(reg, X, y, 0, 1)
	assert.Error(t, err, "zero repeats must fail")

	short := mat.NewVecDense(3, []float64{1, 2, 3})
	_, err = PermutationImportance(reg, X, short, 5, 1)
	assert.Error(t, err, "mismatched target length must fail")
}
