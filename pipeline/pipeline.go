// Package pipeline wires the stages of the price study together:
// load → filter → reduce → descriptive plots → encode/split/fit →
// metrics and importance diagnostics. Each stage runs exactly once and
// consumes the previous stage's table; nothing feeds back.
package pipeline

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/carprice/dataset"
	"github.com/YuminosukeSato/carprice/ensemble"
	"github.com/YuminosukeSato/carprice/inspection"
	"github.com/YuminosukeSato/carprice/metrics"
	"github.com/YuminosukeSato/carprice/modelselection"
	"github.com/YuminosukeSato/carprice/pkg/errors"
	"github.com/YuminosukeSato/carprice/pkg/log"
	"github.com/YuminosukeSato/carprice/preprocessing"
	"github.com/YuminosukeSato/carprice/visualize"
)

// Fixed study parameters. The seeds reproduce the reference run exactly
// and must not be re-derived.
const (
	// ModelSeed seeds the tree ensemble.
	ModelSeed int64 = 75
	// SplitSeed seeds the stratified partition and the permutation
	// importance shuffles.
	SplitSeed int64 = 1
	// TestFraction is the held-out share of the stratified split.
	TestFraction = 0.3
	// PermutationRepeats is the number of shuffles per feature.
	PermutationRepeats = 5
)

// Result carries the metrics and diagnostics of one modeling run.
type Result struct {
	TrainR2               float64
	TrainRMSE             float64
	TestExplainedVariance float64
	TestRMSE              float64

	FeatureNames       []string
	ImpurityImportance []float64
	Permutation        *inspection.Result
}

// Run executes the whole pipeline: the table is loaded from dataPath and
// the figures are written to outDir. Descriptive plot failures are
// logged and skipped; every other failure aborts the run.
func Run(dataPath, outDir string) (*Result, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "pipeline: creating output dir %s", outDir)
	}

	df, err := dataset.Load(dataPath)
	if err != nil {
		return nil, err
	}
	df, err = dataset.ApplyFilters(df)
	if err != nil {
		return nil, err
	}
	df, err = dataset.Reduce(df)
	if err != nil {
		return nil, err
	}

	Descriptive(df, outDir)
	return Model(df, outDir)
}

// Descriptive renders the seven descriptive figures. A failed plot is a
// warning, never a pipeline abort, and the table is not mutated.
func Descriptive(df dataframe.DataFrame, outDir string) {
	logger := log.GetLoggerWithName("pipeline.visualize")

	plots := []struct {
		name   string
		render func(dataframe.DataFrame, string) error
	}{
		{"color_frequency.png", visualize.ColorFrequency},
		{"mileage_distribution.png", visualize.MileageDistribution},
		{"scatter_matrix.png", visualize.ScatterMatrix},
		{"price_distribution.png", visualize.PriceDistribution},
		{"price_by_fuel.png", visualize.PriceByFuelBox},
		{"price_by_color.png", visualize.PriceByColorBox},
		{"price_vs_mileage.png", visualize.PriceMileageScatter},
	}
	for _, pl := range plots {
		path := filepath.Join(outDir, pl.name)
		if err := pl.render(df, path); err != nil {
			logger.Warn("descriptive plot failed", err, "figure", pl.name)
			continue
		}
		logger.Debug("figure written", "figure", pl.name)
	}
}

// Model runs the modeling stage on the reduced table: complete-row
// selection, stratified split, encode + fit, metrics, importances and
// the two model figures.
func Model(df dataframe.DataFrame, outDir string) (*Result, error) {
	logger := log.GetLoggerWithName("pipeline.model")

	for _, col := range []string{dataset.ColPrice, dataset.ColGenmodel} {
		if !dataset.HasColumn(df, col) {
			return nil, errors.NewSchemaError("pipeline.Model", col)
		}
	}

	keep := completeRows(df)
	if len(keep) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "pipeline.Model: no complete rows")
	}
	if dropped := df.Nrow() - len(keep); dropped > 0 {
		logger.Info("dropped rows with missing values", "dropped", dropped, "kept", len(keep))
	}
	df = df.Subset(keep)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "pipeline.Model: subset")
	}

	prices := df.Col(dataset.ColPrice).Float()
	labels := df.Col(dataset.ColGenmodel).Records()

	features := df.Drop(dataset.ColPrice)
	if features.Err != nil {
		return nil, errors.Wrap(features.Err, "pipeline.Model: dropping target")
	}

	trainIdx, testIdx, err := modelselection.TrainTestSplit(labels, TestFraction, SplitSeed)
	if err != nil {
		return nil, err
	}

	trainDF := features.Subset(trainIdx)
	testDF := features.Subset(testIdx)
	if trainDF.Err != nil || testDF.Err != nil {
		return nil, errors.New("pipeline.Model: partition subset failed")
	}
	yTrain := pick(prices, trainIdx)
	yTest := pick(prices, testIdx)

	transformer := preprocessing.NewColumnTransformer(
		dataset.CategoricalColumns(features), preprocessing.HandleUnknownIgnore)
	XTrain, err := transformer.FitTransform(trainDF)
	if err != nil {
		return nil, err
	}
	XTest, err := transformer.Transform(testDF)
	if err != nil {
		return nil, err
	}
	names, err := transformer.FeatureNames()
	if err != nil {
		return nil, err
	}

	reg := ensemble.NewExtraTreesRegressor().
		WithRandomState(ModelSeed).
		WithVerbose(true)
	if err := reg.Fit(XTrain, asColumn(yTrain)); err != nil {
		return nil, err
	}

	res := &Result{FeatureNames: names}
	if res.TrainR2, res.TrainRMSE, err = trainMetrics(reg, XTrain, yTrain); err != nil {
		return nil, err
	}

	predTest, err := reg.Predict(XTest)
	if err != nil {
		return nil, err
	}
	yTestVec := mat.NewVecDense(len(yTest), yTest)
	predTestVec := columnVec(predTest)
	if res.TestExplainedVariance, err = metrics.ExplainedVarianceScore(yTestVec, predTestVec); err != nil {
		return nil, err
	}
	if res.TestRMSE, err = metrics.RMSE(yTestVec, predTestVec); err != nil {
		return nil, err
	}

	if res.ImpurityImportance, err = reg.FeatureImportances(); err != nil {
		return nil, err
	}
	if res.Permutation, err = inspection.PermutationImportance(
		reg, XTrain, mat.NewVecDense(len(yTrain), yTrain), PermutationRepeats, SplitSeed); err != nil {
		return nil, err
	}

	report(res)

	vizLogger := log.GetLoggerWithName("pipeline.visualize")
	if err := visualize.PredictedVsActual(yTestVec, predTestVec,
		filepath.Join(outDir, "predicted_vs_actual.png")); err != nil {
		vizLogger.Warn("model plot failed", err, "figure", "predicted_vs_actual.png")
	}
	if err := visualize.ImportancePanel(names, res.ImpurityImportance, res.Permutation,
		filepath.Join(outDir, "feature_importance.png")); err != nil {
		vizLogger.Warn("model plot failed", err, "figure", "feature_importance.png")
	}

	return res, nil
}

// completeRows returns the indices of rows with no missing value in any
// column, target included. Numeric columns flag NaN, string columns flag
// the missing sentinels.
func completeRows(df dataframe.DataFrame) []int {
	numeric := make(map[string]struct{}, len(dataset.NumericColumns))
	for _, n := range dataset.NumericColumns {
		numeric[n] = struct{}{}
	}

	missing := make([]bool, df.Nrow())
	for _, name := range df.Names() {
		if _, isNum := numeric[name]; isNum {
			for i, v := range df.Col(name).Float() {
				if math.IsNaN(v) {
					missing[i] = true
				}
			}
			continue
		}
		for i, v := range df.Col(name).Records() {
			if dataset.IsMissing(v) {
				missing[i] = true
			}
		}
	}

	var keep []int
	for i, m := range missing {
		if !m {
			keep = append(keep, i)
		}
	}
	return keep
}

func trainMetrics(reg *ensemble.ExtraTreesRegressor, X *mat.Dense, y []float64) (r2, rmse float64, err error) {
	pred, err := reg.Predict(X)
	if err != nil {
		return 0, 0, err
	}
	yVec := mat.NewVecDense(len(y), y)
	predVec := columnVec(pred)
	if r2, err = metrics.R2Score(yVec, predVec); err != nil {
		return 0, 0, err
	}
	if rmse, err = metrics.RMSE(yVec, predVec); err != nil {
		return 0, 0, err
	}
	return r2, rmse, nil
}

// report prints the labeled metric lines, the generated feature names and
// the importance table sorted by impurity importance.
func report(res *Result) {
	fmt.Printf("Train R²: %.4f\n", res.TrainR2)
	fmt.Printf("Train RMSE: %.2f\n", res.TrainRMSE)
	fmt.Printf("Test explained variance: %.4f\n", res.TestExplainedVariance)
	fmt.Printf("Test RMSE: %.2f\n", res.TestRMSE)

	fmt.Println("\nFeatures:")
	for _, name := range res.FeatureNames {
		fmt.Printf("  %s\n", name)
	}

	order := make([]int, len(res.FeatureNames))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return res.ImpurityImportance[order[a]] > res.ImpurityImportance[order[b]]
	})

	fmt.Println("\nImportances (impurity / permutation mean):")
	for _, idx := range order {
		fmt.Printf("  %-28s %.4f  %.4f\n",
			res.FeatureNames[idx],
			res.ImpurityImportance[idx],
			res.Permutation.ImportancesMean[idx])
	}
}

func pick(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

func asColumn(values []float64) *mat.Dense {
	out := mat.NewDense(len(values), 1, nil)
	for i, v := range values {
		out.Set(i, 0, v)
	}
	return out
}

func columnVec(m mat.Matrix) *mat.VecDense {
	rows, _ := m.Dims()
	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		out.SetVec(i, m.At(i, 0))
	}
	return out
}
