// Package modelselection provides the stratified train/test partition
// used ahead of model fitting.
package modelselection

import (
	"math"
	"math/rand"
	"sort"

	"github.com/YuminosukeSato/carprice/pkg/errors"
)

// TrainTestSplit partitions the row indices [0, len(labels)) into train
// and test sets, stratified on labels: each label's proportion is
// preserved in both sides within rounding. The shuffle inside each
// stratum is driven by the given seed, so the partition is deterministic.
//
// A stratum that cannot contribute at least one row to each side fails
// the split.
func TrainTestSplit(labels []string, testSize float64, seed int64) (trainIdx, testIdx []int, err error) {
	n := len(labels)
	if n == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "modelselection.TrainTestSplit")
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, errors.NewValueError("TrainTestSplit", "testSize must be in (0, 1)")
	}

	// Strata in first-appearance order, so the same labels always produce
	// the same partition for a given seed.
	var order []string
	strata := make(map[string][]int)
	for i, lab := range labels {
		if _, ok := strata[lab]; !ok {
			order = append(order, lab)
		}
		strata[lab] = append(strata[lab], i)
	}

	rng := rand.New(rand.NewSource(seed))
	for _, lab := range order {
		rows := append([]int(nil), strata[lab]...)
		nTest := int(math.Round(testSize * float64(len(rows))))
		if nTest < 1 || nTest >= len(rows) {
			return nil, nil, errors.NewValueError("TrainTestSplit",
				"stratum "+lab+" is too small for the requested split")
		}
		rng.Shuffle(len(rows), func(i, j int) {
			rows[i], rows[j] = rows[j], rows[i]
		})
		testIdx = append(testIdx, rows[:nTest]...)
		trainIdx = append(trainIdx, rows[nTest:]...)
	}

	sort.Ints(trainIdx)
	sort.Ints(testIdx)
	return trainIdx, testIdx, nil
}
