/*
Package score computes the two metrics recorded for every experiment:
classification accuracy and the area under the ROC curve.

Scores come in two groups. The positive group holds the scores the
classifier produced for sequences known to be positive, and the negative
group holds the scores for sequences known to be negative. A score greater
than zero is a positive prediction.

All functions in this package are pure and never modify their inputs.
*/
package score

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNoPredictions is returned by Accuracy when both groups are empty.
	ErrNoPredictions = errors.New("no predictions to score")

	// ErrDegenerate is returned by AUC when either group is empty.
	ErrDegenerate = errors.New("AUC needs at least one positive and " +
		"one negative score")
)

// Metrics is the pair of results recorded for a trained model.
type Metrics struct {
	Accuracy float64
	AUC      float64
}

// Evaluate computes both Accuracy and AUC.
func Evaluate(pos, neg []float64) (Metrics, error) {
	acc, err := Accuracy(pos, neg)
	if err != nil {
		return Metrics{}, err
	}
	auc, err := AUC(pos, neg)
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{Accuracy: acc, AUC: auc}, nil
}

// Accuracy returns the fraction of scores that are classified correctly.
// A positive score is correct when it is > 0 and a negative score is
// correct when it is <= 0.
func Accuracy(pos, neg []float64) (float64, error) {
	total := len(pos) + len(neg)
	if total == 0 {
		return 0, ErrNoPredictions
	}

	correct := 0
	for _, s := range pos {
		if s > 0 {
			correct++
		}
	}
	for _, s := range neg {
		if s <= 0 {
			correct++
		}
	}
	return float64(correct) / float64(total), nil
}

// AUC returns the area under the ROC curve of the combined scores, where
// every member of pos carries the label +1 and every member of neg carries
// the label -1. A positive and negative score that tie contribute one half.
func AUC(pos, neg []float64) (float64, error) {
	if len(pos) == 0 || len(neg) == 0 {
		return 0, ErrDegenerate
	}

	n := len(pos) + len(neg)
	y := make([]float64, 0, n)
	classes := make([]bool, 0, n)
	y = append(y, pos...)
	y = append(y, neg...)
	for range pos {
		classes = append(classes, true)
	}
	for range neg {
		classes = append(classes, false)
	}

	// stat.ROC wants the scores in ascending order.
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}
