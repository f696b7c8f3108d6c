package score

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadPredictions reads a whitespace delimited prediction file with two
// columns: a sequence identifier and a score. The scores are returned in
// the order they appear.
//
// Every line must have exactly two fields and the score must be a finite
// number. Anything else is an error.
func ReadPredictions(r io.Reader) ([]float64, error) {
	var preds []float64
	scanner := bufio.NewScanner(r)
	for lineno := 1; scanner.Scan(); lineno++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			return nil, errors.Errorf("Expected 2 whitespace delimited "+
				"fields on line %d, but found %d.", lineno, len(fields))
		}
		score, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineno)
		}
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, errors.Errorf("Score on line %d is not a finite "+
				"number: %s.", lineno, fields[1])
		}
		preds = append(preds, score)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return preds, nil
}

// ReadPredictionsFile is ReadPredictions on the file at path.
func ReadPredictionsFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open predictions")
	}
	defer f.Close()

	preds, err := ReadPredictions(f)
	if err != nil {
		return nil, errors.Wrapf(err, "predictions '%s'", path)
	}
	return preds, nil
}

// Split divides an ordered sequence of scores into the positive and
// negative groups. positive[i] is the true label of the sequence that
// produced preds[i].
func Split(preds []float64, positive []bool) (pos, neg []float64, err error) {
	if len(preds) != len(positive) {
		return nil, nil, errors.Errorf("There are %d predictions but %d "+
			"labels.", len(preds), len(positive))
	}
	for i, p := range preds {
		if positive[i] {
			pos = append(pos, p)
		} else {
			neg = append(neg, p)
		}
	}
	return pos, neg, nil
}
