package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Params are the kernel parameters that work best for one dataset, as
// listed in a dataset list file. A dataset list is a CSV file with the
// header
//
//	Dataset,type,g,m,k,C
//
// where type is one of "dna" or "protein" and C is the SVM regularization
// constant.
type Params struct {
	Dataset string
	Type    string
	G, M, K int
	C       float64
}

// IsDNA returns true when the dataset holds nucleotide sequences.
func (p Params) IsDNA() bool {
	return strings.EqualFold(p.Type, "dna")
}

// Validate checks that k, the number of informative positions, is g - m.
func (p Params) Validate() error {
	if p.K != p.G-p.M {
		return errors.Errorf("Dataset '%s' has k = %d, but g - m = %d.",
			p.Dataset, p.K, p.G-p.M)
	}
	if p.M < 0 || p.G <= 0 {
		return errors.Errorf("Dataset '%s' has invalid g = %d, m = %d.",
			p.Dataset, p.G, p.M)
	}
	return nil
}

var paramColumns = []string{"Dataset", "type", "g", "m", "k", "C"}

// ReadParams reads a dataset list. Columns may appear in any order, but
// all of them must be present. Every row is validated.
func ReadParams(r io.Reader) ([]Params, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read dataset list")
	}
	if len(records) == 0 {
		return nil, errors.New("dataset list is empty")
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range paramColumns {
		if _, ok := index[name]; !ok {
			return nil, errors.Errorf("Dataset list is missing column '%s'.",
				name)
		}
	}

	params := make([]Params, 0, len(records)-1)
	for lineno, rec := range records[1:] {
		field := func(name string) string {
			return strings.TrimSpace(rec[index[name]])
		}
		atoi := func(name string) int {
			if err != nil {
				return 0
			}
			var n int
			n, err = strconv.Atoi(field(name))
			return n
		}

		p := Params{Dataset: field("Dataset"), Type: field("type")}
		p.G, p.M, p.K = atoi("g"), atoi("m"), atoi("k")
		if err == nil {
			p.C, err = strconv.ParseFloat(field("C"), 64)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "dataset list line %d", lineno+2)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

// ReadParamsFile is ReadParams on the file at path.
func ReadParamsFile(path string) ([]Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset list")
	}
	defer f.Close()
	return ReadParams(f)
}
