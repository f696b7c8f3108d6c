/*
Package dataset knows where the sequence files of a benchmark dataset live
and how to read them.

Two layouts are in use. The baseline gkm-SVM tools want positive and
negative sequences in separate files:

	<dir>/<prefix>.train.pos.fasta
	<dir>/<prefix>.train.neg.fasta
	<dir>/<prefix>.test.pos.fasta
	<dir>/<prefix>.test.neg.fasta

The FastSK tool reads one file per split and takes the label of each
sequence from its FASTA header:

	<dir>/<prefix>.train.fasta
	<dir>/<prefix>.test.fasta
*/
package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/TuftsBCB/io/fasta"
	"github.com/TuftsBCB/seq"
	"github.com/pkg/errors"
)

// GkmFiles are the four input files of the gkm-SVM layout.
type GkmFiles struct {
	TrainPos, TrainNeg string
	TestPos, TestNeg   string
}

// NewGkmFiles returns the gkm-SVM layout for prefix in dir.
func NewGkmFiles(dir, prefix string) GkmFiles {
	return GkmFiles{
		TrainPos: filepath.Join(dir, prefix+".train.pos.fasta"),
		TrainNeg: filepath.Join(dir, prefix+".train.neg.fasta"),
		TestPos:  filepath.Join(dir, prefix+".test.pos.fasta"),
		TestNeg:  filepath.Join(dir, prefix+".test.neg.fasta"),
	}
}

// LabeledFiles are the two input files of the FastSK layout.
type LabeledFiles struct {
	Train, Test string
}

// NewLabeledFiles returns the FastSK layout for prefix in dir.
func NewLabeledFiles(dir, prefix string) LabeledFiles {
	return LabeledFiles{
		Train: filepath.Join(dir, prefix+".train.fasta"),
		Test:  filepath.Join(dir, prefix+".test.fasta"),
	}
}

// ReadFasta reads every sequence in the FASTA file at path.
func ReadFasta(path string) ([]seq.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open FASTA")
	}
	defer f.Close()

	r := fasta.NewReader(f)
	r.TrustSequences = true
	seqs, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read FASTA '%s'", path)
	}
	return seqs, nil
}

// Labeled is a sequence from a labeled FASTA file.
type Labeled struct {
	seq.Sequence
	Positive bool
}

// ReadLabeled reads a FASTA file whose headers begin with a class label.
// A label of "1" (or "+1") marks a positive sequence. Labels "0" and "-1"
// mark negative sequences. Any other label is an error.
func ReadLabeled(path string) ([]Labeled, error) {
	seqs, err := ReadFasta(path)
	if err != nil {
		return nil, err
	}

	labeled := make([]Labeled, len(seqs))
	for i, s := range seqs {
		positive, err := parseLabel(s.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "sequence %d in '%s'", i+1, path)
		}
		labeled[i] = Labeled{Sequence: s, Positive: positive}
	}
	return labeled, nil
}

// Labels returns the label of every sequence in a labeled FASTA file, in
// file order. Classifier prediction files list their scores in that same
// order.
func Labels(path string) ([]bool, error) {
	labeled, err := ReadLabeled(path)
	if err != nil {
		return nil, err
	}
	labels := make([]bool, len(labeled))
	for i, l := range labeled {
		labels[i] = l.Positive
	}
	return labels, nil
}

// ShortestSequence returns the length of the shortest sequence found in
// any of the files given.
func ShortestSequence(paths ...string) (int, error) {
	shortest := -1
	for _, path := range paths {
		seqs, err := ReadFasta(path)
		if err != nil {
			return 0, err
		}
		for _, s := range seqs {
			if shortest == -1 || len(s.Residues) < shortest {
				shortest = len(s.Residues)
			}
		}
	}
	if shortest == -1 {
		return 0, errors.Errorf("No sequences found in %s.",
			strings.Join(paths, ", "))
	}
	return shortest, nil
}

func parseLabel(header string) (bool, error) {
	switch identifier(header) {
	case "1", "+1":
		return true, nil
	case "0", "-1":
		return false, nil
	}
	return false, errors.Errorf("Expected a 0/1 label at the start of the "+
		"header, but found '%s'.", header)
}

func identifier(header string) string {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
