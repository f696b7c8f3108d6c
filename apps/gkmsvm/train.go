package gkmsvm

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/QData/iGakco-SVM/apps/proc"
)

type TrainConfig struct {
	Exec    Exec
	Timeout time.Duration
	Verbose bool
}

var TrainDefault = TrainConfig{
	Exec: "gkmsvm_train",
}

// Model corresponds to the files written by gkmsvm_train. Use its methods
// SVAlpha and SVSeq to retrieve the file names.
type Model struct {
	prefix string
}

// NewModel refers to a model previously trained with the output prefix
// given.
func NewModel(prefix string) Model {
	return Model{prefix}
}

// SVAlpha returns the path of the support vector coefficients file.
func (m Model) SVAlpha() string {
	return m.prefix + "_svalpha.out"
}

// SVSeq returns the path of the support vector sequences file.
func (m Model) SVSeq() string {
	return m.prefix + "_svseq.fa"
}

// Clean deletes the model files. Files that are already gone are not an
// error.
func (m Model) Clean() error {
	return removeFiles(m.SVAlpha(), m.SVSeq())
}

// Run trains an SVM from a precomputed kernel matrix and the FASTA files
// the kernel was computed from. The model files are written using
// outPrefix, and Run checks that both of them exist afterwards.
func (conf TrainConfig) Run(
	ctx context.Context,
	kernelFile, posFasta, negFasta, outPrefix string,
) (Model, error) {
	c := proc.Command{
		Path:    conf.Exec.Resolve(),
		Args:    []string{kernelFile, posFasta, negFasta, outPrefix},
		Timeout: conf.Timeout,
		Verbose: conf.Verbose,
	}
	if _, err := c.Run(ctx); err != nil {
		return Model{}, err
	}

	m := NewModel(outPrefix)
	for _, f := range []string{m.SVAlpha(), m.SVSeq()} {
		if _, err := os.Stat(f); err != nil {
			return Model{}, errors.Wrapf(err,
				"'%s' did not produce model file", c)
		}
	}
	return m, nil
}
