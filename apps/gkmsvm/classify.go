package gkmsvm

import (
	"context"
	"time"

	"github.com/QData/iGakco-SVM/apps/proc"
)

type ClassifyConfig struct {
	Exec    Exec
	G, M    int
	Dict    string
	Reverse bool
	Timeout time.Duration
	Verbose bool
}

var ClassifyDefault = ClassifyConfig{
	Exec:    "gkmsvm_classify",
	Reverse: true,
}

// Args returns the arguments to the classification program.
func (conf ClassifyConfig) Args(model Model, testFasta, predOut string) []string {
	args := kmerArgs(conf.G, conf.M, conf.M, conf.Reverse, conf.Dict)
	return append(args, testFasta, model.SVSeq(), model.SVAlpha(), predOut)
}

// Run scores every sequence in testFasta with a trained model. The scores
// are written to predOut as two whitespace delimited columns: the sequence
// name and its score. (Read them with score.ReadPredictionsFile.)
func (conf ClassifyConfig) Run(
	ctx context.Context,
	model Model,
	testFasta, predOut string,
) error {
	c := proc.Command{
		Path:    conf.Exec.Resolve(),
		Args:    conf.Args(model, testFasta, predOut),
		Timeout: conf.Timeout,
		Verbose: conf.Verbose,
	}
	_, err := c.Run(ctx)
	return err
}
