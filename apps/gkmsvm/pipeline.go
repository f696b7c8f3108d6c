package gkmsvm

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/QData/iGakco-SVM/apps/proc"
	"github.com/QData/iGakco-SVM/dataset"
	"github.com/QData/iGakco-SVM/score"
	"github.com/QData/iGakco-SVM/sweep"
)

// Paths are the intermediate and output files of one pipeline run.
type Paths struct {
	Kernel    string
	SVMPrefix string
	PosPreds  string
	NegPreds  string
}

// NewPaths lays out the files of a pipeline run for dataset prefix inside
// outDir.
func NewPaths(outDir, prefix string) Paths {
	return Paths{
		Kernel:    filepath.Join(outDir, prefix+"_kernel.out"),
		SVMPrefix: filepath.Join(outDir, "svmtrain"),
		PosPreds:  filepath.Join(outDir, prefix+".preds.pos.out"),
		NegPreds:  filepath.Join(outDir, prefix+".preds.neg.out"),
	}
}

// Model is the model trained by a pipeline run using these paths.
func (p Paths) Model() Model {
	return NewModel(p.SVMPrefix)
}

// Clean deletes every file a pipeline run writes.
func (p Paths) Clean() error {
	if err := p.Model().Clean(); err != nil {
		return err
	}
	return removeFiles(p.Kernel, p.PosPreds, p.NegPreds)
}

func removeFiles(paths ...string) error {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "clean up")
		}
	}
	return nil
}

// Pipeline chains the three gkm-SVM programs to train a model on a
// dataset and evaluate it on the held out test sequences.
type Pipeline struct {
	Kernel   KernelConfig
	Train    TrainConfig
	Classify ClassifyConfig
}

// NewPipeline returns the default pipeline for gapped word length g with m
// mismatches. dict may be empty.
func NewPipeline(g, m int, dict string) Pipeline {
	p := Pipeline{
		Kernel:   KernelDefault,
		Train:    TrainDefault,
		Classify: ClassifyDefault,
	}
	p.Kernel.G, p.Kernel.M, p.Kernel.Dict = g, m, dict
	p.Classify.G, p.Classify.M, p.Classify.Dict = g, m, dict
	return p
}

// Result is the outcome of a pipeline run.
type Result struct {
	score.Metrics
	KernelTime time.Duration
}

// Run computes the training kernel, trains a model, classifies the
// positive and negative test sequences and scores the predictions. The
// first program to fail stops the run.
func (p Pipeline) Run(
	ctx context.Context,
	files dataset.GkmFiles,
	paths Paths,
) (Result, error) {
	log.Info().Msg("Computing kernel...")
	ktime, err := p.Kernel.Run(ctx, files.TrainPos, files.TrainNeg, paths.Kernel)
	if err != nil {
		return Result{}, err
	}

	log.Info().Msg("Training model...")
	model, err := p.Train.Run(ctx,
		paths.Kernel, files.TrainPos, files.TrainNeg, paths.SVMPrefix)
	if err != nil {
		return Result{}, err
	}

	log.Info().Msg("Getting predictions...")
	if err := p.Classify.Run(ctx, model, files.TestPos, paths.PosPreds); err != nil {
		return Result{}, err
	}
	if err := p.Classify.Run(ctx, model, files.TestNeg, paths.NegPreds); err != nil {
		return Result{}, err
	}

	pos, err := score.ReadPredictionsFile(paths.PosPreds)
	if err != nil {
		return Result{}, err
	}
	neg, err := score.ReadPredictionsFile(paths.NegPreds)
	if err != nil {
		return Result{}, err
	}
	metrics, err := score.Evaluate(pos, neg)
	if err != nil {
		return Result{}, err
	}
	return Result{Metrics: metrics, KernelTime: ktime}, nil
}

// Time computes the kernel of the training sequences in files and reports
// how long it took. The kernel file is written to a temporary directory
// and removed afterwards.
//
// Running out of time is not an error. It is reported as a Timing with
// TimedOut set.
func (conf KernelConfig) Time(
	ctx context.Context,
	files dataset.GkmFiles,
) (sweep.Timing, error) {
	tmp, err := os.MkdirTemp("", "gkmsvm-kernel")
	if err != nil {
		return sweep.Timing{}, errors.Wrap(err, "kernel temp dir")
	}
	defer os.RemoveAll(tmp)

	kernelOut := filepath.Join(tmp, "kernel.out")
	elapsed, err := conf.Run(ctx, files.TrainPos, files.TrainNeg, kernelOut)
	switch {
	case errors.Is(err, proc.ErrTimeout):
		log.Warn().Err(err).Msg("gkm-SVM kernel timed out")
		return sweep.Timing{TimedOut: true}, nil
	case err != nil:
		return sweep.Timing{}, err
	}
	return sweep.Timing{Elapsed: elapsed}, nil
}
