/*
Package fastsk wraps the FastSK program, which trains and evaluates an SVM
using an approximation of the gapped k-mer string kernel.

The kernel is estimated by sampling mismatch position sets. Sampling stops
after MaxIters iterations or, unless SkipVariance is set, once the
variance of the estimate falls below Delta. None of that happens here: this
package only builds the command line, runs the program and reads back what
it wrote.

FastSK reads the labeled FASTA layout of package dataset. The program is
invoked as

	fastsk [-a] [-q] -g G -m M -t T [-I iters] [-d delta] [-C c]
		[-p predictions] train.fasta test.fasta

When -p is given, the test sequences are classified and their scores are
written to the predictions file, one "<name> <score>" row per test
sequence in the order of the test file.
*/
package fastsk

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/QData/iGakco-SVM/apps/proc"
	"github.com/QData/iGakco-SVM/dataset"
	"github.com/QData/iGakco-SVM/score"
	"github.com/QData/iGakco-SVM/sweep"
)

// Config is used to specify the location of the FastSK binary and the
// kernel and solver parameters passed to it.
type Config struct {
	// Exec points to the 'fastsk' executable. If it is in your PATH, it is
	// sufficient to leave this as 'fastsk'.
	Exec string

	// Gapped word length and number of mismatches.
	G, M int

	// Number of threads used to compute the kernel.
	Threads int

	// When false, the exact kernel is computed and the remaining
	// approximation options are ignored.
	Approx bool

	// Maximum number of sampling iterations. Zero uses C(g, m), which is
	// enough to enumerate every mismatch position set.
	MaxIters int

	// Sampling stops once the variance of the estimate is below Delta.
	Delta float64

	// When true, no variance is computed and exactly MaxIters iterations
	// are run.
	SkipVariance bool

	// SVM regularization constant.
	C float64

	// When positive, FastSK is killed after running this long.
	Timeout time.Duration

	// PredictionsFile is where TrainAndTest asks FastSK to write its
	// predictions. If left blank, a temporary directory is used and
	// removed afterwards.
	PredictionsFile string

	// When true, FastSK's stdout and stderr will be mapped to the current
	// processes' stderr.
	Verbose bool
}

// DefaultConfig provides some sane defaults to run FastSK with. For
// example:
//
//	conf := fastsk.DefaultConfig
//	conf.G, conf.M = 8, 4
//	metrics, err := conf.TrainAndTest(ctx, files)
var DefaultConfig = Config{
	Exec:    "fastsk",
	Threads: 1,
	Approx:  true,
	Delta:   0.025,
	C:       1,
}

// Iters returns the iteration budget passed to FastSK.
func (conf Config) Iters() int {
	if conf.MaxIters > 0 {
		return conf.MaxIters
	}
	return sweep.MaxIters(conf.G, conf.M)
}

// Args returns the arguments to FastSK. When predOut is empty, FastSK only
// computes the kernel.
func (conf Config) Args(files dataset.LabeledFiles, predOut string) []string {
	var args []string
	if conf.Approx {
		args = append(args, "-a")
		if conf.SkipVariance {
			args = append(args, "-q")
		}
	}
	args = append(args,
		"-g", strconv.Itoa(conf.G),
		"-m", strconv.Itoa(conf.M),
		"-t", strconv.Itoa(conf.Threads))
	if conf.Approx {
		args = append(args,
			"-I", strconv.Itoa(conf.Iters()),
			"-d", strconv.FormatFloat(conf.Delta, 'g', -1, 64))
	}
	if len(predOut) > 0 {
		args = append(args,
			"-C", strconv.FormatFloat(conf.C, 'g', -1, 64),
			"-p", predOut)
	}
	return append(args, files.Train, files.Test)
}

func (conf Config) command(files dataset.LabeledFiles, predOut string) proc.Command {
	return proc.Command{
		Path:    conf.Exec,
		Args:    conf.Args(files, predOut),
		Timeout: conf.Timeout,
		Verbose: conf.Verbose,
	}
}

// Time computes the kernel for the dataset and reports how long it took.
//
// Running out of time is not an error. It is reported as a Timing with
// TimedOut set.
func (conf Config) Time(
	ctx context.Context,
	files dataset.LabeledFiles,
) (sweep.Timing, error) {
	elapsed, err := conf.command(files, "").Run(ctx)
	switch {
	case errors.Is(err, proc.ErrTimeout):
		log.Warn().Err(err).Msg("FastSK kernel timed out")
		return sweep.Timing{TimedOut: true}, nil
	case err != nil:
		return sweep.Timing{}, err
	}
	return sweep.Timing{Elapsed: elapsed}, nil
}

// TrainAndTest trains a model on the training split, classifies the test
// split and scores the predictions against the labels in the test file.
func (conf Config) TrainAndTest(
	ctx context.Context,
	files dataset.LabeledFiles,
) (score.Metrics, error) {
	predOut := conf.PredictionsFile
	if len(predOut) == 0 {
		tempDir, err := os.MkdirTemp("", "fastsk")
		if err != nil {
			return score.Metrics{}, errors.Wrap(err, "FastSK temp dir")
		}
		defer os.RemoveAll(tempDir)
		predOut = filepath.Join(tempDir, "preds.out")
	}

	if _, err := conf.command(files, predOut).Run(ctx); err != nil {
		return score.Metrics{}, err
	}

	preds, err := score.ReadPredictionsFile(predOut)
	if err != nil {
		return score.Metrics{}, err
	}
	labels, err := dataset.Labels(files.Test)
	if err != nil {
		return score.Metrics{}, err
	}
	pos, neg, err := score.Split(preds, labels)
	if err != nil {
		return score.Metrics{}, errors.Wrapf(err, "'%s'", predOut)
	}
	return score.Evaluate(pos, neg)
}
