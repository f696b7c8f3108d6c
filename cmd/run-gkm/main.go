// Command run-gkm trains a gkm-SVM model on one dataset and reports the
// accuracy and AUC of its predictions on the test sequences.
//
// The dataset is read from four FASTA files in the directory given by
// --dir:
//
//	<prefix>.train.pos.fasta  <prefix>.train.neg.fasta
//	<prefix>.test.pos.fasta   <prefix>.test.neg.fasta
//
// Intermediate files are kept in --outdir. When --results is set, a row
// with the metrics and the kernel computation time is appended to that
// CSV file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/QData/iGakco-SVM/apps/gkmsvm"
	"github.com/QData/iGakco-SVM/cmd/util"
	"github.com/QData/iGakco-SVM/dataset"
	"github.com/QData/iGakco-SVM/results"
)

var (
	flagDir     = ""
	flagPrefix  = ""
	flagOutDir  = "./temp"
	flagG       = 0
	flagM       = 0
	flagDict    = ""
	flagResults = ""
	flagClean   = false
)

// Columns of the results log.
var logHeader = []string{"run", "dataset", "g", "k", "m", "acc", "auc", "time"}

func init() {
	flag.StringVar(&flagDir, "dir", flagDir,
		"Dataset directory, e.g., ./data.")
	flag.StringVar(&flagPrefix, "prefix", flagPrefix,
		"Dataset prefix, e.g., EP300.")
	flag.StringVar(&flagOutDir, "outdir", flagOutDir,
		"Directory to store intermediate and output files.")
	flag.IntVar(&flagG, "g", flagG, "Gapped word length.")
	flag.IntVar(&flagM, "m", flagM, "Number of mismatches.")
	flag.StringVar(&flagDict, "dict", flagDict,
		"Dictionary file name (not needed for DNA datasets).")
	flag.StringVar(&flagResults, "results", flagResults,
		"CSV file to log accuracy and AUC.")
	flag.BoolVar(&flagClean, "clean", flagClean,
		"Remove the kernel, model and prediction files when done.")

	util.FlagUse("verbose", "gkm-exec", "timeout")
}

func main() {
	util.FlagParse("", "Train and evaluate a gkm-SVM model on one dataset.")
	if len(flagDir) == 0 || len(flagPrefix) == 0 || flag.NArg() > 0 {
		util.Usage()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	util.AssertIsDir(flagDir)
	util.MkdirAll(flagOutDir)
	util.Assert(run(ctx, os.Stdout), "gkm-SVM failed on '%s'", flagPrefix)
}

// run trains and evaluates one model with the parameters given by flags.
// The metrics are printed to w.
func run(ctx context.Context, w io.Writer) error {
	if flagG <= 0 || flagM < 0 || flagM > flagG {
		return errors.Errorf("invalid kernel parameters g = %d, m = %d",
			flagG, flagM)
	}

	pipeline := gkmsvm.NewPipeline(flagG, flagM, flagDict)
	pipeline.Kernel.Timeout = util.FlagTimeout
	pipeline.Train.Timeout = util.FlagTimeout
	pipeline.Classify.Timeout = util.FlagTimeout
	pipeline.Kernel.Verbose = util.FlagVerbose
	pipeline.Train.Verbose = util.FlagVerbose
	pipeline.Classify.Verbose = util.FlagVerbose

	files := dataset.NewGkmFiles(flagDir, flagPrefix)
	paths := gkmsvm.NewPaths(flagOutDir, flagPrefix)
	res, err := pipeline.Run(ctx, files, paths)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Accuracy = %v, AUC = %v\n", res.Accuracy, res.AUC)

	if len(flagResults) > 0 {
		row := results.Row{
			"run":     uuid.New().String(),
			"dataset": flagPrefix,
			"g":       flagG,
			"k":       flagG - flagM,
			"m":       flagM,
			"acc":     res.Accuracy,
			"auc":     res.AUC,
			"time":    res.KernelTime,
		}
		if err := results.AppendLog(flagResults, logHeader, row); err != nil {
			return errors.Wrapf(err, "log results to '%s'", flagResults)
		}
		log.Info().Str("file", flagResults).Msg("Logged results")
	}
	if flagClean {
		util.Warning(paths.Clean(),
			"Could not remove intermediate files in '%s'", flagOutDir)
	}
	return nil
}
