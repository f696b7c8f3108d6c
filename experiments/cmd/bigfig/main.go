// Command bigfig runs the parameter sweeps behind the FastSK benchmark
// figures. Each subcommand runs one experiment for every dataset of the
// dataset list that passes the experiment's filter.
//
// The dataset list is a CSV file with the header Dataset,type,g,m,k,C.
// Executables, data directories, timeouts and filters are read from an
// optional YAML configuration file; anything left out keeps its default.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/QData/iGakco-SVM/cmd/util"
	"github.com/QData/iGakco-SVM/dataset"
	"github.com/QData/iGakco-SVM/experiments"
)

var (
	flagConfig    = ""
	flagDatasets  = "./evaluations/datasets_to_use.csv"
	flagOutDir    = "."
	flagVerbose   = false
	flagKeepGoing = false
)

var rootCmd = &cobra.Command{
	Use:   "bigfig",
	Short: "Run the FastSK benchmark experiments",
	Long: `bigfig times FastSK and gkm-SVM and measures their accuracy and AUC
over sweeps of the kernel and solver parameters. Every experiment writes
one CSV file per dataset to the output directory, rewritten after every
row.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		util.SetupLogging(flagVerbose)
	},
}

// perDataset is an experiment run once for every selected dataset.
type perDataset func(r *experiments.Runner, ctx context.Context, p dataset.Params) error

func datasetCommand(
	use, short string,
	filter func(experiments.Config) experiments.Filter,
	run perDataset,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, params, err := setup(filter)
			if err != nil {
				return err
			}
			return forEach(cmd.Context(), params, func(ctx context.Context, p dataset.Params) error {
				return run(r, ctx, p)
			})
		},
	}
}

var kernelTimesCmd = &cobra.Command{
	Use:   "kernel-times",
	Short: "Time every kernel variant at each dataset's parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, params, err := setup(func(c experiments.Config) experiments.Filter {
			return c.KernelTimes.Filter
		})
		if err != nil {
			return err
		}
		return kernelTimes(cmd.Context(), r, params)
	},
}

// kernelTimes writes the single kernel time table, adding one row for
// every dataset in params.
func kernelTimes(
	ctx context.Context,
	r *experiments.Runner,
	params []dataset.Params,
) error {
	table, err := r.KernelTimes()
	if err != nil {
		return err
	}
	return forEach(ctx, params, table.Time)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", flagConfig,
		"YAML experiment configuration (defaults are used when empty)")
	flags.StringVar(&flagDatasets, "datasets", flagDatasets,
		"CSV list of datasets and their kernel parameters")
	flags.StringVar(&flagOutDir, "outdir", flagOutDir,
		"Directory the result tables are written to")
	flags.BoolVarP(&flagVerbose, "verbose", "v", flagVerbose,
		"Log every command line run")
	flags.BoolVar(&flagKeepGoing, "keep-going", flagKeepGoing,
		"Continue with the next dataset when one fails")

	rootCmd.AddCommand(
		datasetCommand("threads", "Running time vs. number of threads",
			func(c experiments.Config) experiments.Filter { return c.Threads.Filter },
			(*experiments.Runner).Threads),
		datasetCommand("g-time", "Running time vs. g with k fixed",
			func(c experiments.Config) experiments.Filter { return c.GTime.Filter },
			(*experiments.Runner).GTime),
		datasetCommand("iters", "Accuracy and AUC vs. the iteration budget",
			func(c experiments.Config) experiments.Filter { return c.Iterations.Filter },
			(*experiments.Runner).Iterations),
		datasetCommand("delta", "Accuracy and AUC vs. the convergence threshold",
			func(c experiments.Config) experiments.Filter { return c.Delta.Filter },
			(*experiments.Runner).Delta),
		datasetCommand("g-auc", "Best accuracy and AUC vs. g with k fixed",
			func(c experiments.Config) experiments.Filter { return c.GAUC.Filter },
			(*experiments.Runner).GAUC),
		kernelTimesCmd,
	)
}

// setup loads the configuration and the datasets selected by filter.
func setup(
	filter func(experiments.Config) experiments.Filter,
) (*experiments.Runner, []dataset.Params, error) {
	conf, err := experiments.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	all, err := dataset.ReadParamsFile(flagDatasets)
	if err != nil {
		return nil, nil, err
	}
	params := filter(conf).Select(all)
	log.Info().
		Int("datasets", len(params)).
		Int("listed", len(all)).
		Str("outdir", flagOutDir).
		Msg("Selected datasets")
	return experiments.NewRunner(conf, flagOutDir), params, nil
}

// forEach runs an experiment for every dataset in order. Without
// --keep-going, the first failure stops the remaining datasets.
func forEach(
	ctx context.Context,
	params []dataset.Params,
	run func(context.Context, dataset.Params) error,
) error {
	if !flagKeepGoing {
		for _, p := range params {
			if err := run(ctx, p); err != nil {
				return errors.Wrapf(err, "dataset '%s'", p.Dataset)
			}
		}
		return nil
	}

	progress := util.NewProgress(len(params))
	for _, p := range params {
		if err := run(ctx, p); err != nil {
			progress.JobDone(errors.Wrapf(err, "dataset '%s'", p.Dataset))
		} else {
			progress.JobDone(nil)
		}
		if ctx.Err() != nil {
			break
		}
	}
	if failed := progress.Close(); failed > 0 {
		return errors.Errorf("%d of %d datasets failed", failed, len(params))
	}
	return ctx.Err()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		util.Fatalf("%s", err)
	}
}
