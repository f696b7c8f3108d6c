package experiments

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/QData/iGakco-SVM/dataset"
	"github.com/QData/iGakco-SVM/results"
	"github.com/QData/iGakco-SVM/sweep"
)

// KernelTimesFile is the file written by KernelTimes. Unlike the other
// experiments, it covers every selected dataset.
const KernelTimesFile = "fastsk_gkm_dna_kernel_times.csv"

var kernelTimesColumns = []string{
	"dataset", "g", "m", "k",
	"fastsk_exact", "fastsk_approx_t1", "fastsk_I50",
	"gkm_exact", "gkm_approx",
}

// KernelTimesTable is the KernelTimesFile being written. It holds one row
// per dataset timed.
type KernelTimesTable struct {
	r *Runner
	w *results.Writer
}

// KernelTimes starts KernelTimesFile. Datasets are added with Time, so a
// failure on one dataset does not have to stop the others.
func (r *Runner) KernelTimes() (*KernelTimesTable, error) {
	w, err := r.writer(KernelTimesFile, kernelTimesColumns...)
	if err != nil {
		return nil, err
	}
	return &KernelTimesTable{r: r, w: w}, nil
}

// Time times the exact and approximate kernels of both tools at the kernel
// parameters chosen for p and appends one row. Nothing is written when any
// of the runs fails.
func (kt *KernelTimesTable) Time(ctx context.Context, p dataset.Params) error {
	r, conf := kt.r, kt.r.Config.KernelTimes
	g, m := p.G, p.M
	type timed struct {
		column string
		run    func() (sweep.Timing, error)
	}
	runs := []timed{
		{"fastsk_exact", func() (sweep.Timing, error) {
			fs := r.fastsk(g, m, conf.ExactThreads, false)
			return r.Tools.FastSKTime(ctx, fs, p.Dataset)
		}},
		{"fastsk_approx_t1", func() (sweep.Timing, error) {
			fs := r.fastsk(g, m, 1, true)
			fs.MaxIters = sweep.MaxIters(g, m)
			return r.Tools.FastSKTime(ctx, fs, p.Dataset)
		}},
		{"fastsk_I50", func() (sweep.Timing, error) {
			fs := r.fastsk(g, m, 1, true)
			fs.MaxIters = conf.FixedIters
			return r.Tools.FastSKTime(ctx, fs, p.Dataset)
		}},
		{"gkm_exact", func() (sweep.Timing, error) {
			gkm := r.gkm(g, m, conf.ExactThreads, false)
			return r.Tools.GkmTime(ctx, gkm, p.Dataset)
		}},
		{"gkm_approx", func() (sweep.Timing, error) {
			return r.Tools.GkmTime(ctx, r.gkm(g, m, 1, true), p.Dataset)
		}},
	}

	row := results.Row{"dataset": p.Dataset, "g": g, "m": m, "k": p.K}
	for _, run := range runs {
		timing, err := run.run()
		if err != nil {
			return err
		}
		row[run.column] = timing.Value()
		log.Info().
			Str("dataset", p.Dataset).
			Str("kernel", run.column).
			Float64("seconds", timing.Value()).
			Bool("timed_out", timing.TimedOut).
			Msg("kernel time")
	}
	return kt.w.Append(row)
}
