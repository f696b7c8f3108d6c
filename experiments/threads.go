package experiments

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/QData/iGakco-SVM/dataset"
	"github.com/QData/iGakco-SVM/results"
	"github.com/QData/iGakco-SVM/sweep"
)

// Series of the thread experiment. Every series is always a column of the
// output; series that are not enabled are recorded as zero.
const (
	SeriesFastSKExact    = "fastsk_exact_time"
	SeriesFastSKApprox   = "fastsk_approx_time"
	SeriesFastSKApproxT1 = "fastsk_approx_time_t1"
	SeriesFastSKI50      = "fastsk_I50"
	SeriesGkm            = "gkm_time"
)

var threadSeries = []string{
	SeriesFastSKExact,
	SeriesFastSKApprox,
	SeriesFastSKApproxT1,
	SeriesFastSKI50,
	SeriesGkm,
}

// Threads times the kernels of one dataset with an increasing number of
// threads.
func (r *Runner) Threads(ctx context.Context, p dataset.Params) error {
	conf := r.Config.Threads
	w, err := r.writer(p.Dataset+"_vary_threads_I50.csv",
		append([]string{"threads"}, threadSeries...)...)
	if err != nil {
		return err
	}

	// The thread experiment never skips; disabled series start out
	// skipped and record zero.
	axes := make([]*sweep.Axis, len(threadSeries))
	for i, name := range threadSeries {
		axes[i] = sweep.NewSkippedAxis(name)
		if contains(conf.Series, name) {
			axes[i] = sweep.NewAxis(name, sweep.SkipRule{Disabled: true})
		}
	}

	g, m := p.G, p.M
	for _, t := range sweep.Range(conf.MinThreads, conf.MaxThreads) {
		row := results.Row{"threads": t}
		for _, axis := range axes {
			v, err := axis.Run(t, func() (sweep.Timing, error) {
				return r.threadTiming(ctx, axis.Name, p.Dataset, g, m, t)
			})
			if err != nil {
				return err
			}
			row[axis.Name] = v
		}

		log.Info().
			Str("dataset", p.Dataset).
			Int("threads", t).
			Interface("row", row).
			Msg("thread experiment")
		if err := w.Append(row); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) threadTiming(
	ctx context.Context,
	name, prefix string,
	g, m, t int,
) (sweep.Timing, error) {
	switch name {
	case SeriesFastSKExact:
		return r.Tools.FastSKTime(ctx, r.fastsk(g, m, t, false), prefix)
	case SeriesFastSKApprox:
		return r.Tools.FastSKTime(ctx, r.fastsk(g, m, t, true), prefix)
	case SeriesFastSKApproxT1:
		return r.Tools.FastSKTime(ctx, r.fastsk(g, m, 1, true), prefix)
	case SeriesFastSKI50:
		fs := r.fastsk(g, m, 1, true)
		fs.MaxIters = 50
		return r.Tools.FastSKTime(ctx, fs, prefix)
	case SeriesGkm:
		return r.Tools.GkmTime(ctx, r.gkm(g, m, t, false), prefix)
	}
	return sweep.Timing{}, errors.Errorf("unknown thread series '%s'", name)
}
