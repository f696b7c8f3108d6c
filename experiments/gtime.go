package experiments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/QData/iGakco-SVM/dataset"
	"github.com/QData/iGakco-SVM/results"
	"github.com/QData/iGakco-SVM/sweep"
)

// timer times one kernel for kernel parameters g and m.
type timer func(ctx context.Context, g, m int) (sweep.Timing, error)

// series is one column of the g-time experiment.
type series struct {
	axis *sweep.Axis
	time timer
}

// gTimeSeries builds the series of the g-time experiment in column order.
// The exact series are only included when enabled.
func (r *Runner) gTimeSeries(prefix string) []series {
	conf := r.Config.GTime
	rule := r.Config.Skip.Rule()

	var all []series
	add := func(name string, fun timer) {
		all = append(all, series{axis: sweep.NewAxis(name, rule), time: fun})
	}

	if conf.Exact {
		add(fmt.Sprintf("FastSK-Exact %d thread", conf.ExactThreads),
			func(ctx context.Context, g, m int) (sweep.Timing, error) {
				fs := r.fastsk(g, m, conf.ExactThreads, false)
				return r.Tools.FastSKTime(ctx, fs, prefix)
			})
	}
	for _, t := range conf.Threads {
		t := t
		add(fmt.Sprintf("FastSK-Approx %d thread", t),
			func(ctx context.Context, g, m int) (sweep.Timing, error) {
				fs := r.fastsk(g, m, t, true)
				fs.MaxIters = sweep.MaxIters(g, m)
				return r.Tools.FastSKTime(ctx, fs, prefix)
			})
	}
	for _, t := range conf.Threads {
		t := t
		name := fmt.Sprintf("FastSK-Approx %d thread no variance %d iters",
			t, conf.FixedIters)
		add(name,
			func(ctx context.Context, g, m int) (sweep.Timing, error) {
				fs := r.fastsk(g, m, t, true)
				fs.MaxIters = conf.FixedIters
				fs.SkipVariance = true
				return r.Tools.FastSKTime(ctx, fs, prefix)
			})
	}
	if conf.Exact {
		add(fmt.Sprintf("gkm-Exact %d thread", conf.ExactThreads),
			func(ctx context.Context, g, m int) (sweep.Timing, error) {
				gkm := r.gkm(g, m, conf.ExactThreads, false)
				return r.Tools.GkmTime(ctx, gkm, prefix)
			})
	}
	for _, t := range conf.Threads {
		t := t
		add(fmt.Sprintf("gkm-Approx %d thread", t),
			func(ctx context.Context, g, m int) (sweep.Timing, error) {
				return r.Tools.GkmTime(ctx, r.gkm(g, m, t, true), prefix)
			})
	}
	return all
}

// GTime times every kernel variant for increasing g with k fixed. Each
// series stops being run once it gets too slow.
func (r *Runner) GTime(ctx context.Context, p dataset.Params) error {
	conf := r.Config.GTime
	all := r.gTimeSeries(p.Dataset)

	columns := []string{"g", "k", "m"}
	for _, s := range all {
		columns = append(columns, s.axis.Name)
	}
	w, err := r.writer(p.Dataset+"_g_times.csv", columns...)
	if err != nil {
		return err
	}

	for _, g := range sweep.Range(conf.MinG, conf.MaxG) {
		m := g - conf.K
		if m < 0 {
			continue
		}
		row := results.Row{"g": g, "k": conf.K, "m": m}
		for _, s := range all {
			v, err := s.axis.Run(g, func() (sweep.Timing, error) {
				return s.time(ctx, g, m)
			})
			if err != nil {
				return err
			}
			row[s.axis.Name] = v
		}

		log.Info().
			Str("dataset", p.Dataset).
			Int("g", g).
			Int("m", m).
			Msg("g-time experiment")
		if err := w.Append(row); err != nil {
			return err
		}
	}
	return nil
}
