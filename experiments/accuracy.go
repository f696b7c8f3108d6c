package experiments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/QData/iGakco-SVM/dataset"
	"github.com/QData/iGakco-SVM/results"
	"github.com/QData/iGakco-SVM/score"
	"github.com/QData/iGakco-SVM/sweep"
)

// Iterations measures accuracy and AUC of the approximate kernel as the
// iteration budget grows. A mismatch count of zero is run as one.
func (r *Runner) Iterations(ctx context.Context, p dataset.Params) error {
	conf := r.Config.Iterations
	w, err := r.writer(p.Dataset+"_vary_I.csv", "I", "acc", "auc")
	if err != nil {
		return err
	}

	g, m := p.G, p.M
	if m == 0 {
		m = 1
	}
	for _, iters := range sweep.IterValues(g, m, conf.Limit) {
		fs := r.fastsk(g, m, 1, true)
		fs.MaxIters = iters
		fs.Delta = conf.Delta
		fs.C = p.C

		metrics, err := r.Tools.FastSKTrainAndTest(ctx, fs, p.Dataset)
		if err != nil {
			return err
		}
		log.Info().
			Str("dataset", p.Dataset).
			Int("I", iters).
			Float64("acc", metrics.Accuracy).
			Float64("auc", metrics.AUC).
			Msg("iteration experiment")

		row := results.Row{"I": iters, "acc": metrics.Accuracy, "auc": metrics.AUC}
		if err := w.Append(row); err != nil {
			return err
		}
	}
	return nil
}

// Delta measures accuracy and AUC of the approximate kernel for a range of
// convergence thresholds. The iteration budget is never the limiting
// factor.
func (r *Runner) Delta(ctx context.Context, p dataset.Params) error {
	w, err := r.writer(p.Dataset+"_vary_delta.csv", "delta", "acc", "auc")
	if err != nil {
		return err
	}

	for _, d := range sweep.DeltaValues() {
		fs := r.fastsk(p.G, p.M, 1, true)
		fs.MaxIters = sweep.MaxIters(p.G, p.M)
		fs.Delta = d
		fs.C = p.C

		metrics, err := r.Tools.FastSKTrainAndTest(ctx, fs, p.Dataset)
		if err != nil {
			return err
		}
		log.Info().
			Str("dataset", p.Dataset).
			Float64("delta", d).
			Float64("acc", metrics.Accuracy).
			Float64("auc", metrics.AUC).
			Msg("delta experiment")

		row := results.Row{"delta": d, "acc": metrics.Accuracy, "auc": metrics.AUC}
		if err := w.Append(row); err != nil {
			return err
		}
	}
	return nil
}

// GAUC measures the best accuracy and AUC of the approximate kernel for
// increasing g with k fixed. g never exceeds the shortest sequence of the
// dataset.
func (r *Runner) GAUC(ctx context.Context, p dataset.Params) error {
	conf := r.Config.GAUC
	shortest, err := r.Tools.ShortestSequence(p.Dataset)
	if err != nil {
		return err
	}
	maxG := conf.MaxG
	if shortest < maxG {
		maxG = shortest
	}

	name := fmt.Sprintf("%s_g_auc_k%d.csv", p.Dataset, conf.K)
	w, err := r.writer(name, "g", "k", "m", "C", "acc", "auc")
	if err != nil {
		return err
	}
	for _, g := range sweep.Range(conf.K, maxG) {
		m := g - conf.K
		best, c, err := r.bestC(ctx, p.Dataset, g, m)
		if err != nil {
			return err
		}
		log.Info().
			Str("dataset", p.Dataset).
			Int("g", g).
			Int("m", m).
			Float64("C", c).
			Float64("acc", best.Accuracy).
			Float64("auc", best.AUC).
			Msg("g-AUC experiment")

		row := results.Row{
			"g": g, "k": conf.K, "m": m, "C": c,
			"acc": best.Accuracy, "auc": best.AUC,
		}
		if err := w.Append(row); err != nil {
			return err
		}
	}
	return nil
}

// bestC trains with every regularization constant of sweep.CValues and
// returns the metrics with the highest AUC along with the constant that
// achieved them. Ties keep the smaller constant.
func (r *Runner) bestC(
	ctx context.Context,
	prefix string,
	g, m int,
) (score.Metrics, float64, error) {
	iters := sweep.MaxIters(g, m)
	if limit := r.Config.GAUC.Limit; limit > 0 && iters > limit {
		iters = limit
	}

	var best score.Metrics
	bestC := 0.0
	for i, c := range sweep.CValues() {
		fs := r.fastsk(g, m, 1, true)
		fs.MaxIters = iters
		fs.C = c

		metrics, err := r.Tools.FastSKTrainAndTest(ctx, fs, prefix)
		if err != nil {
			return score.Metrics{}, 0, err
		}
		log.Debug().
			Str("dataset", prefix).
			Int("g", g).
			Float64("C", c).
			Float64("auc", metrics.AUC).
			Msg("Trying regularization constant")
		if i == 0 || metrics.AUC > best.AUC {
			best, bestC = metrics, c
		}
	}
	return best, bestC, nil
}
