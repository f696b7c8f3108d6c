package experiments

import (
	"context"

	"github.com/QData/iGakco-SVM/apps/fastsk"
	"github.com/QData/iGakco-SVM/apps/gkmsvm"
	"github.com/QData/iGakco-SVM/dataset"
	"github.com/QData/iGakco-SVM/score"
	"github.com/QData/iGakco-SVM/sweep"
)

// Toolkit runs the benchmarked programs on a dataset named by its prefix.
type Toolkit interface {
	FastSKTime(ctx context.Context, conf fastsk.Config, prefix string) (sweep.Timing, error)
	FastSKTrainAndTest(ctx context.Context, conf fastsk.Config, prefix string) (score.Metrics, error)
	GkmTime(ctx context.Context, conf gkmsvm.KernelConfig, prefix string) (sweep.Timing, error)

	// ShortestSequence is the length of the shortest sequence in either
	// split of the FastSK dataset.
	ShortestSequence(prefix string) (int, error)
}

// Local runs the programs on this machine with datasets found in the
// directories given.
type Local struct {
	FastSKData string
	GkmData    string
}

func (l Local) FastSKTime(
	ctx context.Context,
	conf fastsk.Config,
	prefix string,
) (sweep.Timing, error) {
	return conf.Time(ctx, dataset.NewLabeledFiles(l.FastSKData, prefix))
}

func (l Local) FastSKTrainAndTest(
	ctx context.Context,
	conf fastsk.Config,
	prefix string,
) (score.Metrics, error) {
	return conf.TrainAndTest(ctx, dataset.NewLabeledFiles(l.FastSKData, prefix))
}

func (l Local) GkmTime(
	ctx context.Context,
	conf gkmsvm.KernelConfig,
	prefix string,
) (sweep.Timing, error) {
	return conf.Time(ctx, dataset.NewGkmFiles(l.GkmData, prefix))
}

func (l Local) ShortestSequence(prefix string) (int, error) {
	files := dataset.NewLabeledFiles(l.FastSKData, prefix)
	return dataset.ShortestSequence(files.Train, files.Test)
}
