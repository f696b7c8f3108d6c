package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QData/iGakco-SVM/apps/fastsk"
	"github.com/QData/iGakco-SVM/apps/gkmsvm"
	"github.com/QData/iGakco-SVM/dataset"
	"github.com/QData/iGakco-SVM/score"
	"github.com/QData/iGakco-SVM/sweep"
)

// fakeTools records every call and answers with canned results.
type fakeTools struct {
	fastskTimes []fastsk.Config
	fastskRuns  []fastsk.Config
	gkmTimes    []gkmsvm.KernelConfig

	// Elapsed time of a timing run for kernel parameter g.
	elapsed func(g int) time.Duration

	// AUC of a training run for regularization constant C.
	auc func(c float64) float64

	shortest int
	err      error
}

func (f *fakeTools) timing(g int) sweep.Timing {
	if f.elapsed == nil {
		return sweep.Timing{Elapsed: time.Second}
	}
	return sweep.Timing{Elapsed: f.elapsed(g)}
}

func (f *fakeTools) FastSKTime(
	ctx context.Context,
	conf fastsk.Config,
	prefix string,
) (sweep.Timing, error) {
	f.fastskTimes = append(f.fastskTimes, conf)
	return f.timing(conf.G), f.err
}

func (f *fakeTools) FastSKTrainAndTest(
	ctx context.Context,
	conf fastsk.Config,
	prefix string,
) (score.Metrics, error) {
	f.fastskRuns = append(f.fastskRuns, conf)
	auc := 0.9
	if f.auc != nil {
		auc = f.auc(conf.C)
	}
	return score.Metrics{Accuracy: 0.8, AUC: auc}, f.err
}

func (f *fakeTools) GkmTime(
	ctx context.Context,
	conf gkmsvm.KernelConfig,
	prefix string,
) (sweep.Timing, error) {
	f.gkmTimes = append(f.gkmTimes, conf)
	return f.timing(conf.G), f.err
}

func (f *fakeTools) ShortestSequence(prefix string) (int, error) {
	return f.shortest, nil
}

func newRunner(t *testing.T, tools *fakeTools) *Runner {
	return &Runner{Tools: tools, Config: DefaultConfig, OutDir: t.TempDir()}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

var ctcf = dataset.Params{Dataset: "CTCF", Type: "dna", G: 8, M: 4, K: 4, C: 0.01}

func TestThreads(t *testing.T) {
	tools := &fakeTools{}
	r := newRunner(t, tools)
	r.Config.Threads.MaxThreads = 3
	require.NoError(t, r.Threads(context.Background(), ctcf))

	// Only the I50 series runs by default, always on a single thread.
	require.Len(t, tools.fastskTimes, 3)
	assert.Empty(t, tools.gkmTimes)
	for _, conf := range tools.fastskTimes {
		assert.Equal(t, 1, conf.Threads)
		assert.Equal(t, 50, conf.MaxIters)
		assert.True(t, conf.Approx)
	}

	records := readCSV(t, filepath.Join(r.OutDir, "CTCF_vary_threads_I50.csv"))
	require.Len(t, records, 4)
	assert.Equal(t, append([]string{"threads"}, threadSeries...), records[0])
	assert.Equal(t, []string{"3", "0", "0", "0", "1", "0"}, records[3])
}

func TestThreadsAllSeries(t *testing.T) {
	tools := &fakeTools{}
	r := newRunner(t, tools)
	r.Config.Threads.MaxThreads = 2
	r.Config.Threads.Series = threadSeries
	require.NoError(t, r.Threads(context.Background(), ctcf))

	assert.Len(t, tools.fastskTimes, 8)
	require.Len(t, tools.gkmTimes, 2)
	assert.Equal(t, 2, tools.gkmTimes[1].Threads)
	assert.Equal(t, 0, tools.gkmTimes[1].MaxMismatch)
}

func TestGTime(t *testing.T) {
	tools := &fakeTools{
		elapsed: func(g int) time.Duration {
			if g >= 10 {
				return time.Hour
			}
			return time.Second
		},
	}
	r := newRunner(t, tools)
	r.Config.GTime.MaxG = 12
	require.NoError(t, r.GTime(context.Background(), ctcf))

	records := readCSV(t, filepath.Join(r.OutDir, "CTCF_g_times.csv"))
	require.Len(t, records, 8)
	assert.Equal(t, []string{
		"g", "k", "m",
		"FastSK-Approx 1 thread",
		"FastSK-Approx 10 thread",
		"FastSK-Approx 20 thread",
		"FastSK-Approx 1 thread no variance 50 iters",
		"FastSK-Approx 10 thread no variance 50 iters",
		"FastSK-Approx 20 thread no variance 50 iters",
		"gkm-Approx 1 thread",
		"gkm-Approx 10 thread",
		"gkm-Approx 20 thread",
	}, records[0])
	assert.Equal(t, []string{"6", "6", "0"}, records[1][:3])
	assert.Equal(t, "1", records[1][3])

	// g = 10 is too slow, so every series is skipped from g = 11 on.
	assert.Equal(t, "3600", records[5][3])
	for _, v := range records[6][3:] {
		assert.Equal(t, "0", v)
	}
	assert.Len(t, tools.fastskTimes, 6*5)
	assert.Len(t, tools.gkmTimes, 3*5)

	for _, conf := range tools.gkmTimes {
		assert.Equal(t, 3, conf.MaxMismatch)
	}
	assert.Equal(t, sweep.MaxIters(6, 0), tools.fastskTimes[0].MaxIters)
	assert.True(t, tools.fastskTimes[3].SkipVariance)
	assert.Equal(t, 50, tools.fastskTimes[3].MaxIters)
}

func TestGTimeExactAndNoSkip(t *testing.T) {
	tools := &fakeTools{elapsed: func(int) time.Duration { return time.Hour }}
	r := newRunner(t, tools)
	r.Config.GTime.MaxG = 10
	r.Config.GTime.Threads = []int{1}
	r.Config.GTime.Exact = true
	r.Config.Skip.Disabled = true
	require.NoError(t, r.GTime(context.Background(), ctcf))

	records := readCSV(t, filepath.Join(r.OutDir, "CTCF_g_times.csv"))
	assert.Equal(t, "FastSK-Exact 20 thread", records[0][3])
	assert.Equal(t, "gkm-Exact 20 thread", records[0][6])
	for _, v := range records[len(records)-1][3:] {
		assert.Equal(t, "3600", v)
	}
}

func TestGTimeError(t *testing.T) {
	tools := &fakeTools{err: errors.New("boom")}
	r := newRunner(t, tools)
	assert.Error(t, r.GTime(context.Background(), ctcf))
}

func TestIterations(t *testing.T) {
	tools := &fakeTools{}
	r := newRunner(t, tools)
	require.NoError(t, r.Iterations(context.Background(), ctcf))

	want := sweep.IterValues(8, 4, 100)
	require.Len(t, tools.fastskRuns, len(want))
	for i, conf := range tools.fastskRuns {
		assert.Equal(t, want[i], conf.MaxIters)
		assert.Equal(t, 1, conf.Threads)
		assert.Equal(t, 0.01, conf.C)
		assert.Equal(t, 0.025, conf.Delta)
	}

	records := readCSV(t, filepath.Join(r.OutDir, "CTCF_vary_I.csv"))
	assert.Equal(t, []string{"I", "acc", "auc"}, records[0])
	assert.Equal(t, []string{"70", "0.8", "0.9"}, records[len(records)-1])
}

func TestIterationsNoMismatches(t *testing.T) {
	tools := &fakeTools{}
	r := newRunner(t, tools)
	p := ctcf
	p.M, p.K = 0, 8
	require.NoError(t, r.Iterations(context.Background(), p))

	require.Len(t, tools.fastskRuns, 8)
	assert.Equal(t, 1, tools.fastskRuns[0].M)
}

func TestDelta(t *testing.T) {
	tools := &fakeTools{}
	r := newRunner(t, tools)
	require.NoError(t, r.Delta(context.Background(), ctcf))

	require.Len(t, tools.fastskRuns, 30)
	for _, conf := range tools.fastskRuns {
		assert.Equal(t, 70, conf.MaxIters)
	}
	records := readCSV(t, filepath.Join(r.OutDir, "CTCF_vary_delta.csv"))
	assert.Len(t, records, 31)
}

func TestGAUC(t *testing.T) {
	tools := &fakeTools{
		shortest: 8,
		auc: func(c float64) float64 {
			if c == 1 {
				return 0.95
			}
			return 0.5
		},
	}
	r := newRunner(t, tools)
	require.NoError(t, r.GAUC(context.Background(), ctcf))

	// g runs from 6 to the shortest sequence length.
	records := readCSV(t, filepath.Join(r.OutDir, "CTCF_g_auc_k6.csv"))
	require.Len(t, records, 4)
	assert.Equal(t, []string{"g", "k", "m", "C", "acc", "auc"}, records[0])
	assert.Equal(t, []string{"8", "6", "2", "1", "0.8", "0.95"}, records[3])
	assert.Len(t, tools.fastskRuns, 3*len(sweep.CValues()))
}

func TestGAUCFileNamedByK(t *testing.T) {
	tools := &fakeTools{shortest: 7}
	r := newRunner(t, tools)
	r.Config.GAUC.K = 5
	require.NoError(t, r.GAUC(context.Background(), ctcf))

	records := readCSV(t, filepath.Join(r.OutDir, "CTCF_g_auc_k5.csv"))
	require.Len(t, records, 4)
	assert.Equal(t, []string{"5", "5", "0"}, records[1][:3])
	assert.NoFileExists(t, filepath.Join(r.OutDir, "CTCF_g_auc_k6.csv"))
}

func TestKernelTimes(t *testing.T) {
	tools := &fakeTools{}
	r := newRunner(t, tools)
	kt, err := r.KernelTimes()
	require.NoError(t, err)
	for _, p := range []dataset.Params{ctcf, {Dataset: "TP53", G: 10, M: 4, K: 6}} {
		require.NoError(t, kt.Time(context.Background(), p))
	}

	records := readCSV(t, filepath.Join(r.OutDir, KernelTimesFile))
	require.Len(t, records, 3)
	assert.Equal(t, kernelTimesColumns, records[0])
	assert.Equal(t, []string{"TP53", "10", "4", "6", "1", "1", "1", "1", "1"}, records[2])

	require.Len(t, tools.gkmTimes, 4)
	assert.Equal(t, 20, tools.gkmTimes[0].Threads)
	assert.Equal(t, 3, tools.gkmTimes[1].MaxMismatch)
}

func TestKernelTimesFailedDatasetHasNoRow(t *testing.T) {
	tools := &fakeTools{err: errors.New("out of memory")}
	r := newRunner(t, tools)
	kt, err := r.KernelTimes()
	require.NoError(t, err)
	assert.Error(t, kt.Time(context.Background(), ctcf))

	tools.err = nil
	require.NoError(t, kt.Time(context.Background(), ctcf))
	records := readCSV(t, filepath.Join(r.OutDir, KernelTimesFile))
	require.Len(t, records, 2)
	assert.Equal(t, "CTCF", records[1][0])
}

func TestFilter(t *testing.T) {
	params := []dataset.Params{
		{Dataset: "CTCF", Type: "dna"},
		{Dataset: "KAT2B", Type: "dna"},
		{Dataset: "1.1", Type: "protein"},
	}
	assert.Len(t, DefaultConfig.GAUC.Filter.Select(params), 1)
	assert.Len(t, DefaultConfig.KernelTimes.Filter.Select(params), 1)
	assert.Len(t, DefaultConfig.Delta.Filter.Select(params), 2)
	assert.Len(t, Filter{}.Select(params), 3)
	assert.True(t, Filter{Types: []string{"DNA"}}.Match(params[0]))
}

func TestLoad(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig.Timeout, conf.Timeout)

	path := filepath.Join(t.TempDir(), "bigfig.yaml")
	yml := `timeout: 10m
fastsk:
  exec: /opt/fastsk/bin/fastsk
skip:
  disabled: true
threads:
  series: [fastsk_I50, gkm_time]
g_time:
  threads: [4]
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))
	conf, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, conf.Timeout)
	assert.Equal(t, "/opt/fastsk/bin/fastsk", conf.FastSK.Exec)
	assert.Equal(t, "./data", conf.FastSK.Data)
	assert.True(t, conf.Skip.Rule().Disabled)
	assert.Equal(t, []string{SeriesFastSKI50, SeriesGkm}, conf.Threads.Series)
	assert.Equal(t, []int{4}, conf.GTime.Threads)
	assert.Equal(t, 6, conf.GTime.K)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bigfig.yaml")
	require.NoError(t, os.WriteFile(path,
		[]byte("threads:\n  series: [nope]\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExampleConfigIsDefault(t *testing.T) {
	conf, err := Load(filepath.Join("..", "evaluations", "bigfig.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, conf)
}

func TestExampleDatasets(t *testing.T) {
	params, err := dataset.ReadParamsFile(
		filepath.Join("..", "evaluations", "datasets_to_use.csv"))
	require.NoError(t, err)
	assert.Len(t, DefaultConfig.Threads.Filter.Select(params), 6)
	assert.Len(t, DefaultConfig.KernelTimes.Filter.Select(params), 3)
}
