/*
Package experiments runs the parameter sweeps behind the benchmark figures.
Each experiment sweeps one parameter for one dataset, runs FastSK and/or
gkm-SVM for every value and writes one CSV row per value to
<outdir>/<dataset><suffix>.csv. The file is rewritten after every row.

The experiments are:

	Threads      running time vs. number of threads
	GTime        running time vs. g, with k fixed
	Iterations   accuracy and AUC vs. the iteration budget I
	Delta        accuracy and AUC vs. the convergence threshold delta
	GAUC         accuracy and AUC vs. g, with k fixed and the best C
	KernelTimes  running time of every kernel variant, one row per dataset

All sweeps run one program at a time.
*/
package experiments

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/QData/iGakco-SVM/apps/fastsk"
	"github.com/QData/iGakco-SVM/apps/gkmsvm"
	"github.com/QData/iGakco-SVM/results"
)

// Runner runs experiments with one configuration.
type Runner struct {
	Tools  Toolkit
	Config Config
	OutDir string
}

// NewRunner returns a runner that runs programs locally.
func NewRunner(conf Config, outDir string) *Runner {
	return &Runner{
		Tools: Local{
			FastSKData: conf.FastSK.Data,
			GkmData:    conf.Gkm.Data,
		},
		Config: conf,
		OutDir: outDir,
	}
}

// writer creates the output directory if necessary and returns a results
// writer for the file named.
func (r *Runner) writer(name string, columns ...string) (*results.Writer, error) {
	if err := os.MkdirAll(r.OutDir, 0755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}
	w := results.NewWriter(filepath.Join(r.OutDir, name), columns...)
	log.Info().Str("file", w.Path()).Msg("Writing results")
	return w, nil
}

// fastsk returns the FastSK configuration for kernel parameters g and m
// running on t threads.
func (r *Runner) fastsk(g, m, t int, approx bool) fastsk.Config {
	conf := fastsk.DefaultConfig
	conf.Exec = r.Config.FastSK.Exec
	conf.Timeout = r.Config.Timeout
	conf.G, conf.M = g, m
	conf.Threads = t
	conf.Approx = approx
	return conf
}

// gkm returns the gkm-SVM kernel configuration for kernel parameters g and
// m running on t threads. The approximate kernel caps the mismatch count.
func (r *Runner) gkm(g, m, t int, approx bool) gkmsvm.KernelConfig {
	conf := gkmsvm.KernelDefault
	conf.Exec = gkmsvm.Exec(r.Config.Gkm.Exec)
	conf.Timeout = r.Config.Timeout
	conf.G, conf.M = g, m
	conf.Threads = t
	if approx {
		conf.MaxMismatch = r.Config.GTime.GkmMaxMismatch
	}
	return conf
}
