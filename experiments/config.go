package experiments

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/QData/iGakco-SVM/dataset"
	"github.com/QData/iGakco-SVM/sweep"
)

// Config is the configuration shared by all experiments. It is usually
// read from a YAML file with Load. Any field left out of the file keeps
// its value from DefaultConfig.
type Config struct {
	FastSK Tool `yaml:"fastsk"`
	Gkm    Tool `yaml:"gkm"`

	// Every external program is killed after running this long.
	Timeout time.Duration `yaml:"timeout"`

	Skip Skip `yaml:"skip"`

	Threads     ThreadsConfig     `yaml:"threads"`
	GTime       GTimeConfig       `yaml:"g_time"`
	Iterations  IterationsConfig  `yaml:"iters"`
	Delta       DeltaConfig       `yaml:"delta"`
	GAUC        GAUCConfig        `yaml:"g_auc"`
	KernelTimes KernelTimesConfig `yaml:"kernel_times"`
}

// Tool locates a benchmarked program and its datasets.
type Tool struct {
	// Exec is the executable. For gkm-SVM, this is the kernel program.
	Exec string `yaml:"exec"`
	Data string `yaml:"data"`
}

// Skip configures when a timing series gives up on larger values of g.
type Skip struct {
	MaxTime  time.Duration `yaml:"max_time"`
	MinG     int           `yaml:"min_g"`
	Disabled bool          `yaml:"disabled"`
}

// Rule converts the configuration into a sweep.SkipRule.
func (s Skip) Rule() sweep.SkipRule {
	return sweep.SkipRule{
		MaxTime:  s.MaxTime,
		MinValue: s.MinG,
		Disabled: s.Disabled,
	}
}

// Filter selects datasets from a dataset list. An empty field does not
// restrict anything.
type Filter struct {
	Types   []string `yaml:"types"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// Match returns true if the dataset passes the filter.
func (f Filter) Match(p dataset.Params) bool {
	if len(f.Types) > 0 && !containsFold(f.Types, p.Type) {
		return false
	}
	if len(f.Include) > 0 && !contains(f.Include, p.Dataset) {
		return false
	}
	return !contains(f.Exclude, p.Dataset)
}

// Select returns the datasets that pass the filter, in order.
func (f Filter) Select(params []dataset.Params) []dataset.Params {
	var selected []dataset.Params
	for _, p := range params {
		if f.Match(p) {
			selected = append(selected, p)
		}
	}
	return selected
}

type ThreadsConfig struct {
	Filter     Filter   `yaml:"filter"`
	MinThreads int      `yaml:"min_threads"`
	MaxThreads int      `yaml:"max_threads"`
	Series     []string `yaml:"series"`
}

type GTimeConfig struct {
	Filter Filter `yaml:"filter"`
	K      int    `yaml:"k"`
	MinG   int    `yaml:"min_g"`
	MaxG   int    `yaml:"max_g"`

	// Iterations run by the "no variance" series.
	FixedIters int `yaml:"fixed_iters"`

	// Thread counts of the approximate series.
	Threads []int `yaml:"threads"`

	// When true, the exact kernels are timed too.
	Exact        bool `yaml:"exact"`
	ExactThreads int  `yaml:"exact_threads"`

	// The mismatch cap of the gkm-SVM approximation.
	GkmMaxMismatch int `yaml:"gkm_max_mismatch"`
}

type IterationsConfig struct {
	Filter Filter  `yaml:"filter"`
	Limit  int     `yaml:"limit"`
	Delta  float64 `yaml:"delta"`
}

type DeltaConfig struct {
	Filter Filter `yaml:"filter"`
}

type GAUCConfig struct {
	Filter Filter `yaml:"filter"`
	K      int    `yaml:"k"`
	MaxG   int    `yaml:"max_g"`

	// Iteration budget cap while searching for the best C.
	Limit int `yaml:"limit"`
}

type KernelTimesConfig struct {
	Filter       Filter `yaml:"filter"`
	ExactThreads int    `yaml:"exact_threads"`
	FixedIters   int    `yaml:"fixed_iters"`
}

// DefaultConfig reproduces the settings the figures were made with.
var DefaultConfig = Config{
	FastSK:  Tool{Exec: "fastsk", Data: "./data"},
	Gkm:     Tool{Exec: "gkmsvm_kernel", Data: "./baselines/gkm_data"},
	Timeout: time.Hour,
	Skip: Skip{
		MaxTime: sweep.DefaultSkipRule.MaxTime,
		MinG:    sweep.DefaultSkipRule.MinValue,
	},
	Threads: ThreadsConfig{
		Filter:     Filter{Types: []string{"dna"}},
		MinThreads: 1,
		MaxThreads: 20,
		Series:     []string{SeriesFastSKI50},
	},
	GTime: GTimeConfig{
		Filter:         Filter{Types: []string{"dna"}},
		K:              6,
		MinG:           6,
		MaxG:           20,
		FixedIters:     50,
		Threads:        []int{1, 10, 20},
		ExactThreads:   20,
		GkmMaxMismatch: 3,
	},
	Iterations: IterationsConfig{
		Limit: 100,
		Delta: 0.025,
	},
	Delta: DeltaConfig{
		Filter: Filter{Exclude: []string{"ZZZ3", "KAT2B", "EP300_47848"}},
	},
	GAUC: GAUCConfig{
		Filter: Filter{
			Types:   []string{"dna"},
			Exclude: []string{"KAT2B", "TP53", "ZZZ3"},
		},
		K:     6,
		MaxG:  20,
		Limit: 100,
	},
	KernelTimes: KernelTimesConfig{
		Filter: Filter{
			Types:   []string{"dna"},
			Include: []string{"KAT2B", "TP53", "ZZZ3"},
		},
		ExactThreads: 20,
		FixedIters:   50,
	},
}

// Load reads a YAML configuration file on top of DefaultConfig. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	conf := DefaultConfig
	if len(path) == 0 {
		return conf, nil
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(bs, &conf); err != nil {
		return Config{}, errors.Wrapf(err, "parse config '%s'", path)
	}
	return conf, conf.Validate()
}

// Validate reports configuration errors that would otherwise surface in
// the middle of a sweep.
func (c Config) Validate() error {
	for _, name := range c.Threads.Series {
		if !contains(threadSeries, name) {
			return errors.Errorf("Unknown thread series '%s'. Valid "+
				"series are %s.", name, strings.Join(threadSeries, ", "))
		}
	}
	if c.GTime.K <= 0 || c.GAUC.K <= 0 {
		return errors.New("k must be positive")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, x := range list {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}
