package util

import (
	"flag"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/QData/iGakco-SVM/apps/gkmsvm"
)

var (
	FlagVerbose = false

	// Directory holding the gkm-SVM executables. Relative executable
	// names are resolved against it.
	FlagGkmExec = gkmsvm.ExecDir

	// Every external program is killed after running this long. Zero
	// disables the timeout.
	FlagTimeout = time.Duration(0)
)

func init() {
	SetupLogging(false)
}

// SetupLogging writes human readable logs to stderr. Debug messages,
// including every command line run, are shown only when verbose.
func SetupLogging(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

type commonFlag struct {
	set, init func()
	use       bool
}

var commonFlags = map[string]*commonFlag{
	"verbose": {
		set: func() {
			flag.BoolVar(&FlagVerbose, "verbose", FlagVerbose,
				"When set, external programs write to stderr and every\n"+
					"command line is logged.")
		},
		init: func() {
			SetupLogging(FlagVerbose)
		},
	},
	"gkm-exec": {
		set: func() {
			flag.StringVar(&FlagGkmExec, "gkm-exec", FlagGkmExec,
				"The directory containing gkmsvm_kernel, gkmsvm_train and\n"+
					"gkmsvm_classify. When empty, they are found in PATH.")
		},
		init: func() {
			gkmsvm.ExecDir = FlagGkmExec
		},
	},
	"timeout": {
		set: func() {
			flag.DurationVar(&FlagTimeout, "timeout", FlagTimeout,
				"Kill any external program running longer than this.")
		},
	},
}

func FlagUse(names ...string) {
	for _, name := range names {
		commonFlags[name].use = true
	}
}

// Usage just calls `flag.Usage`. It's included here to avoid
// an extra import to `flag` just to call Usage.
func Usage() {
	flag.Usage()
}

func FlagParse(positional string, desc string) {
	for _, fl := range commonFlags {
		if fl.use {
			fl.set()
		}
	}

	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage: %s [flags] %s\n\n",
			path.Base(os.Args[0]), positional)
		if len(desc) > 0 {
			fmt.Fprintf(w, "%s\n\n", desc)
		}
		flag.VisitAll(func(fl *flag.Flag) {
			var def string
			if len(fl.DefValue) > 0 {
				def = fmt.Sprintf(" (default: %s)", fl.DefValue)
			}

			usage := strings.Replace(fl.Usage, "\n", "\n    ", -1)
			fmt.Fprintf(w, "-%s%s\n", fl.Name, def)
			fmt.Fprintf(w, "    %s\n", usage)
		})
		os.Exit(1)
	}
	flag.Parse()

	for _, fl := range commonFlags {
		if fl.use && fl.init != nil {
			fl.init()
		}
	}
}
