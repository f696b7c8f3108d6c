package gkmsvm

import (
	"context"
	"strconv"
	"time"

	"github.com/QData/iGakco-SVM/apps/proc"
)

type KernelConfig struct {
	Exec Exec

	// Value of the '-a' option.
	Algorithm int

	// Gapped word length and number of mismatches.
	G, M int

	// When positive, the mismatch count passed as '-d' is capped at this
	// value. This is how gkm-SVM approximates the full kernel.
	MaxMismatch int

	// Number of threads ('-T'). Zero leaves the program's default.
	Threads int

	// Alphabet dictionary file ('-A'). Not needed for DNA.
	Dict string

	// Include reverse complements ('-R').
	Reverse bool

	Timeout time.Duration

	// When true, the program's stdout and stderr will be mapped to the
	// current processes' stderr.
	Verbose bool
}

var KernelDefault = KernelConfig{
	Exec:      "gkmsvm_kernel",
	Algorithm: 2,
	Reverse:   true,
}

// Mismatches returns the value passed as '-d'.
func (conf KernelConfig) Mismatches() int {
	if conf.MaxMismatch > 0 && conf.M > conf.MaxMismatch {
		return conf.MaxMismatch
	}
	return conf.M
}

// Args returns the arguments to the kernel program for the given input
// FASTA files and output kernel file.
func (conf KernelConfig) Args(posFasta, negFasta, kernelOut string) []string {
	args := []string{"-a", strconv.Itoa(conf.Algorithm)}
	args = append(args,
		kmerArgs(conf.G, conf.M, conf.Mismatches(), conf.Reverse, conf.Dict)...)
	if conf.Threads > 0 {
		args = append(args, "-T", strconv.Itoa(conf.Threads))
	}
	return append(args, posFasta, negFasta, kernelOut)
}

// Run computes the kernel matrix of the sequences in posFasta and negFasta
// and writes it to kernelOut. The wall clock time taken by the kernel
// program is returned.
//
// If the program runs longer than Timeout, the error wraps proc.ErrTimeout.
func (conf KernelConfig) Run(
	ctx context.Context,
	posFasta, negFasta, kernelOut string,
) (time.Duration, error) {
	c := proc.Command{
		Path:    conf.Exec.Resolve(),
		Args:    conf.Args(posFasta, negFasta, kernelOut),
		Timeout: conf.Timeout,
		Verbose: conf.Verbose,
	}
	return c.Run(ctx)
}
