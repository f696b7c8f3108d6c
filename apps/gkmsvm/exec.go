package gkmsvm

import (
	"os"
	"path/filepath"
	"strconv"
)

// The directory containing the gkm-SVM executables. Relative executable
// names are resolved against it. When empty, executables are found through
// PATH.
var ExecDir = os.Getenv("GKMSVM_DIR")

// An Exec names a gkm-SVM executable, e.g., Exec("gkmsvm_kernel").
//
// If the name is an absolute path, it is used unaltered.
type Exec string

// Resolve expands an Exec value to a full path using ExecDir.
func (e Exec) Resolve() string {
	if len(ExecDir) == 0 || filepath.IsAbs(string(e)) {
		return string(e)
	}
	return filepath.Join(ExecDir, string(e))
}

// kmerArgs are the gapped k-mer parameters shared by the kernel and
// classification programs: the word length l = g, the number of
// informative positions k = g - m and the number of mismatches d.
func kmerArgs(g, m, d int, reverse bool, dict string) []string {
	args := []string{
		"-l", strconv.Itoa(g),
		"-k", strconv.Itoa(g - m),
		"-d", strconv.Itoa(d),
	}
	if reverse {
		args = append(args, "-R")
	}
	if len(dict) > 0 {
		args = append(args, "-A", dict)
	}
	return args
}
