/*
Package gkmsvm provides convenient wrappers for running the programs of the
gkm-SVM toolkit: gkmsvm_kernel, gkmsvm_train and gkmsvm_classify.

gkm-SVM is the baseline that the approximate kernel is benchmarked
against. The programs are treated as black boxes: they are given command
line arguments, they write output files and they report failure through a
non-zero exit status.

The $GKMSVM_DIR environment variable is used to find the programs. i.e., an
executable named "gkmsvm_kernel" resolves to $GKMSVM_DIR/gkmsvm_kernel. If
$GKMSVM_DIR is not set, the programs are looked up in your PATH. Change the
global variable ExecDir to use a different location.

Only the options needed by the experiments are exposed. Options can be
added on an as-needed basis.
*/
package gkmsvm
