package fastsk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/QData/iGakco-SVM/dataset"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeFastsk writes a prediction for each of the four test sequences when
// asked to with -p.
const fakeFastsk = `while [ $# -gt 2 ]; do
  if [ "$1" = "-p" ]; then
    printf '1 1.5\n0 -0.5\n1 -0.1\n0 0.2\n' > "$2"
  fi
  shift
done`

const testFasta = ">1\nACGTACGT\n>0\nTTTTACGT\n>1\nACGTAAAA\n>0\nGGGGCCCC\n"

func setup(t *testing.T, body string) (Config, dataset.LabeledFiles) {
	t.Helper()
	dir := t.TempDir()
	exec := filepath.Join(dir, "fastsk")
	require.NoError(t, os.WriteFile(exec, []byte("#!/bin/sh\n"+body+"\n"), 0755))

	files := dataset.NewLabeledFiles(dir, "EP300")
	require.NoError(t, os.WriteFile(files.Train, []byte(testFasta), 0644))
	require.NoError(t, os.WriteFile(files.Test, []byte(testFasta), 0644))

	conf := DefaultConfig
	conf.Exec = exec
	conf.G, conf.M = 8, 4
	return conf, files
}

func TestArgs(t *testing.T) {
	files := dataset.LabeledFiles{Train: "tr.fa", Test: "te.fa"}

	conf := DefaultConfig
	conf.G, conf.M = 8, 4
	assert.Equal(t,
		strings.Fields("-a -g 8 -m 4 -t 1 -I 70 -d 0.025 tr.fa te.fa"),
		conf.Args(files, ""))

	conf.Threads = 20
	conf.MaxIters = 50
	conf.SkipVariance = true
	conf.C = 0.01
	assert.Equal(t,
		strings.Fields("-a -q -g 8 -m 4 -t 20 -I 50 -d 0.025 -C 0.01 "+
			"-p p.out tr.fa te.fa"),
		conf.Args(files, "p.out"))

	conf.Approx = false
	assert.Equal(t,
		strings.Fields("-g 8 -m 4 -t 20 tr.fa te.fa"),
		conf.Args(files, ""))
}

func TestTrainAndTest(t *testing.T) {
	conf, files := setup(t, fakeFastsk)

	m, err := conf.TrainAndTest(context.Background(), files)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, m.Accuracy, 1e-12)
	assert.InDelta(t, 0.75, m.AUC, 1e-12)

	// Predictions are kept when a file is named.
	conf.PredictionsFile = filepath.Join(t.TempDir(), "keep.out")
	_, err = conf.TrainAndTest(context.Background(), files)
	require.NoError(t, err)
	assert.FileExists(t, conf.PredictionsFile)
}

func TestTrainAndTestCountMismatch(t *testing.T) {
	conf, files := setup(t, `while [ $# -gt 2 ]; do
  if [ "$1" = "-p" ]; then printf '1 1.5\n' > "$2"; fi
  shift
done`)
	_, err := conf.TrainAndTest(context.Background(), files)
	assert.Error(t, err)
}

func TestTime(t *testing.T) {
	conf, files := setup(t, fakeFastsk)
	timing, err := conf.Time(context.Background(), files)
	require.NoError(t, err)
	assert.False(t, timing.TimedOut)

	conf, files = setup(t, "exec sleep 10")
	conf.Timeout = 100 * time.Millisecond
	timing, err = conf.Time(context.Background(), files)
	require.NoError(t, err)
	assert.True(t, timing.TimedOut)

	conf, files = setup(t, "exit 1")
	_, err = conf.Time(context.Background(), files)
	assert.Error(t, err)
}
