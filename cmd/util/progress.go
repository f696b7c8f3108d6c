package util

import (
	"github.com/rs/zerolog/log"
)

// Progress reports on a fixed number of jobs as they finish. Failed jobs
// are logged and counted rather than stopping the rest.
type Progress struct {
	errs chan error
	done chan int
}

func NewProgress(total int) Progress {
	p := Progress{make(chan error), make(chan int)}
	go func() {
		completed := 0
		errorCount := 0
		for err := range p.errs {
			if err == nil {
				completed += 1
			} else {
				errorCount += 1
				log.Error().Err(err).Msg("Job failed")
			}

			ratio := 100.0 * (float64(completed) / float64(total))
			log.Info().Msgf("%d of %d jobs complete (%0.2f%% done, %d errors)",
				completed, total, ratio, errorCount)
		}
		p.done <- errorCount
	}()
	return p
}

func (p Progress) JobDone(err error) {
	p.errs <- err
}

// Close waits for the last report and returns the number of failed jobs.
func (p Progress) Close() int {
	close(p.errs)
	return <-p.done
}
