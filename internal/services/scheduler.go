package services

import (
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// ScheduledRunner re-runs an aggregation on a cron schedule. A tick that
// fires while the previous run is still going is skipped, never queued.
type ScheduledRunner struct {
	cron *cron.Cron
	spec string
	job  cron.Job
}

func NewScheduledRunner(spec string, run func()) (*ScheduledRunner, error) {

	if spec == "" {
		return nil, errors.New("cron spec must not be empty")
	}
	if run == nil {
		return nil, errors.New("run function is required")
	}

	// The schedule and the startup kick share one wrapped job, so the
	// still-running guard covers both.
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(cron.FuncJob(run))

	r := &ScheduledRunner{
		cron: cron.New(),
		spec: spec,
		job:  job,
	}

	if _, err := r.cron.AddJob(spec, job); err != nil {
		return nil, errors.Wrapf(err, "invalid cron spec %q", spec)
	}

	return r, nil
}

// Start launches the schedule and triggers one run right away, so a fresh
// deployment does not sit idle until the first tick.
func (r *ScheduledRunner) Start() {
	r.cron.Start()
	log.Infof("aggregation scheduled with spec %q", r.spec)
	go r.job.Run()
}

func (r *ScheduledRunner) Stop() {
	r.cron.Stop()
}
