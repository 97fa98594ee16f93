// Package executor runs test cases against browser sessions with a
// fixed-size worker pool.
package executor

import (
	"fmt"
	"sync"

	"github.com/stepdriver-dev/stepdriver/pkg/core"
	"github.com/stepdriver-dev/stepdriver/pkg/logger"
	"github.com/stepdriver-dev/stepdriver/pkg/objects"
	"github.com/stepdriver-dev/stepdriver/pkg/testcase"
)

// Parallelism modes.
const (
	ModeFile = "file" // One session per spreadsheet, cases sequential within it
	ModeCase = "case" // One session per test case
)

// Config holds the executor settings shared by all workers.
type Config struct {
	Workers       int
	Mode          string // ModeFile or ModeCase
	ScreenshotDir string
	LogDir        string
	Objects       *objects.Repository
	Log           *logger.Logger // Run-level logger

	// OnCaseDone, when set, is invoked once per finished test case.
	// It may be called from multiple workers concurrently.
	OnCaseDone func(core.CaseResult)
}

// Runner coordinates parallel execution of test-case files.
type Runner struct {
	cfg     Config
	factory SessionFactory
}

// New creates a runner. The factory opens one signed-in session per
// unit of work.
func New(factory SessionFactory, cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeFile
	}
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}
	return &Runner{cfg: cfg, factory: factory}
}

// workUnit is one schedulable unit: a whole file in ModeFile, a single
// test case in ModeCase.
type workUnit struct {
	file  string
	cases []testcase.TestCase
}

// Run loads every file, schedules the units across the worker pool,
// and returns the collected results. Load failures and session
// failures surface as ERROR entries; they never abort sibling units.
func (r *Runner) Run(files []string) core.Results {
	var units []workUnit
	var results core.Results

	for _, file := range files {
		cases, err := testcase.Load(file)
		if err != nil {
			r.cfg.Log.Error("Error loading test cases from %s: %v", file, err)
			results = append(results, core.CaseResult{
				TestID:   file,
				TestName: "load " + file,
				File:     file,
				Status:   core.StatusError,
				Error:    err.Error(),
			})
			continue
		}

		enabled := cases[:0]
		for _, tc := range cases {
			if tc.Enabled {
				enabled = append(enabled, tc)
			}
		}
		r.cfg.Log.Info("Loaded %d enabled test cases from %s", len(enabled), file)

		if r.cfg.Mode == ModeCase {
			for _, tc := range enabled {
				units = append(units, workUnit{file: file, cases: []testcase.TestCase{tc}})
			}
		} else if len(enabled) > 0 {
			units = append(units, workUnit{file: file, cases: enabled})
		}
	}
	r.cfg.Log.Info("Total units to execute: %d (%d workers, %s mode)", len(units), r.cfg.Workers, r.cfg.Mode)

	queue := make(chan workUnit, len(units))
	for _, u := range units {
		queue <- u
	}
	close(queue)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for unit := range queue {
				unitResults := r.runUnit(unit)
				mu.Lock()
				results = append(results, unitResults...)
				mu.Unlock()

				for _, res := range unitResults {
					r.cfg.Log.Info("Completed test case: [%s] %s - %s", res.TestID, res.TestName, res.Status)
					if r.cfg.OnCaseDone != nil {
						r.cfg.OnCaseDone(res)
					}
				}
			}
		}()
	}
	wg.Wait()

	return results
}

// runUnit opens a session, runs the unit's cases sequentially, and
// closes the session. Session failures mark every case of the unit as
// ERROR. A panic marks only the panicking case and the cases that never
// got to run; results recorded before it stand. Nothing propagates to
// the worker pool.
func (r *Runner) runUnit(unit workUnit) (results core.Results) {
	defer func() {
		if rec := recover(); rec != nil {
			r.cfg.Log.Error("Panic executing unit %s: %v", unit.file, rec)
			remaining := unit.cases[len(results):]
			results = append(results, errorResults(remaining, fmt.Sprintf("panic: %v", rec))...)
		}
	}()

	session, err := r.factory()
	if err != nil {
		r.cfg.Log.Error("Session setup failed for %s: %v", unit.file, err)
		return errorResults(unit.cases, core.ErrSessionSetup.WithCause(err).Error())
	}
	defer func() {
		if err := session.Close(); err != nil {
			r.cfg.Log.Error("Error during cleanup: %v", err)
		}
	}()

	for _, tc := range unit.cases {
		results = append(results, r.runCase(session.Page(), tc))
	}
	return results
}

func errorResults(cases []testcase.TestCase, msg string) core.Results {
	results := make(core.Results, 0, len(cases))
	for _, tc := range cases {
		results = append(results, core.CaseResult{
			TestID:   tc.ID,
			TestName: tc.Name,
			File:     tc.File,
			Status:   core.StatusError,
			Error:    msg,
		})
	}
	return results
}
