package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stepdriver-dev/stepdriver/pkg/actions"
	"github.com/stepdriver-dev/stepdriver/pkg/core"
	"github.com/stepdriver-dev/stepdriver/pkg/logger"
	"github.com/stepdriver-dev/stepdriver/pkg/step"
	"github.com/stepdriver-dev/stepdriver/pkg/testcase"
)

// runCase executes one test case against an established page session.
// The state machine is READY -> RUNNING -> {PASSED, FAILED}; ERROR is
// decided one level up, at the unit-of-work boundary. Steps run in
// order and the first failure halts the case.
func (r *Runner) runCase(page core.Page, tc testcase.TestCase) core.CaseResult {
	result := core.CaseResult{
		TestID:   tc.ID,
		TestName: tc.Name,
		File:     tc.File,
		Status:   core.StatusReady,
	}

	log, logPath := r.caseLogger(tc.ID)
	defer log.Close()
	result.LogFile = logPath

	log.Info("Starting execution of test case: [%s] %s", tc.ID, tc.Name)

	acts := actions.New(page, r.cfg.Objects, log, actions.Options{
		ScreenshotDir: r.cfg.ScreenshotDir,
	})
	ctx := step.NewContext()

	// The pre-run capture doubles as the artifact link for passed
	// cases; a failure capture later replaces it.
	if path := r.capture(page, log, fmt.Sprintf("before_%s_%d.png", tc.ID, time.Now().Unix())); path != "" {
		result.ScreenshotPath = path
	}

	result.Status = core.StatusRunning
	start := time.Now()

	for i, raw := range tc.Steps {
		stepNum := i + 1
		log.Info("Executing Step %d: %s", stepNum, raw)

		stepStart := time.Now()
		err := acts.Execute(raw, ctx)
		elapsed := time.Since(stepStart).Seconds()

		if err == nil {
			log.Info("Step %d passed (%.2fs)", stepNum, elapsed)
			continue
		}

		log.Error("Step %d failed (%.2fs): %v", stepNum, elapsed, err)
		result.Status = core.StatusFailed
		result.FailedSteps = append(result.FailedSteps, fmt.Sprintf("Step %d: %s", stepNum, raw))

		failureShot := fmt.Sprintf("failure_%s_step%d_%d.png", tc.ID, stepNum, time.Now().Unix())
		if path := r.capture(page, log, failureShot); path != "" {
			result.ScreenshotPath = path
		}
		break
	}
	result.ExecutionTime = time.Since(start).Seconds()

	r.capture(page, log, fmt.Sprintf("after_%s_%d.png", tc.ID, time.Now().Unix()))

	if result.Status == core.StatusRunning {
		result.Status = core.StatusPassed
		log.Info("Test case [%s] %s PASSED (Execution time: %.2fs)", tc.ID, tc.Name, result.ExecutionTime)
	} else {
		log.Error("Test case [%s] %s FAILED (Execution time: %.2fs)", tc.ID, tc.Name, result.ExecutionTime)
	}
	return result
}

// caseLogger opens the per-case log file. If the file cannot be
// created the case still runs, just without its own log.
func (r *Runner) caseLogger(testID string) (*logger.Logger, string) {
	if err := os.MkdirAll(r.cfg.LogDir, 0755); err != nil {
		return logger.Discard(), ""
	}
	path := filepath.Join(r.cfg.LogDir, fmt.Sprintf("test_%s_%d.log", testID, time.Now().Unix()))
	log, err := logger.New(path)
	if err != nil {
		return logger.Discard(), ""
	}
	return log, path
}

// capture takes an artifact screenshot. Artifact capture never fails a
// test case; a broken screenshot is logged and execution continues.
func (r *Runner) capture(page core.Page, log *logger.Logger, name string) string {
	if err := os.MkdirAll(r.cfg.ScreenshotDir, 0755); err != nil {
		log.Warn("could not create screenshot directory: %v", err)
		return ""
	}
	path := filepath.Join(r.cfg.ScreenshotDir, name)
	if err := page.Screenshot(path); err != nil {
		log.Warn("screenshot failed: %v", err)
		return ""
	}
	log.Info("Screenshot saved: %s", path)
	return path
}
