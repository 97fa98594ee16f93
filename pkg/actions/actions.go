// Package actions dispatches parsed steps to their handlers. One
// handler per verb; a handler converts its own failures into an error
// value carrying a readable message, so nothing escapes the dispatch
// boundary except parse failures (empty step, unknown verb).
package actions

import (
	"fmt"

	"github.com/stepdriver-dev/stepdriver/pkg/core"
	"github.com/stepdriver-dev/stepdriver/pkg/logger"
	"github.com/stepdriver-dev/stepdriver/pkg/objects"
	"github.com/stepdriver-dev/stepdriver/pkg/step"
)

// Actions binds a page session, the locator repository, and a logger
// into a step execution unit. One Actions instance serves one browser
// session; it is not safe for concurrent use.
type Actions struct {
	page          core.Page
	repo          *objects.Repository
	log           *logger.Logger
	screenshotDir string
}

// Options configures an Actions instance.
type Options struct {
	ScreenshotDir string // Directory for screenshot-step captures, default "screenshots"
}

// New creates an Actions dispatcher over a page session.
func New(page core.Page, repo *objects.Repository, log *logger.Logger, opts Options) *Actions {
	if log == nil {
		log = logger.Discard()
	}
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = "screenshots"
	}
	return &Actions{
		page:          page,
		repo:          repo,
		log:           log,
		screenshotDir: opts.ScreenshotDir,
	}
}

type handlerFunc func(a *Actions, args string, ctx step.Context) error

// handlers maps every verb to its implementation. The verb set is
// closed; adding a verb means adding a row here and a constant in the
// step package.
var handlers = map[step.Verb]handlerFunc{
	step.VerbClick:      (*Actions).click,
	step.VerbFill:       (*Actions).fill,
	step.VerbSelect:     (*Actions).selectOption,
	step.VerbVerify:     (*Actions).verify,
	step.VerbWait:       (*Actions).wait,
	step.VerbNavigate:   (*Actions).navigate,
	step.VerbScreenshot: (*Actions).screenshot,
	step.VerbStore:      (*Actions).store,
	step.VerbHover:      (*Actions).hover,
	step.VerbPress:      (*Actions).press,
	step.VerbCheck:      (*Actions).check,
	step.VerbUncheck:    (*Actions).uncheck,
	step.VerbRefresh:    (*Actions).refresh,
	step.VerbExecute:    (*Actions).execute,
	step.VerbFind:       (*Actions).find,
}

// Execute binds variables into the raw step, parses it, and dispatches
// to the verb's handler. A nil return means the step succeeded. Every
// failure, parse or handler, comes back as an error value; the caller
// treats them uniformly as a failed step.
func (a *Actions) Execute(raw string, ctx step.Context) error {
	bound := step.Bind(raw, ctx, a.log)
	a.log.Info("Executing action: %s", bound)

	s, err := step.Parse(bound)
	if err != nil {
		a.log.Error("Error executing action '%s': %v", bound, err)
		return err
	}

	if err := handlers[s.Verb](a, s.Args, ctx); err != nil {
		a.log.Error("Error executing action '%s': %v", bound, err)
		return err
	}
	return nil
}

func stepError(format string, v ...interface{}) error {
	return core.NewExecutionError(core.CategoryStep, "step_failed", fmt.Sprintf(format, v...))
}
