package executor

import "github.com/stepdriver-dev/stepdriver/pkg/core"

// Session owns one isolated browser context and page, end to end. No
// UI session is ever shared across concurrent units of work.
type Session interface {
	Page() core.Page
	Close() error
}

// SessionFactory opens a fresh, signed-in session. Called once per
// unit of work; a factory error surfaces the unit as ERROR.
type SessionFactory func() (Session, error)
