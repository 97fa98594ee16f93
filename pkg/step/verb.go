// Package step parses natural-language action steps into verb and
// arguments, and binds run-scoped variables before parsing.
package step

import "strings"

// Verb is the leading keyword of an action step.
type Verb string

// Supported verbs.
const (
	VerbClick      Verb = "click"
	VerbFill       Verb = "fill"
	VerbSelect     Verb = "select"
	VerbVerify     Verb = "verify"
	VerbWait       Verb = "wait"
	VerbNavigate   Verb = "navigate"
	VerbScreenshot Verb = "screenshot"
	VerbStore      Verb = "store"
	VerbHover      Verb = "hover"
	VerbPress      Verb = "press"
	VerbCheck      Verb = "check"
	VerbUncheck    Verb = "uncheck"
	VerbRefresh    Verb = "refresh"
	VerbExecute    Verb = "execute"
	VerbFind       Verb = "find"
)

var verbs = map[Verb]bool{
	VerbClick:      true,
	VerbFill:       true,
	VerbSelect:     true,
	VerbVerify:     true,
	VerbWait:       true,
	VerbNavigate:   true,
	VerbScreenshot: true,
	VerbStore:      true,
	VerbHover:      true,
	VerbPress:      true,
	VerbCheck:      true,
	VerbUncheck:    true,
	VerbRefresh:    true,
	VerbExecute:    true,
	VerbFind:       true,
}

// ParseVerb matches a token against the verb set, case-insensitively.
func ParseVerb(token string) (Verb, bool) {
	v := Verb(strings.ToLower(token))
	return v, verbs[v]
}
