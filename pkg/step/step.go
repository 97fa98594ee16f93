package step

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/stepdriver-dev/stepdriver/pkg/core"
)

// Step is a parsed action step: a verb plus its raw argument text.
// Argument grammar beyond the verb is handler-specific and parsed at
// dispatch time.
type Step struct {
	Verb Verb
	Args string
	Raw  string
}

// Parse splits a bound step into verb and arguments. The first
// whitespace-delimited token is the verb, matched case-insensitively;
// everything after it is passed through verbatim.
func Parse(raw string) (Step, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Step{}, core.ErrEmptyStep
	}

	token, rest := trimmed, ""
	if idx := strings.IndexFunc(trimmed, unicode.IsSpace); idx >= 0 {
		token, rest = trimmed[:idx], trimmed[idx:]
	}
	verb, ok := ParseVerb(token)
	if !ok {
		return Step{}, core.ErrUnknownAction.WithMessage(
			fmt.Sprintf("unknown action %q in step %q", token, trimmed))
	}

	return Step{Verb: verb, Args: strings.TrimSpace(rest), Raw: trimmed}, nil
}
