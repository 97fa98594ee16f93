package step

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/stepdriver-dev/stepdriver/pkg/logger"
)

// Context carries variables scoped to a single test case. Values set
// by one step are visible to later steps of the same case and nowhere
// else.
type Context map[string]string

// NewContext returns an empty variable context.
func NewContext() Context {
	return make(Context)
}

var nameFieldValue = regexp.MustCompile(`with\s+"([^"]*)"`)

// Bind substitutes variables into a raw step before parsing.
//
// ${RANDOM} expands to the current unix timestamp; every occurrence in
// one step gets the same value. When the step fills a "... Name Field"
// the expanded value is captured into the context under
// current_<fieldtype>_name so later steps can refer back to it.
// ${var} references resolve from the context; unknown variables are
// left in place rather than failing the step.
func Bind(raw string, ctx Context, log *logger.Logger) string {
	if log == nil {
		log = logger.Discard()
	}
	bound := raw

	if strings.Contains(bound, "${RANDOM}") {
		stamp := strconv.FormatInt(time.Now().Unix(), 10)
		bound = strings.ReplaceAll(bound, "${RANDOM}", stamp)

		// A generated record name is worth remembering: capture the
		// value filled into "<Type> Name Field" under
		// current_<type>_name for later lookups.
		if strings.Contains(bound, "Name Field with") {
			if m := nameFieldValue.FindStringSubmatch(bound); m != nil {
				before, _, _ := strings.Cut(bound, "Name Field")
				words := strings.Fields(before)
				if len(words) > 0 {
					fieldType := strings.ToLower(words[len(words)-1])
					ctx["current_"+fieldType+"_name"] = m[1]
					log.Info("Stored dynamic %s name: %s", fieldType, m[1])
				}
			}
		}
	}

	original := bound
	for name, value := range ctx {
		placeholder := "${" + name + "}"
		if strings.Contains(bound, placeholder) {
			bound = strings.ReplaceAll(bound, placeholder, value)
			log.Debug("Replaced %s with '%s'", placeholder, value)
		}
	}
	if original != bound {
		log.Debug("Original step: %s", original)
		log.Debug("After variable substitution: %s", bound)
	}
	return bound
}
