package actions

import (
	"regexp"
	"strings"
	"sync"
)

var keywordPatterns sync.Map // keyword -> *regexp.Regexp

// keywordPattern compiles (and caches) the whitespace-bounded pattern
// for a grammar keyword. Multi-word keywords like "to be" tolerate any
// whitespace run between their words.
func keywordPattern(keyword string) *regexp.Regexp {
	if re, ok := keywordPatterns.Load(keyword); ok {
		return re.(*regexp.Regexp)
	}
	words := strings.Fields(keyword)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`\s+` + strings.Join(words, `\s+`) + `\s+`)
	keywordPatterns.Store(keyword, re)
	return re
}

// splitKeyword splits args at the first occurrence of the keyword as a
// standalone word, returning the trimmed halves. Sub-grammars like
// "fill <field> with <value>" and "select <option> from <dropdown>"
// all reduce to this. Any whitespace, not just single spaces, bounds
// the keyword.
func splitKeyword(args, keyword string) (left, right string, ok bool) {
	loc := keywordPattern(keyword).FindStringIndex(args)
	if loc == nil {
		return "", "", false
	}
	left = strings.TrimSpace(args[:loc[0]])
	right = strings.TrimSpace(args[loc[1]:])
	return left, right, true
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
