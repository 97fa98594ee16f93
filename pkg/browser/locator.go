// Package browser implements the page capability on chromedp, driving
// a real Chrome instance over the DevTools protocol.
package browser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chromedp/chromedp"
)

// kindOf classifies a locator string. XPath expressions start with a
// slash or parenthesis; "text=..." is a contains-match over visible
// text; everything else is treated as CSS.
func kindOf(locator string) (sel string, opt chromedp.QueryOption) {
	switch {
	case strings.HasPrefix(locator, "text="):
		text := strings.TrimPrefix(locator, "text=")
		return fmt.Sprintf("//*[contains(normalize-space(text()), %s)]", xpathString(text)), chromedp.BySearch
	case strings.HasPrefix(locator, "/"), strings.HasPrefix(locator, "("):
		return locator, chromedp.BySearch
	default:
		return locator, chromedp.ByQuery
	}
}

// resolveJS builds a JavaScript expression evaluating to the first
// element matching the locator, or null.
func resolveJS(locator string) string {
	switch {
	case strings.HasPrefix(locator, "text="):
		text := strings.TrimPrefix(locator, "text=")
		xpath := fmt.Sprintf("//*[contains(normalize-space(text()), %s)]", xpathString(text))
		return xpathJS(xpath)
	case strings.HasPrefix(locator, "/"), strings.HasPrefix(locator, "("):
		return xpathJS(locator)
	default:
		return fmt.Sprintf("document.querySelector(%s)", strconv.Quote(locator))
	}
}

func xpathJS(xpath string) string {
	return fmt.Sprintf(
		"document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue",
		strconv.Quote(xpath))
}

// xpathString quotes a literal for embedding in an XPath expression.
// XPath 1.0 has no escaping, so values containing single quotes need a
// concat() of alternating quote styles.
func xpathString(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
