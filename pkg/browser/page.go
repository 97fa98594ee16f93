package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/stepdriver-dev/stepdriver/pkg/core"
	"github.com/stepdriver-dev/stepdriver/pkg/logger"
)

// defaultTimeout bounds every page operation that carries no explicit
// timeout of its own.
const defaultTimeout = 30 * time.Second

// Page drives one Chrome tab. It implements core.Page.
type Page struct {
	ctx context.Context
	log *logger.Logger
}

func (p *Page) run(timeout time.Duration, actions ...chromedp.Action) error {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Navigate loads the URL and waits for the document to be ready.
func (p *Page) Navigate(url string) error {
	return p.run(60*time.Second,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// URL returns the current page location. An empty string means the
// page could not be queried.
func (p *Page) URL() string {
	var url string
	if err := p.run(0, chromedp.Location(&url)); err != nil {
		p.log.Warn("could not read page location: %v", err)
		return ""
	}
	return url
}

func (p *Page) Click(locator string, timeout time.Duration) error {
	sel, opt := kindOf(locator)
	return p.run(timeout, chromedp.Click(sel, opt))
}

// Fill sets the value of the input matching the locator, replacing any
// existing content.
func (p *Page) Fill(locator, value string) error {
	sel, opt := kindOf(locator)
	return p.run(0, chromedp.SetValue(sel, value, opt))
}

// SelectOption selects a native <select> option by its visible label.
// Fails when the element is not a select or has no matching option,
// letting the caller fall back to click-driven selection.
func (p *Page) SelectOption(locator, label string) error {
	js := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) throw new Error('element not found');
		if (el.tagName !== 'SELECT') throw new Error('not a select element');
		for (const opt of el.options) {
			if (opt.label === %s || opt.text === %s) {
				el.value = opt.value;
				el.dispatchEvent(new Event('input', {bubbles: true}));
				el.dispatchEvent(new Event('change', {bubbles: true}));
				return true;
			}
		}
		throw new Error('no option with label ' + %s);
	})()`, resolveJS(locator), strconv.Quote(label), strconv.Quote(label), strconv.Quote(label))

	var ok bool
	return p.run(0, chromedp.Evaluate(js, &ok))
}

// Hover dispatches pointer-over events on the element. Chrome's
// devtools protocol has no first-class hover, so the events are
// synthesized in the page.
func (p *Page) Hover(locator string) error {
	js := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) throw new Error('element not found');
		for (const type of ['mouseover', 'mouseenter', 'mousemove']) {
			el.dispatchEvent(new MouseEvent(type, {bubbles: true}));
		}
		return true;
	})()`, resolveJS(locator))

	var ok bool
	return p.run(0, chromedp.Evaluate(js, &ok))
}

func (p *Page) Check(locator string) error   { return p.setChecked(locator, true) }
func (p *Page) Uncheck(locator string) error { return p.setChecked(locator, false) }

func (p *Page) setChecked(locator string, checked bool) error {
	js := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) throw new Error('element not found');
		if (el.checked !== %t) {
			el.click();
		}
		if (el.checked !== %t) throw new Error('checkbox did not change state');
		return true;
	})()`, resolveJS(locator), checked, checked)

	var ok bool
	return p.run(0, chromedp.Evaluate(js, &ok))
}

// Press sends a key to the element matching the locator.
func (p *Page) Press(locator, key string) error {
	sel, opt := kindOf(locator)
	return p.run(0,
		chromedp.Focus(sel, opt),
		chromedp.KeyEvent(keySequence(key)),
	)
}

// PressGlobal sends a key to whatever currently has focus.
func (p *Page) PressGlobal(key string) error {
	return p.run(0, chromedp.KeyEvent(keySequence(key)))
}

// keySequence maps the step grammar's key names onto the control
// runes chromedp expects. Unrecognized names are sent as typed text.
var namedKeys = map[string]string{
	"enter":      kb.Enter,
	"tab":        kb.Tab,
	"escape":     kb.Escape,
	"backspace":  kb.Backspace,
	"delete":     kb.Delete,
	"arrowup":    kb.ArrowUp,
	"arrowdown":  kb.ArrowDown,
	"arrowleft":  kb.ArrowLeft,
	"arrowright": kb.ArrowRight,
}

func keySequence(key string) string {
	if seq, ok := namedKeys[normalizeKey(key)]; ok {
		return seq
	}
	return key
}

func normalizeKey(key string) string {
	out := make([]rune, 0, len(key))
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if r != ' ' {
			out = append(out, r)
		}
	}
	return string(out)
}

// Evaluate runs a script in the page and returns its JSON-serializable
// result.
func (p *Page) Evaluate(script string) (any, error) {
	var result any
	if err := p.run(0, chromedp.Evaluate(script, &result)); err != nil {
		return nil, err
	}
	return result, nil
}

// Screenshot captures the full page as PNG at the given path.
func (p *Page) Screenshot(path string) error {
	var buf []byte
	capture := chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = cdppage.CaptureScreenshot().
			WithCaptureBeyondViewport(true).
			Do(ctx)
		return err
	})
	if err := p.run(0, capture); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf, 0644)
}

func (p *Page) Reload() error {
	return p.run(60*time.Second,
		chromedp.Reload(),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// WaitForLoadState blocks until the document reaches the state. The
// devtools protocol has no network-idle signal, so "networkidle" is
// approximated as document-complete plus a settle interval.
func (p *Page) WaitForLoadState(state string) error {
	err := p.run(60*time.Second,
		chromedp.Poll("document.readyState === 'complete'", nil,
			chromedp.WithPollingInterval(100*time.Millisecond)),
	)
	if err != nil {
		return err
	}
	if state == core.LoadStateNetworkIdle {
		time.Sleep(500 * time.Millisecond)
	}
	return nil
}

// Element returns a lazy handle; resolution happens on first use.
func (p *Page) Element(locator string) core.Element {
	return &element{page: p, locator: locator}
}

type element struct {
	page    *Page
	locator string
}

func (e *element) WaitFor(state string, timeout time.Duration) error {
	sel, opt := kindOf(e.locator)
	switch state {
	case core.StateVisible:
		return e.page.run(timeout, chromedp.WaitVisible(sel, opt))
	case core.StateHidden:
		return e.page.run(timeout, chromedp.WaitNotVisible(sel, opt))
	default:
		return fmt.Errorf("unknown element state %q", state)
	}
}

func (e *element) IsEnabled() (bool, error) {
	return e.boolProp("!el.disabled")
}

func (e *element) IsChecked() (bool, error) {
	return e.boolProp("!!el.checked")
}

func (e *element) boolProp(expr string) (bool, error) {
	js := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) throw new Error('element not found');
		return %s;
	})()`, resolveJS(e.locator), expr)

	var result bool
	if err := e.page.run(0, chromedp.Evaluate(js, &result)); err != nil {
		return false, err
	}
	return result, nil
}

func (e *element) InnerText() (string, error) {
	sel, opt := kindOf(e.locator)
	var text string
	if err := e.page.run(0, chromedp.Text(sel, &text, opt)); err != nil {
		return "", err
	}
	return text, nil
}

func (e *element) InputValue() (string, error) {
	sel, opt := kindOf(e.locator)
	var value string
	if err := e.page.run(0, chromedp.Value(sel, &value, opt)); err != nil {
		return "", err
	}
	return value, nil
}
