package actions

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/stepdriver-dev/stepdriver/pkg/core"
	"github.com/stepdriver-dev/stepdriver/pkg/step"
)

// Timeout ceilings per operation kind.
const (
	verifyTimeout  = 10 * time.Second
	waitTimeout    = 30 * time.Second
	dropdownSettle = 500 * time.Millisecond
	findFirstTry   = 5 * time.Second
	findRetry      = 30 * time.Second
)

// click resolves the object and clicks it. An optional clause
// "with k1=v1,k2=v2" substitutes template parameters; values naming a
// context variable resolve from the context.
func (a *Actions) click(args string, ctx step.Context) error {
	locator, err := a.resolveClickTarget(args, ctx)
	if err != nil {
		return err
	}
	a.log.Debug("Using locator: %s", locator)
	if err := a.page.Click(locator, 0); err != nil {
		return stepError("failed to click on '%s': %v", args, err)
	}
	a.log.Info("Successfully clicked on '%s'", args)
	return nil
}

func (a *Actions) resolveClickTarget(args string, ctx step.Context) (string, error) {
	if !strings.Contains(args, "=") {
		return a.repo.Resolve(args)
	}
	name, paramStr, ok := splitKeyword(args, "with")
	if !ok {
		return a.repo.Resolve(args)
	}

	params := make(map[string]string)
	for _, pair := range strings.Split(paramStr, ",") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if ctxValue, ok := ctx[value]; ok {
			params[key] = ctxValue
		} else {
			params[key] = unquote(value)
		}
	}
	a.log.Debug("Dynamic parameters: %v", params)
	return a.repo.ResolveWithParams(name, params)
}

// fill clears the field and sets the value. Grammar: <field> with <value>.
func (a *Actions) fill(args string, ctx step.Context) error {
	field, value, ok := splitKeyword(args, "with")
	if !ok {
		return core.ErrInvalidFormat.WithMessage(
			fmt.Sprintf("invalid fill format, expected 'fill [field] with [value]', got '%s'", args))
	}
	value = unquote(value)

	locator, err := a.repo.Resolve(field)
	if err != nil {
		return err
	}
	a.log.Debug("Using locator for %s: %s", field, locator)

	if err := a.page.Fill(locator, ""); err != nil {
		return stepError("failed to clear '%s': %v", field, err)
	}
	if err := a.page.Fill(locator, value); err != nil {
		return stepError("failed to fill '%s': %v", field, err)
	}
	a.log.Info("Filled '%s' with '%s'", field, value)
	return nil
}

// selectOption picks an option from a dropdown. Grammar: <option> from
// <dropdown>. Native select-by-label first; on failure, click the
// dropdown, let it settle, then click the option by text and finally
// by a contains-match list item.
func (a *Actions) selectOption(args string, ctx step.Context) error {
	option, dropdown, ok := splitKeyword(args, "from")
	if !ok {
		return core.ErrInvalidFormat.WithMessage(
			fmt.Sprintf("invalid select format, expected 'select [option] from [dropdown]', got '%s'", args))
	}
	option = unquote(option)

	locator, err := a.repo.Resolve(dropdown)
	if err != nil {
		return err
	}

	if err := a.page.SelectOption(locator, option); err == nil {
		a.log.Info("Selected '%s' from '%s'", option, dropdown)
		return nil
	}

	if err := a.page.Click(locator, 0); err != nil {
		return stepError("failed to open dropdown '%s': %v", dropdown, err)
	}
	time.Sleep(dropdownSettle)

	if err := a.page.Click("text="+option, 0); err != nil {
		if err := a.page.Click(fmt.Sprintf("//li[contains(text(), '%s')]", option), 0); err != nil {
			return stepError("failed to select '%s' from '%s': %v", option, dropdown, err)
		}
	}
	a.log.Info("Selected '%s' from '%s'", option, dropdown)
	return nil
}

// verify asserts an element or text condition. Grammar: <object-or-text>
// is <condition>. An object name missing from the repository falls back
// to a literal text locator, so plain page text can be verified without
// a repository entry.
func (a *Actions) verify(args string, ctx step.Context) error {
	target, condition, ok := splitKeyword(args, "is")
	if !ok {
		return core.ErrInvalidFormat.WithMessage(
			fmt.Sprintf("invalid verify format, expected 'verify [object/text] is [condition]', got '%s'", args))
	}

	locator, err := a.repo.Resolve(target)
	if err != nil {
		locator = "text=" + unquote(target)
	}
	element := a.page.Element(locator)

	switch {
	case condition == "visible", condition == "available":
		if err := element.WaitFor(core.StateVisible, verifyTimeout); err != nil {
			return stepError("'%s' is not %s: %v", target, condition, err)
		}
	case condition == "not visible", condition == "invisible":
		if err := element.WaitFor(core.StateHidden, verifyTimeout); err != nil {
			return stepError("'%s' is still visible: %v", target, err)
		}
	case condition == "enabled":
		enabled, err := element.IsEnabled()
		if err != nil || !enabled {
			return stepError("'%s' is not enabled", target)
		}
	case condition == "disabled":
		enabled, err := element.IsEnabled()
		if err != nil || enabled {
			return stepError("'%s' is not disabled", target)
		}
	case condition == "checked":
		checked, err := element.IsChecked()
		if err != nil || !checked {
			return stepError("'%s' is not checked", target)
		}
	case condition == "unchecked":
		checked, err := element.IsChecked()
		if err != nil || checked {
			return stepError("'%s' is not unchecked", target)
		}
	case strings.HasPrefix(condition, "containing"):
		want := unquote(strings.TrimSpace(strings.TrimPrefix(condition, "containing")))
		text, err := element.InnerText()
		if err != nil {
			return stepError("could not read text of '%s': %v", target, err)
		}
		if !strings.Contains(text, want) {
			return stepError("'%s' does not contain '%s'", target, want)
		}
	default:
		return core.ErrUnknownCondition.WithMessage(
			fmt.Sprintf("unknown condition: %s", condition))
	}

	a.log.Info("Verified '%s' is %s", target, condition)
	return nil
}

// wait blocks for a duration or an element state. Grammar:
// "<N> seconds" or "for <element> to be <visible|invisible>".
func (a *Actions) wait(args string, ctx step.Context) error {
	if strings.HasSuffix(args, "seconds") || strings.HasSuffix(args, "second") {
		fields := strings.Fields(args)
		seconds, err := strconv.Atoi(fields[0])
		if err != nil {
			return core.ErrInvalidFormat.WithMessage(
				fmt.Sprintf("invalid wait duration: %s", args))
		}
		time.Sleep(time.Duration(seconds) * time.Second)
		a.log.Info("Waited for %d seconds", seconds)
		return nil
	}

	if strings.HasPrefix(args, "for ") {
		rest := strings.TrimPrefix(args, "for ")
		name, condition, ok := splitKeyword(rest, "to be")
		if !ok {
			return core.ErrInvalidFormat.WithMessage(
				fmt.Sprintf("invalid wait format, expected 'wait for [element] to be [condition]', got '%s'", args))
		}

		locator, err := a.repo.Resolve(name)
		if err != nil {
			return err
		}
		element := a.page.Element(locator)

		switch condition {
		case "visible":
			if err := element.WaitFor(core.StateVisible, waitTimeout); err != nil {
				return stepError("'%s' did not become visible: %v", name, err)
			}
		case "invisible", "not visible":
			if err := element.WaitFor(core.StateHidden, waitTimeout); err != nil {
				return stepError("'%s' did not become invisible: %v", name, err)
			}
		default:
			return core.ErrUnknownCondition.WithMessage(
				fmt.Sprintf("unknown wait condition: %s", condition))
		}
		a.log.Info("Waited for '%s' to be %s", name, condition)
		return nil
	}

	return core.ErrInvalidFormat.WithMessage(
		fmt.Sprintf("invalid wait format: %s", args))
}

// navigate loads a URL. Relative URLs resolve against the scheme and
// host of the current page.
func (a *Actions) navigate(args string, ctx step.Context) error {
	url := unquote(strings.TrimSpace(args))

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		base := baseURL(a.page.URL())
		if base == "" {
			return stepError("cannot resolve relative URL '%s': no current page", url)
		}
		url = base + "/" + strings.TrimLeft(url, "/")
	}

	if err := a.page.Navigate(url); err != nil {
		return stepError("navigation failed to '%s': %v", url, err)
	}
	a.log.Info("Navigated to %s", url)
	return nil
}

var schemeHost = regexp.MustCompile(`^(https?://[^/]+)`)

func baseURL(current string) string {
	if m := schemeHost.FindStringSubmatch(current); m != nil {
		return m[1]
	}
	return ""
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// screenshot captures the viewport. The filename comes from the
// sanitized description, or a timestamp when none is given.
func (a *Actions) screenshot(args string, ctx step.Context) error {
	name := strings.TrimSpace(args)
	if name != "" {
		name = unsafeFilename.ReplaceAllString(name, "_")
	} else {
		name = fmt.Sprintf("screenshot_%d", time.Now().Unix())
	}

	if err := os.MkdirAll(a.screenshotDir, 0755); err != nil {
		return stepError("failed to create screenshot directory: %v", err)
	}
	path := filepath.Join(a.screenshotDir, name+".png")
	if err := a.page.Screenshot(path); err != nil {
		return stepError("failed to take screenshot: %v", err)
	}
	a.log.Info("Screenshot saved to %s", path)
	return nil
}

// store writes a value into the context. Grammar: <expr> as <var>,
// with expr one of "text from <element>", "value from <element>", or a
// literal.
func (a *Actions) store(args string, ctx step.Context) error {
	expr, name, ok := splitKeyword(args, "as")
	if !ok {
		return core.ErrInvalidFormat.WithMessage(
			fmt.Sprintf("invalid store format, expected 'store [value] as [variable]', got '%s'", args))
	}

	var value string
	switch {
	case strings.HasPrefix(expr, "text from "):
		locator, err := a.repo.Resolve(strings.TrimPrefix(expr, "text from "))
		if err != nil {
			return err
		}
		value, err = a.page.Element(locator).InnerText()
		if err != nil {
			return stepError("failed to read text for store: %v", err)
		}
	case strings.HasPrefix(expr, "value from "):
		locator, err := a.repo.Resolve(strings.TrimPrefix(expr, "value from "))
		if err != nil {
			return err
		}
		value, err = a.page.Element(locator).InputValue()
		if err != nil {
			return stepError("failed to read value for store: %v", err)
		}
	default:
		value = unquote(expr)
	}

	ctx[name] = value
	a.log.Info("Stored '%s' as '%s'", value, name)
	return nil
}

func (a *Actions) hover(args string, ctx step.Context) error {
	locator, err := a.repo.Resolve(args)
	if err != nil {
		return err
	}
	if err := a.page.Hover(locator); err != nil {
		return stepError("failed to hover over '%s': %v", args, err)
	}
	a.log.Info("Hovered over '%s'", args)
	return nil
}

// press sends a key, either into a named element ("<key> in <element>")
// or to the page globally.
func (a *Actions) press(args string, ctx step.Context) error {
	if key, name, ok := splitKeyword(args, "in"); ok {
		locator, err := a.repo.Resolve(name)
		if err != nil {
			return err
		}
		if err := a.page.Press(locator, key); err != nil {
			return stepError("failed to press '%s' in '%s': %v", key, name, err)
		}
		a.log.Info("Pressed '%s' in '%s'", key, name)
		return nil
	}

	key := args
	if strings.EqualFold(key, "enter") {
		key = "Enter"
	}
	if err := a.page.PressGlobal(key); err != nil {
		return stepError("failed to press '%s': %v", key, err)
	}
	a.log.Info("Pressed '%s'", key)
	return nil
}

func (a *Actions) check(args string, ctx step.Context) error {
	locator, err := a.repo.Resolve(args)
	if err != nil {
		return err
	}
	if err := a.page.Check(locator); err != nil {
		return stepError("failed to check '%s': %v", args, err)
	}
	a.log.Info("Checked '%s'", args)
	return nil
}

func (a *Actions) uncheck(args string, ctx step.Context) error {
	locator, err := a.repo.Resolve(args)
	if err != nil {
		return err
	}
	if err := a.page.Uncheck(locator); err != nil {
		return stepError("failed to uncheck '%s': %v", args, err)
	}
	a.log.Info("Unchecked '%s'", args)
	return nil
}

func (a *Actions) refresh(args string, ctx step.Context) error {
	if err := a.page.Reload(); err != nil {
		return stepError("failed to refresh page: %v", err)
	}
	a.log.Info("Page refreshed")
	return nil
}

// execute evaluates a script in the page context. The return value is
// informational only.
func (a *Actions) execute(args string, ctx step.Context) error {
	script := unquote(strings.TrimSpace(args))
	result, err := a.page.Evaluate(script)
	if err != nil {
		return stepError("failed to execute script '%s': %v", script, err)
	}
	a.log.Info("Executed script. Result: %v", result)
	return nil
}

// find locates a record link by title and opens it. Grammar:
// <record-type> with name <value>. All record types use the same
// contains-match title locator. A record saved moments ago may not be
// rendered yet, so the first click gets a short timeout; on failure
// the page is reloaded, allowed to go network-idle, and the click is
// retried with a long timeout.
func (a *Actions) find(args string, ctx step.Context) error {
	idx := strings.Index(args, " with name ")
	if idx < 0 {
		return core.ErrInvalidFormat.WithMessage(
			"invalid find format, expected 'find [record type] with name [value]'")
	}
	recordType := strings.TrimSpace(args[:idx])
	name := strings.TrimSpace(args[idx+len(" with name "):])

	if strings.HasPrefix(name, "${") && strings.HasSuffix(name, "}") {
		if v, ok := ctx[name[2:len(name)-1]]; ok {
			name = v
			a.log.Debug("Using name from context: %s", name)
		}
	}
	name = unquote(name)

	locator := fmt.Sprintf("//a[contains(@title, '%s')]", name)
	a.log.Debug("Using locator: %s", locator)

	if err := a.page.Click(locator, findFirstTry); err != nil {
		a.log.Info("Record not immediately visible, refreshing page and trying again")
		if err := a.page.Reload(); err != nil {
			return stepError("failed to reload while finding record: %v", err)
		}
		if err := a.page.WaitForLoadState(core.LoadStateNetworkIdle); err != nil {
			return stepError("page did not settle after reload: %v", err)
		}
		if err := a.page.Click(locator, findRetry); err != nil {
			return stepError("failed to find %s record with name '%s': %v", recordType, name, err)
		}
	}
	a.log.Info("Found and opened %s record with name '%s'", recordType, name)
	return nil
}
