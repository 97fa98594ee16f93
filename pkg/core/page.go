// Package core provides the execution model types for stepdriver.
package core

import "time"

// Element states accepted by Element.WaitFor.
const (
	StateVisible = "visible"
	StateHidden  = "hidden"
)

// Load states accepted by Page.WaitForLoadState.
const (
	LoadStateLoad        = "load"
	LoadStateNetworkIdle = "networkidle"
)

// Page is the UI-driving capability consumed by the action handlers.
// Implementations: chromedp-backed browser session, test fakes.
// Locator strings are opaque selector expressions (CSS, XPath, or
// "text=..." contains-match) passed through unmodified.
type Page interface {
	// Navigate loads the given absolute URL.
	Navigate(url string) error

	// URL returns the current page URL.
	URL() string

	// Click clicks the element matching the locator. A zero timeout
	// means the implementation's default.
	Click(locator string, timeout time.Duration) error

	// Fill sets the value of the input matching the locator.
	Fill(locator, value string) error

	// SelectOption selects a native <select> option by its label.
	SelectOption(locator, label string) error

	// Hover moves the pointer over the element.
	Hover(locator string) error

	// Check / Uncheck set checkbox state.
	Check(locator string) error
	Uncheck(locator string) error

	// Press sends a key to the element matching the locator.
	Press(locator, key string) error

	// PressGlobal sends a key to the page without targeting an element.
	PressGlobal(key string) error

	// Evaluate runs a script in the page context and returns its value.
	Evaluate(script string) (any, error)

	// Screenshot captures the viewport as PNG at the given path.
	Screenshot(path string) error

	// Reload reloads the current page.
	Reload() error

	// WaitForLoadState blocks until the page reaches the given state.
	WaitForLoadState(state string) error

	// Element returns a handle for the element matching the locator.
	// The handle is lazy; resolution happens on first use.
	Element(locator string) Element
}

// Element is a lazy handle to a located UI element.
type Element interface {
	// WaitFor blocks until the element reaches the state or the
	// timeout expires.
	WaitFor(state string, timeout time.Duration) error

	IsEnabled() (bool, error)
	IsChecked() (bool, error)
	InnerText() (string, error)
	InputValue() (string, error)
}
