package browser

import (
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		locator string
		sel     string
		search  bool
	}{
		{"#login-form input", "#login-form input", false},
		{"//a[@title='Edit']", "//a[@title='Edit']", true},
		{"(//button)[2]", "(//button)[2]", true},
		{"text=Save", "//*[contains(normalize-space(text()), 'Save')]", true},
	}
	for _, tt := range tests {
		sel, opt := kindOf(tt.locator)
		if sel != tt.sel {
			t.Errorf("kindOf(%q) sel = %q, want %q", tt.locator, sel, tt.sel)
		}
		// Query options are funcs, so classification is checked through the
		// rewritten selector instead of comparing options directly.
		gotSearch := strings.HasPrefix(sel, "/") || strings.HasPrefix(sel, "(")
		if gotSearch != tt.search {
			t.Errorf("kindOf(%q) classified search=%v, want %v", tt.locator, gotSearch, tt.search)
		}
		if opt == nil {
			t.Errorf("kindOf(%q) returned nil option", tt.locator)
		}
	}
}

func TestResolveJS(t *testing.T) {
	if got := resolveJS("#save"); got != `document.querySelector("#save")` {
		t.Errorf("css resolveJS = %q", got)
	}
	got := resolveJS("//span[@id='x']")
	if !strings.Contains(got, "document.evaluate") || !strings.Contains(got, "FIRST_ORDERED_NODE_TYPE") {
		t.Errorf("xpath resolveJS = %q", got)
	}
	got = resolveJS("text=New Account")
	if !strings.Contains(got, "normalize-space(text())") || !strings.Contains(got, "'New Account'") {
		t.Errorf("text resolveJS = %q", got)
	}
}

func TestXPathString(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Save", "'Save'"},
		{"O'Brien", `concat('O', "'", 'Brien')`},
		{"'lead'", `concat("'", 'lead', "'")`},
	}
	for _, tt := range tests {
		if got := xpathString(tt.in); got != tt.want {
			t.Errorf("xpathString(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
