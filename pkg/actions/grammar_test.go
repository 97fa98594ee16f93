package actions

import "testing"

func TestSplitKeyword(t *testing.T) {
	tests := []struct {
		args    string
		keyword string
		left    string
		right   string
		ok      bool
	}{
		{`Username with "alice"`, "with", "Username", `"alice"`, true},
		{"Username\twith\t\"alice\"", "with", "Username", `"alice"`, true},
		{"Username  with   \"alice\"", "with", "Username", `"alice"`, true},
		{"Spinner to  be visible", "to be", "Spinner", "visible", true},
		{"Username", "with", "", "", false},
		{"Username withdrawal field", "with", "", "", false},
	}
	for _, tt := range tests {
		left, right, ok := splitKeyword(tt.args, tt.keyword)
		if ok != tt.ok || left != tt.left || right != tt.right {
			t.Errorf("splitKeyword(%q, %q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.args, tt.keyword, left, right, ok, tt.left, tt.right, tt.ok)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct{ in, want string }{
		{`"alice"`, "alice"},
		{"'alice'", "alice"},
		{"alice", "alice"},
		{`"alice'`, `"alice'`},
		{`""`, ""},
	}
	for _, tt := range tests {
		if got := unquote(tt.in); got != tt.want {
			t.Errorf("unquote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
