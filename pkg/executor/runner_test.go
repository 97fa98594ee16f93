package executor

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/stepdriver-dev/stepdriver/pkg/core"
	"github.com/stepdriver-dev/stepdriver/pkg/logger"
	"github.com/stepdriver-dev/stepdriver/pkg/objects"
)

// stubPage succeeds on everything except the locators listed in fail;
// locators listed in panicOn blow up the session instead.
type stubPage struct {
	calls   []string
	fail    map[string]bool
	panicOn map[string]bool
}

func (p *stubPage) do(call, locator string) error {
	p.calls = append(p.calls, call+" "+locator)
	if p.panicOn[locator] {
		panic("browser crashed")
	}
	if p.fail[locator] {
		return errors.New("element not found")
	}
	return nil
}

func (p *stubPage) Navigate(url string) error                   { return p.do("navigate", url) }
func (p *stubPage) URL() string                                 { return "https://app.example.com/" }
func (p *stubPage) Click(locator string, _ time.Duration) error { return p.do("click", locator) }
func (p *stubPage) Fill(locator, _ string) error                { return p.do("fill", locator) }
func (p *stubPage) SelectOption(locator, _ string) error        { return p.do("select", locator) }
func (p *stubPage) Hover(locator string) error                  { return p.do("hover", locator) }
func (p *stubPage) Check(locator string) error                  { return p.do("check", locator) }
func (p *stubPage) Uncheck(locator string) error                { return p.do("uncheck", locator) }
func (p *stubPage) Press(locator, _ string) error               { return p.do("press", locator) }
func (p *stubPage) PressGlobal(key string) error                { return p.do("pressGlobal", key) }
func (p *stubPage) Evaluate(script string) (any, error)         { return nil, p.do("evaluate", script) }
func (p *stubPage) Screenshot(path string) error                { return os.WriteFile(path, []byte("png"), 0644) }
func (p *stubPage) Reload() error                               { return p.do("reload", "") }
func (p *stubPage) WaitForLoadState(state string) error         { return p.do("load", state) }
func (p *stubPage) Element(locator string) core.Element         { return stubElement{} }

type stubElement struct{}

func (stubElement) WaitFor(string, time.Duration) error { return nil }
func (stubElement) IsEnabled() (bool, error)            { return true, nil }
func (stubElement) IsChecked() (bool, error)            { return false, nil }
func (stubElement) InnerText() (string, error)          { return "", nil }
func (stubElement) InputValue() (string, error)         { return "", nil }

type stubSession struct {
	page   *stubPage
	closed bool
}

func (s *stubSession) Page() core.Page { return s.page }
func (s *stubSession) Close() error    { s.closed = true; return nil }

func writeCases(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	header := []interface{}{"Test ID", "Test Name", "Description", "Enabled", "Step 1", "Step 2", "Step 3"}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := wb.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(dir, name)
	if err := wb.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func testRepo(t *testing.T, entries map[string]string) *objects.Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "objects.json")
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	repo, err := objects.Load(path, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	return repo
}

func testConfig(t *testing.T, repo *objects.Repository) Config {
	t.Helper()
	return Config{
		Workers:       2,
		Mode:          ModeFile,
		ScreenshotDir: t.TempDir(),
		LogDir:        t.TempDir(),
		Objects:       repo,
		Log:           logger.Discard(),
	}
}

func resultByID(t *testing.T, results core.Results, id string) core.CaseResult {
	t.Helper()
	for _, r := range results {
		if r.TestID == id {
			return r
		}
	}
	t.Fatalf("no result for %s in %+v", id, results)
	return core.CaseResult{}
}

func TestFailFast(t *testing.T) {
	page := &stubPage{fail: map[string]bool{"#missing": true}}
	repo := testRepo(t, map[string]string{
		"Home Link":   "#home",
		"Ghost":       "#missing",
		"Logout Link": "#logout",
	})
	file := writeCases(t, t.TempDir(), "cases.xlsx", [][]interface{}{
		{"TC001", "Fail fast", "second step fails", "true", "click Home Link", "click Ghost", "click Logout Link"},
	})

	r := New(func() (Session, error) { return &stubSession{page: page}, nil }, testConfig(t, repo))
	results := r.Run([]string{file})

	res := resultByID(t, results, "TC001")
	if res.Status != core.StatusFailed {
		t.Errorf("Status = %s, want FAILED", res.Status)
	}
	if len(res.FailedSteps) != 1 || !strings.HasPrefix(res.FailedSteps[0], "Step 2:") {
		t.Errorf("FailedSteps = %v", res.FailedSteps)
	}
	if !strings.Contains(filepath.Base(res.ScreenshotPath), "failure_") {
		t.Errorf("ScreenshotPath = %q, want the failure capture", res.ScreenshotPath)
	}
	for _, call := range page.calls {
		if call == "click #logout" {
			t.Error("step 3 ran after a failure")
		}
	}
}

func TestAllPass(t *testing.T) {
	page := &stubPage{}
	repo := testRepo(t, map[string]string{"Home Link": "#home"})
	file := writeCases(t, t.TempDir(), "cases.xlsx", [][]interface{}{
		{"TC001", "All pass", "", "true", "click Home Link", "refresh", ""},
	})

	r := New(func() (Session, error) { return &stubSession{page: page}, nil }, testConfig(t, repo))
	results := r.Run([]string{file})

	res := resultByID(t, results, "TC001")
	if res.Status != core.StatusPassed {
		t.Errorf("Status = %s, want PASSED", res.Status)
	}
	if res.ExecutionTime < 0 {
		t.Errorf("ExecutionTime = %f", res.ExecutionTime)
	}
	if res.LogFile == "" {
		t.Error("expected a log file path")
	}
	if data, err := os.ReadFile(res.LogFile); err != nil || !strings.Contains(string(data), "PASSED") {
		t.Errorf("log file missing verdict: %v", err)
	}
	// Passed cases keep the pre-run capture as their artifact link.
	if !strings.Contains(filepath.Base(res.ScreenshotPath), "before_") {
		t.Errorf("ScreenshotPath = %q, want the pre-run capture", res.ScreenshotPath)
	}
}

func TestPanicSparesCompletedCases(t *testing.T) {
	page := &stubPage{panicOn: map[string]bool{"#bomb": true}}
	repo := testRepo(t, map[string]string{
		"Home Link": "#home",
		"Bomb":      "#bomb",
	})
	file := writeCases(t, t.TempDir(), "cases.xlsx", [][]interface{}{
		{"TC001", "Finishes first", "", "true", "click Home Link", "", ""},
		{"TC002", "Crashes the session", "", "true", "click Bomb", "", ""},
		{"TC003", "Never runs", "", "true", "click Home Link", "", ""},
	})

	r := New(func() (Session, error) { return &stubSession{page: page}, nil }, testConfig(t, repo))
	results := r.Run([]string{file})

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3: %+v", len(results), results)
	}
	if res := resultByID(t, results, "TC001"); res.Status != core.StatusPassed {
		t.Errorf("TC001 Status = %s, want PASSED", res.Status)
	}
	for _, id := range []string{"TC002", "TC003"} {
		res := resultByID(t, results, id)
		if res.Status != core.StatusError {
			t.Errorf("%s Status = %s, want ERROR", id, res.Status)
		}
		if !strings.Contains(res.Error, "panic") {
			t.Errorf("%s Error = %q, want the panic message", id, res.Error)
		}
	}
}

func TestSetupErrorYieldsError(t *testing.T) {
	repo := testRepo(t, map[string]string{})
	file := writeCases(t, t.TempDir(), "cases.xlsx", [][]interface{}{
		{"TC001", "Never starts", "", "true", "refresh", "", ""},
		{"TC002", "Also never starts", "", "true", "refresh", "", ""},
	})

	r := New(func() (Session, error) { return nil, errors.New("browser failed to launch") }, testConfig(t, repo))
	results := r.Run([]string{file})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	for _, res := range results {
		if res.Status != core.StatusError {
			t.Errorf("[%s] Status = %s, want ERROR", res.TestID, res.Status)
		}
		if !strings.Contains(res.Error, "browser failed to launch") {
			t.Errorf("[%s] Error = %q", res.TestID, res.Error)
		}
	}
}

func TestLoadFailureIsUnitScoped(t *testing.T) {
	page := &stubPage{}
	repo := testRepo(t, map[string]string{"Home Link": "#home"})
	dir := t.TempDir()
	good := writeCases(t, dir, "good.xlsx", [][]interface{}{
		{"TC001", "Works", "", "true", "click Home Link", "", ""},
	})
	bad := filepath.Join(dir, "bad.xlsx")
	if err := os.WriteFile(bad, []byte("not a workbook"), 0644); err != nil {
		t.Fatal(err)
	}

	r := New(func() (Session, error) { return &stubSession{page: page}, nil }, testConfig(t, repo))
	results := r.Run([]string{bad, good})

	if len(results) != 2 {
		t.Fatalf("got %d results: %+v", len(results), results)
	}
	if resultByID(t, results, bad).Status != core.StatusError {
		t.Error("bad file should surface as ERROR")
	}
	if resultByID(t, results, "TC001").Status != core.StatusPassed {
		t.Error("good file should still pass")
	}
}

func TestDisabledCasesSkipped(t *testing.T) {
	page := &stubPage{}
	repo := testRepo(t, map[string]string{"Home Link": "#home"})
	file := writeCases(t, t.TempDir(), "cases.xlsx", [][]interface{}{
		{"TC001", "Enabled", "", "true", "click Home Link", "", ""},
		{"TC002", "Disabled", "", "false", "click Home Link", "", ""},
	})

	r := New(func() (Session, error) { return &stubSession{page: page}, nil }, testConfig(t, repo))
	results := r.Run([]string{file})

	if len(results) != 1 || results[0].TestID != "TC001" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestContextIsolationBetweenCases(t *testing.T) {
	page := &stubPage{}
	repo := testRepo(t, map[string]string{"Name Input": "#name"})
	file := writeCases(t, t.TempDir(), "cases.xlsx", [][]interface{}{
		{"TC001", "Stores", "", "true", `store "alpha" as shared`, "", ""},
		{"TC002", "Reads", "", "true", `fill Name Input with "${shared}"`, "", ""},
	})

	r := New(func() (Session, error) { return &stubSession{page: page}, nil }, testConfig(t, repo))
	results := r.Run([]string{file})

	if resultByID(t, results, "TC002").Status != core.StatusPassed {
		t.Fatalf("TC002 did not pass: %+v", results)
	}
	// TC002 owns a fresh context, so the variable stored by TC001 must
	// not leak in: the unresolved reference passes through literally.
	found := false
	for _, call := range page.calls {
		if call == "fill #name" {
			found = true
		}
	}
	if !found {
		t.Fatalf("fill never reached the page: %v", page.calls)
	}
}

func TestCaseMode(t *testing.T) {
	sessions := 0
	repo := testRepo(t, map[string]string{"Home Link": "#home"})
	file := writeCases(t, t.TempDir(), "cases.xlsx", [][]interface{}{
		{"TC001", "First", "", "true", "click Home Link", "", ""},
		{"TC002", "Second", "", "true", "click Home Link", "", ""},
	})

	cfg := testConfig(t, repo)
	cfg.Mode = ModeCase
	r := New(func() (Session, error) {
		sessions++
		return &stubSession{page: &stubPage{}}, nil
	}, cfg)
	results := r.Run([]string{file})

	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if sessions != 2 {
		t.Errorf("ModeCase opened %d sessions, want one per case", sessions)
	}
}

func TestFileModeSingleSession(t *testing.T) {
	sessions := 0
	repo := testRepo(t, map[string]string{"Home Link": "#home"})
	file := writeCases(t, t.TempDir(), "cases.xlsx", [][]interface{}{
		{"TC001", "First", "", "true", "click Home Link", "", ""},
		{"TC002", "Second", "", "true", "click Home Link", "", ""},
	})

	r := New(func() (Session, error) {
		sessions++
		return &stubSession{page: &stubPage{}}, nil
	}, testConfig(t, repo))
	results := r.Run([]string{file})

	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if sessions != 1 {
		t.Errorf("ModeFile opened %d sessions, want 1 per file", sessions)
	}
}
