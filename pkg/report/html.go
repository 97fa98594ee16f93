package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/stepdriver-dev/stepdriver/pkg/core"
)

// HTMLData is the template payload for the HTML report.
type HTMLData struct {
	Title       string
	GeneratedAt string
	Summary     Summary
	Tests       []TestHTMLData
	Files       []FileHTMLData
}

// TestHTMLData is one result row formatted for HTML.
type TestHTMLData struct {
	core.CaseResult
	StatusClass   string
	ExecutionStr  string
	LogURI        string
	ScreenshotURI string
}

// FileHTMLData is the per-file breakdown row.
type FileHTMLData struct {
	File   string
	Total  int
	Passed int
	Failed int
	Errors int
}

// WriteHTML writes test_report.html into the directory and returns its
// path.
func (r *Report) WriteHTML(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	html, err := render(buildHTMLData(r))
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	path := filepath.Join(dir, "test_report.html")
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("write html report: %w", err)
	}
	return path, nil
}

var statusClass = map[core.Status]string{
	core.StatusPassed: "passed",
	core.StatusFailed: "failed",
	core.StatusError:  "error",
}

func buildHTMLData(r *Report) HTMLData {
	tests := make([]TestHTMLData, len(r.TestCases))
	for i, tc := range r.TestCases {
		tests[i] = TestHTMLData{
			CaseResult:    tc,
			StatusClass:   statusClass[tc.Status],
			ExecutionStr:  fmt.Sprintf("%.2fs", tc.ExecutionTime),
			LogURI:        fileURI(tc.LogFile),
			ScreenshotURI: fileURI(tc.ScreenshotPath),
		}
	}

	order, grouped := r.TestCases.ByFile()
	files := make([]FileHTMLData, 0, len(order))
	for _, file := range order {
		rs := grouped[file]
		files = append(files, FileHTMLData{
			File:   file,
			Total:  len(rs),
			Passed: rs.CountByStatus(core.StatusPassed),
			Failed: rs.CountByStatus(core.StatusFailed),
			Errors: rs.CountByStatus(core.StatusError),
		})
	}

	return HTMLData{
		Title:       "UI Automation Test Report",
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Summary:     r.Summary,
		Tests:       tests,
		Files:       files,
	}
}

func fileURI(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	return "file://" + filepath.ToSlash(abs)
}

func render(data HTMLData) (string, error) {
	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #fafafa; }
        .container { max-width: 1200px; margin: 0 auto; }
        .header { background-color: #0288d1; color: white; padding: 20px; border-radius: 5px; margin-bottom: 20px; }
        .summary { display: flex; justify-content: space-between; margin-bottom: 20px; }
        .summary-card { background-color: white; border-radius: 5px; padding: 15px; box-shadow: 0 2px 5px rgba(0,0,0,0.1); flex: 1; margin: 0 10px; text-align: center; }
        .summary-value { font-size: 24px; }
        .passed { color: #4caf50; }
        .failed { color: #f44336; }
        .error { color: #ff9800; }
        table { width: 100%; border-collapse: collapse; background-color: white; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
        th { background-color: #f5f5f5; }
        tr:hover { background-color: #f5f5f5; }
        .status-badge { padding: 5px 10px; border-radius: 4px; font-size: 12px; font-weight: bold; }
        .details-btn { padding: 5px 10px; background-color: #0288d1; color: white; border: none; border-radius: 4px; cursor: pointer; }
        .test-details { display: none; padding: 10px; background-color: #f9f9f9; border-radius: 4px; margin-top: 10px; }
        .file-breakdown { margin-top: 30px; }
        h2 { color: #333; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <p>Run: {{.Summary.Timestamp}} &mdash; Generated: {{.GeneratedAt}}</p>
        </div>

        <div class="summary">
            <div class="summary-card">
                <h2>Total Tests</h2>
                <p class="summary-value">{{.Summary.Total}}</p>
            </div>
            <div class="summary-card">
                <h2>Passed</h2>
                <p class="summary-value passed">{{.Summary.Passed}}</p>
            </div>
            <div class="summary-card">
                <h2>Failed</h2>
                <p class="summary-value failed">{{.Summary.Failed}}</p>
            </div>
            <div class="summary-card">
                <h2>Errors</h2>
                <p class="summary-value error">{{.Summary.Errors}}</p>
            </div>
            <div class="summary-card">
                <h2>Success Rate</h2>
                <p class="summary-value">{{.Summary.SuccessRate}}</p>
            </div>
        </div>

        <table>
            <thead>
                <tr>
                    <th>Test ID</th>
                    <th>Test Name</th>
                    <th>Status</th>
                    <th>Execution Time</th>
                    <th>Actions</th>
                </tr>
            </thead>
            <tbody>
                {{range .Tests}}
                <tr>
                    <td>{{.TestID}}</td>
                    <td>{{.TestName}}</td>
                    <td><span class="status-badge {{.StatusClass}}">{{.Status}}</span></td>
                    <td>{{.ExecutionStr}}</td>
                    <td><button onclick="toggleDetails('{{.TestID}}')" class="details-btn">Details</button></td>
                </tr>
                <tr>
                    <td colspan="5">
                        <div id="{{.TestID}}_details" class="test-details">
                            {{if .FailedSteps}}
                            <h4>Failed Steps:</h4>
                            <ul>
                                {{range .FailedSteps}}<li>{{.}}</li>{{end}}
                            </ul>
                            {{end}}
                            {{if .Error}}<h4>Error:</h4><p>{{.Error}}</p>{{end}}
                            {{if .LogURI}}<p><a href="{{.LogURI}}" target="_blank">View Log File</a></p>{{end}}
                            {{if .ScreenshotURI}}<p><a href="{{.ScreenshotURI}}" target="_blank">View Screenshot</a></p>{{end}}
                        </div>
                    </td>
                </tr>
                {{end}}
            </tbody>
        </table>

        <div class="file-breakdown">
            <h2>Per-File Breakdown</h2>
            <table>
                <thead>
                    <tr>
                        <th>File</th>
                        <th>Total</th>
                        <th>Passed</th>
                        <th>Failed</th>
                        <th>Errors</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Files}}
                    <tr>
                        <td>{{.File}}</td>
                        <td>{{.Total}}</td>
                        <td class="passed">{{.Passed}}</td>
                        <td class="failed">{{.Failed}}</td>
                        <td class="error">{{.Errors}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </div>
    </div>

    <script>
        function toggleDetails(testId) {
            const el = document.getElementById(testId + '_details');
            el.style.display = el.style.display === 'block' ? 'none' : 'block';
        }
    </script>
</body>
</html>
`
