package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"exec-dashboard/internal/config"
	"exec-dashboard/internal/dataset"
	"exec-dashboard/internal/sales"
	"exec-dashboard/internal/services"
)

const testCSV = `Order Date,City,Product Type,Quantity Ordered,Price
2019-01-05,NYC,A,2,"1,000.00"
2019-01-06,NYC,A,3,500.50
2019-08-20,Boston,B,1,99.99
2019-09-02,Boston,A,2,"1,200.00"
2019-09-10,NYC,B,4,40.00
2019-09-15,NYC,B,9,999.00
`

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// inTempDir isolates config.Load from any .env or cache in the repository.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeCSV(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReport(t *testing.T) {
	dir := inTempDir(t)
	path := writeCSV(t, dir, testCSV)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "all cities",
			args: []string{"report", "--data", path, "--reference-date", "2019-09-15"},
			want: "Executive Sales Dashboard - All Cities\n" +
				"YTD Sales $:   2.84K\n" +
				"YTD Sales Qty: 12\n" +
				"MTD Sales $:   1.24K\n" +
				"MTD Sales Qty: 6\n" +
				"Effective as at 15 September 2019\n",
		},
		{
			name: "one city",
			args: []string{"report", "--data", path, "--reference-date", "2019-09-15", "--city", "NYC"},
			want: "Executive Sales Dashboard - NYC\n" +
				"YTD Sales $:   1.54K\n" +
				"YTD Sales Qty: 9\n" +
				"MTD Sales $:   40\n" +
				"MTD Sales Qty: 4\n" +
				"Effective as at 15 September 2019\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("report failed: %v", err)
			}
			if stdout != tt.want {
				t.Errorf("report output =\n%s\nwant\n%s", stdout, tt.want)
			}
		})
	}
}

func TestReport_LoadFailures(t *testing.T) {
	dir := inTempDir(t)

	missingColumn := writeCSV(t, dir, "Order Date,City,Product Type,Price\n2019-01-05,NYC,A,1.00\n")
	_, _, err := runCLI(t, "report", "--data", missingColumn)
	var loadErr *dataset.LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("expected LoadError, got %v", err)
	}

	badPrice := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(badPrice, []byte("Order Date,City,Product Type,Quantity Ordered,Price\n2019-01-05,NYC,A,1,abc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err = runCLI(t, "report", "--data", badPrice, "--reference-date", "2019-09-15")
	var parseErr *sales.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Line != 2 {
		t.Errorf("expected source line 2, got %d", parseErr.Line)
	}
}

func TestReport_InvalidReferenceDate(t *testing.T) {
	dir := inTempDir(t)
	path := writeCSV(t, dir, testCSV)

	_, stderr, err := runCLI(t, "report", "--data", path, "--reference-date", "15/09/2019")
	if err == nil {
		t.Fatal("expected an error for a malformed reference date")
	}
	if !strings.Contains(stderr, "reference date") {
		t.Errorf("expected stderr to explain the reference date, got %q", stderr)
	}
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	dir := inTempDir(t)
	path := writeCSV(t, dir, testCSV)

	cfg, err := loadConfig(&options{dataFile: path, referenceDate: "2019-09-15"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Dataset.CacheDir = ""

	analytics, err := loadAnalytics(t.Context(), cfg, testLogger)
	if err != nil {
		t.Fatalf("load analytics: %v", err)
	}
	return newHandler(cfg, analytics, testLogger)
}

func TestServer_Routes(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/?city=NYC", http.StatusOK, "text/html"},
		{"/api/cities", http.StatusOK, "application/json"},
		{"/api/kpis?city=Boston", http.StatusOK, "application/json"},
		{"/charts/histogram?city=NYC", http.StatusOK, "text/html"},
		{"/sse/dashboard?city=NYC", http.StatusOK, "text/event-stream"},
		{"/health", http.StatusOK, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID header from middleware")
			}
		})
	}
}

func TestDashboardPage(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?city=NYC", nil))

	body := w.Body.String()
	expected := []string{
		"Executive Sales Dashboard - NYC",
		"YTD Sales $",
		"1.54K",
		"Effective as at 15 September 2019",
		`/charts/cumulative?city=NYC`,
	}
	for _, content := range expected {
		if !strings.Contains(body, content) {
			t.Errorf("dashboard should contain %q", content)
		}
	}
}

func TestDashboardPage_NotLoaded(t *testing.T) {
	cfg := config.Defaults()
	analytics := services.NewAnalytics(services.Options{Logger: testLogger})

	w := httptest.NewRecorder()
	newHandler(cfg, analytics, testLogger).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestDashboardPage_RejectsLongCity(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?city="+strings.Repeat("a", 4096), nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
