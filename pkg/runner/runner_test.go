package runner_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kvasir-sec/reflectix/pkg/runner"
)

func TestRunFindsVulnerability(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><title>%s</title></html>", r.URL.Query().Get("t"))
	}))
	defer server.Close()

	opts := runner.DefaultOptions()
	opts.Concurrency = 2
	opts.Timeout = 5 * time.Second
	opts.Silent = true
	opts.OutputFormat = "json"

	if code := runner.NewRunner(opts).Run([]string{server.URL + "/?t=x"}); code != 1 {
		t.Errorf("exit code = %d, want 1 for a vulnerable target", code)
	}
}

func TestRunCleanTarget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>static</body></html>")
	}))
	defer server.Close()

	opts := runner.DefaultOptions()
	opts.Concurrency = 2
	opts.Timeout = 5 * time.Second
	opts.Silent = true
	opts.OutputFormat = "json"

	if code := runner.NewRunner(opts).Run([]string{server.URL + "/?q=1"}); code != 0 {
		t.Errorf("exit code = %d, want 0 for a clean target", code)
	}
}
