package fingerprint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kvasir-sec/reflectix/pkg/logger"
	"github.com/kvasir-sec/reflectix/pkg/models"
	"github.com/kvasir-sec/reflectix/pkg/network"
	"github.com/kvasir-sec/reflectix/pkg/scanner"
)

func testDeps(t *testing.T) (*network.Client, *scanner.MemoryPersister, *logger.Logger) {
	t.Helper()
	client := network.NewClient(5*time.Second, "", 2, 0)
	return client, scanner.NewMemoryPersister(), logger.NewLoggerTo(0, io.Discard)
}

func attackRoot(t *testing.T, mod scanner.Module, root string) {
	t.Helper()
	req, err := models.NewRequest(models.MethodGET, root, "")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if err := mod.Attack(context.Background(), req); err != nil {
		t.Fatalf("Attack: %v", err)
	}
}

func detections(t *testing.T, p *scanner.MemoryPersister) []Detection {
	t.Helper()
	var out []Detection
	for _, f := range p.BySeverity(models.SeverityAdditional) {
		var d Detection
		if err := json.Unmarshal([]byte(f.Evidence), &d); err != nil {
			t.Fatalf("bad detection evidence %q: %v", f.Evidence, err)
		}
		out = append(out, d)
	}
	return out
}

func detectionNamed(ds []Detection, name string) *Detection {
	for i := range ds {
		if ds[i].Name == name {
			return &ds[i]
		}
	}
	return nil
}

func TestWordPressDetection(t *testing.T) {
	var mux http.ServeMux
	server := httptest.NewServer(&mux)
	defer server.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><head><link rel="stylesheet" href="/wp-content/themes/astra/style.css"></head><body></body></html>`)
	})
	mux.HandleFunc("/wp-content/plugins/akismet/readme.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "=== Akismet Anti-spam ===\nRequires at least: 5.8\nStable tag: 5.3.1\n")
	})
	mux.HandleFunc("/wp-content/plugins/wordfence/readme.txt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	client, persister, log := testDeps(t)
	wp := NewWordPress(client, persister, log)
	attackRoot(t, wp, server.URL+"/")

	ds := detections(t, persister)
	if detectionNamed(ds, "WordPress") == nil {
		t.Fatalf("WordPress not among detections: %+v", ds)
	}

	akismet := detectionNamed(ds, "akismet")
	if akismet == nil {
		t.Fatal("akismet plugin not detected")
	}
	if len(akismet.Versions) != 1 || akismet.Versions[0] != "5.3.1" {
		t.Errorf("akismet versions = %v, want [5.3.1]", akismet.Versions)
	}

	// 403 on the readme still proves the plugin directory exists.
	if detectionNamed(ds, "wordfence") == nil {
		t.Error("forbidden readme should still count as detected")
	}
}

func TestWordPressNotDetected(t *testing.T) {
	var probed []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "readme.txt") {
			probed = append(probed, r.URL.Path)
		}
		fmt.Fprint(w, "<html><body>plain site</body></html>")
	}))
	defer server.Close()

	client, persister, log := testDeps(t)
	wp := NewWordPress(client, persister, log)
	attackRoot(t, wp, server.URL+"/")

	if got := len(persister.Findings()); got != 0 {
		t.Errorf("got %d findings, want 0", got)
	}
	if len(probed) != 0 {
		t.Errorf("enumeration ran against a non-WordPress site: %v", probed)
	}
}

func TestWordPressMustAttackGETOnly(t *testing.T) {
	client, persister, log := testDeps(t)
	wp := NewWordPress(client, persister, log)

	get, _ := models.NewRequest(models.MethodGET, "http://example.com/", "")
	post, _ := models.NewRequest(models.MethodPOST, "http://example.com/", "a=1")
	if !wp.MustAttack(get) {
		t.Error("GET request should be attackable")
	}
	if wp.MustAttack(post) {
		t.Error("POST request should be skipped")
	}
}
