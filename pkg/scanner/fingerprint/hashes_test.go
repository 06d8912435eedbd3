package fingerprint

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestDetectVersions(t *testing.T) {
	var mux http.ServeMux
	server := httptest.NewServer(&mux)
	defer server.Close()
	mux.HandleFunc("/static/app.js", func(w http.ResponseWriter, r *http.Request) {
		// Trailing whitespace is trimmed before hashing.
		fmt.Fprint(w, "console.log('v2');\n\n")
	})

	client, _, _ := testDeps(t)
	b := &base{client: client}

	probes := []HashProbe{
		{
			Path: "static/app.js",
			Hashes: map[string]string{
				md5hex("console.log('v2');"): "2.0",
				"ffffffffffffffffffffffffffffffff": "9.9",
			},
		},
		{Path: "static/missing.js", Hashes: map[string]string{"00": "1.0"}},
	}

	versions := b.detectVersions(context.Background(), server.URL+"/", probes)
	if len(versions) != 1 || versions[0] != "2.0" {
		t.Errorf("versions = %v, want [2.0]", versions)
	}
}

func TestDetectVersionsDeduplicates(t *testing.T) {
	var mux http.ServeMux
	server := httptest.NewServer(&mux)
	defer server.Close()
	for _, path := range []string{"/a.js", "/b.js"} {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "same content")
		})
	}

	client, _, _ := testDeps(t)
	b := &base{client: client}

	hashes := map[string]string{md5hex("same content"): "3.1"}
	versions := b.detectVersions(context.Background(), server.URL+"/", []HashProbe{
		{Path: "a.js", Hashes: hashes},
		{Path: "b.js", Hashes: hashes},
	})
	if len(versions) != 1 {
		t.Errorf("versions = %v, want a single 3.1", versions)
	}
}
