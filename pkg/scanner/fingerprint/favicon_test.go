package fingerprint

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

var fakeIcon = bytes.Repeat([]byte{0x00, 0x01, 0x02, 0xFF}, 64)

func TestFaviconLookup(t *testing.T) {
	var mux http.ServeMux
	server := httptest.NewServer(&mux)
	defer server.Close()
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.Write(fakeIcon)
	})

	client, _, _ := testDeps(t)
	b := &base{client: client}

	db := []FaviconEntry{
		{Hash: 12345, Name: "Unrelated Device"},
		{Hash: mmh3Hash32(fakeIcon), Name: "Test Appliance"},
	}
	if got := b.faviconLookup(context.Background(), server.URL+"/", db); got != "Test Appliance" {
		t.Errorf("lookup = %q, want Test Appliance", got)
	}
}

func TestFaviconLookupNoMatch(t *testing.T) {
	var mux http.ServeMux
	server := httptest.NewServer(&mux)
	defer server.Close()
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("something else entirely"))
	})

	client, _, _ := testDeps(t)
	b := &base{client: client}
	if got := b.faviconLookup(context.Background(), server.URL+"/", []FaviconEntry{{Hash: 1, Name: "X"}}); got != "" {
		t.Errorf("lookup = %q, want empty", got)
	}
}

func TestWrappedBase64(t *testing.T) {
	// 100 input bytes encode to 136 base64 characters, so the wrapped
	// form has one full 76-column line plus a 60-character remainder.
	out := wrappedBase64(make([]byte, 100))
	lines := bytes.Split(bytes.TrimRight(out, "\n"), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if len(lines[0]) != 76 {
		t.Errorf("first line is %d characters, want 76", len(lines[0]))
	}
	if out[len(out)-1] != '\n' {
		t.Error("output must end with a newline")
	}
}

func TestDefaultDatabasesLoad(t *testing.T) {
	if len(defaultFavicons()) == 0 {
		t.Error("favicon database is empty")
	}
	if len(defaultWordPressHashes()) == 0 {
		t.Error("wordpress hash database is empty")
	}
	if len(defaultSPIPHashes()) == 0 {
		t.Error("spip hash database is empty")
	}
	if len(defaultWordPressPlugins()) == 0 {
		t.Error("plugin wordlist is empty")
	}
	if len(defaultWordPressThemes()) == 0 {
		t.Error("theme wordlist is empty")
	}
	for _, probe := range defaultWordPressHashes() {
		if probe.Path == "" || len(probe.Hashes) == 0 {
			t.Errorf("malformed probe: %+v", probe)
		}
	}
}
