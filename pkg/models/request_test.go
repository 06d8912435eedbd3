package models_test

import (
	"strings"
	"testing"

	"github.com/kvasir-sec/reflectix/pkg/models"
)

func TestNewRequestParsesQuery(t *testing.T) {
	req, err := models.NewRequest(models.MethodGET, "http://example.com/page?b=2&a=1&a=3", "")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.URL != "http://example.com/page" {
		t.Errorf("URL = %q, want bare URL", req.URL)
	}
	if req.ID == "" {
		t.Error("missing request ID")
	}

	// Document order is preserved, including the duplicate.
	if got := req.EncodedQuery(); got != "b=2&a=1&a=3" {
		t.Errorf("EncodedQuery = %q, want b=2&a=1&a=3", got)
	}
	names := req.ParamNames(models.LocationQuery)
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Errorf("ParamNames = %v, want [b a]", names)
	}
}

func TestNewRequestRejectsBadInput(t *testing.T) {
	if _, err := models.NewRequest(models.MethodGET, "ftp://example.com/", ""); err == nil {
		t.Error("ftp scheme should be rejected")
	}
	if _, err := models.NewRequest(models.MethodGET, "not a url", ""); err == nil {
		t.Error("unparseable URL should be rejected")
	}
}

func TestNewRequestParsesBody(t *testing.T) {
	req, err := models.NewRequest(models.MethodPOST, "http://example.com/submit?x=1", "name=alice&msg=hi+there")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if got := req.EncodedBody(); got != "name=alice&msg=hi+there" {
		t.Errorf("EncodedBody = %q", got)
	}
	if names := req.ParamNames(models.LocationBody); len(names) != 2 {
		t.Errorf("body params = %v, want two", names)
	}
	if names := req.ParamNames(models.LocationQuery); len(names) != 1 || names[0] != "x" {
		t.Errorf("query params = %v, want [x]", names)
	}
}

func TestWithParamValueIsACopy(t *testing.T) {
	req, err := models.NewRequest(models.MethodGET, "http://example.com/?a=1&b=2", "")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}

	probe := req.WithParamValue("a", "<injected>")
	if got := probe.EncodedQuery(); got != "a=%3Cinjected%3E&b=2" {
		t.Errorf("probe query = %q", got)
	}
	if got := req.EncodedQuery(); got != "a=1&b=2" {
		t.Errorf("original mutated: %q", got)
	}
	if probe.ID != req.ID {
		t.Error("probe must keep the origin request ID")
	}
}

func TestFullURL(t *testing.T) {
	req, err := models.NewRequest(models.MethodGET, "http://example.com/p?q=a+b", "")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if got := req.FullURL(); got != "http://example.com/p?q=a+b" {
		t.Errorf("FullURL = %q", got)
	}
	if s := req.String(); !strings.HasPrefix(s, "GET ") {
		t.Errorf("String = %q", s)
	}
}
