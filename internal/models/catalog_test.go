package models

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	name, err := Resolve("en-us", "small")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if name != "vosk-model-small-en-us-0.15" {
		t.Errorf("name = %q", name)
	}

	name, err = Resolve("en-us", "large")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if name != "vosk-model-en-us-0.22" {
		t.Errorf("name = %q", name)
	}
}

func TestResolveSizeFallbackHint(t *testing.T) {
	// Greek only ships a large model.
	_, err := Resolve("el", "small")
	var sizeErr *SizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("got %v, want SizeError", err)
	}
	if sizeErr.Alternate != "large" {
		t.Errorf("alternate = %q", sizeErr.Alternate)
	}

	// Esperanto only ships a small model.
	_, err = Resolve("eo", "large")
	if !errors.As(err, &sizeErr) {
		t.Fatalf("got %v, want SizeError", err)
	}
	if sizeErr.Alternate != "small" {
		t.Errorf("alternate = %q", sizeErr.Alternate)
	}

	// Nothing at all for an unknown code.
	_, err = Resolve("zz", "small")
	if !errors.As(err, &sizeErr) {
		t.Fatalf("got %v, want SizeError", err)
	}
	if sizeErr.Alternate != "" {
		t.Errorf("alternate = %q, want none", sizeErr.Alternate)
	}
}

func buildArchive(t *testing.T, nested bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	prefix := ""
	if nested {
		prefix = "test-model-1.0/"
	}
	for name, content := range map[string]string{
		prefix + "am/final.mdl": "model-weights",
		prefix + "conf/mfcc.conf": "config",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDownloadAndUnpack(t *testing.T) {
	for _, nested := range []bool{false, true} {
		archive := buildArchive(t, nested)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(archive)
		}))
		t.Cleanup(server.Close)

		modelDir := t.TempDir()
		client := server.Client()

		// Point the request at the test server by rewriting the host.
		client.Transport = rewriteHost(server.URL, client.Transport)

		if err := Download(context.Background(), client, "test-model-1.0", modelDir, nil); err != nil {
			t.Fatalf("Download (nested=%v): %v", nested, err)
		}
		data, err := os.ReadFile(filepath.Join(modelDir, "test-model-1.0", "am", "final.mdl"))
		if err != nil {
			t.Fatalf("model payload missing (nested=%v): %v", nested, err)
		}
		if string(data) != "model-weights" {
			t.Errorf("payload = %q", data)
		}
		if !Downloaded(modelDir, "test-model-1.0") {
			t.Error("Downloaded = false after successful download")
		}
		if _, err := os.Stat(filepath.Join(modelDir, "test-model-1.0.zip")); !os.IsNotExist(err) {
			t.Error("archive was not cleaned up")
		}
	}
}

func TestDownloadBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	client := server.Client()
	client.Transport = rewriteHost(server.URL, client.Transport)
	if err := Download(context.Background(), client, "missing-model", t.TempDir(), nil); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

type hostRewriter struct {
	target string
	next   http.RoundTripper
}

func rewriteHost(target string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return hostRewriter{target: target, next: next}
}

func (h hostRewriter) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.URL.Scheme = "http"
	clone.URL.Host = h.target[len("http://"):]
	return h.next.RoundTrip(clone)
}
