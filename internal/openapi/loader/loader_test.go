package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

const payload = "openapi: 3.0.3\ninfo: {title: t, version: '1'}\npaths: {}\n"

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), pkgopenapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(doc.Raw()) != payload {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if doc.Location() != path || doc.Source().Kind() != pkgopenapi.SourceKindFile {
		t.Fatalf("unexpected source %s %s", doc.Source().Kind(), doc.Location())
	}
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{"specs/api.yaml": {Data: []byte(payload)}}
	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("specs/api.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(doc.Raw()) != payload {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("missing.yaml")); err == nil {
		t.Fatalf("expected error for missing entry")
	}
	if _, err := New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), pkgopenapi.SourceFromFS("specs/api.yaml")); err == nil ||
		!strings.Contains(err.Error(), "filesystem is not configured") {
		t.Fatalf("expected unconfigured filesystem error, got %v", err)
	}
}

func TestLoadHTTP(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api.yaml":
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write([]byte(payload))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	ok, err := pkgopenapi.SourceFromURL(server.URL + "/api.yaml")
	if err != nil {
		t.Fatalf("SourceFromURL: %v", err)
	}
	missing, _ := pkgopenapi.SourceFromURL(server.URL + "/missing.yaml")

	t.Run("disabled by default", func(t *testing.T) {
		_, err := New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), ok)
		if err == nil || !strings.Contains(err.Error(), "http support disabled") {
			t.Fatalf("expected disabled error, got %v", err)
		}
	})

	t.Run("fallback client", func(t *testing.T) {
		l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(time.Second)))
		doc, err := l.Load(context.Background(), ok)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if string(doc.Raw()) != payload {
			t.Fatalf("unexpected payload %q", doc.Raw())
		}
	})

	t.Run("custom client", func(t *testing.T) {
		l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPClient(server.Client())))
		if _, err := l.Load(context.Background(), ok); err != nil {
			t.Fatalf("Load: %v", err)
		}
	})

	t.Run("status error", func(t *testing.T) {
		l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPFallback(time.Second)))
		_, err := l.Load(context.Background(), missing)
		if err == nil || !strings.Contains(err.Error(), "unexpected status") {
			t.Fatalf("expected status error, got %v", err)
		}
	})
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	l := New(pkgopenapi.NewLoaderOptions())
	if _, err := l.Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil source")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFile(empty)); err == nil {
		t.Fatalf("expected error for empty document")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx, pkgopenapi.SourceFromFile(empty)); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestSourceFromLocation(t *testing.T) {
	t.Parallel()

	src, err := pkgopenapi.SourceFromLocation("https://example.com/api.yaml")
	if err != nil || src.Kind() != pkgopenapi.SourceKindURL {
		t.Fatalf("expected url source, got %v %v", src, err)
	}
	src, err = pkgopenapi.SourceFromLocation(" ./api.yaml ")
	if err != nil || src.Kind() != pkgopenapi.SourceKindFile || src.Location() != "api.yaml" {
		t.Fatalf("expected file source, got %v %v", src, err)
	}
	if _, err := pkgopenapi.SourceFromLocation(""); err == nil {
		t.Fatalf("expected error for empty location")
	}
	if _, err := pkgopenapi.SourceFromURL("ftp://example.com/api.yaml"); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}
