package deckexport

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// helper: create a minimal 1x1 PNG
func testPNG() []byte {
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53,
		0xDE, 0x00, 0x00, 0x00, 0x0C, 0x49, 0x44, 0x41,
		0x54, 0x08, 0xD7, 0x63, 0xF8, 0xCF, 0xC0, 0x00,
		0x00, 0x03, 0x01, 0x01, 0x00, 0x18, 0xDD, 0x8D,
		0xB0, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E,
		0x44, 0xAE, 0x42, 0x60, 0x82,
	}
}

func pngServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(testPNG())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolveRemoteImage(t *testing.T) {
	srv := pngServer(t)
	r := NewImageResolver(srv.Client(), 0, nil)

	ri := r.Resolve(context.Background(), srv.URL+"/img.png", "")
	if ri == nil {
		t.Fatal("Resolve returned nil for a reachable image")
	}
	// Remote images are framed and re-encoded as PNG.
	if ri.Mime != "image/png" {
		t.Errorf("Mime = %q, want image/png", ri.Mime)
	}
	if _, _, err := image.Decode(bytes.NewReader(ri.Data)); err != nil {
		t.Errorf("framed payload does not decode: %v", err)
	}
}

func TestResolveFailures(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		r := NewImageResolver(srv.Client(), 0, nil)
		if ri := r.Resolve(context.Background(), srv.URL+"/missing.png", ""); ri != nil {
			t.Error("Resolve should return nil on 404")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer srv.Close()

		r := NewImageResolver(srv.Client(), 20*time.Millisecond, nil)
		if ri := r.Resolve(context.Background(), srv.URL+"/slow.png", ""); ri != nil {
			t.Error("Resolve should return nil on timeout")
		}
	})

	t.Run("empty url", func(t *testing.T) {
		r := NewImageResolver(nil, 0, nil)
		if ri := r.Resolve(context.Background(), "", ""); ri != nil {
			t.Error("Resolve should return nil for an empty URL")
		}
	})

	t.Run("missing local file", func(t *testing.T) {
		r := NewImageResolver(nil, 0, nil)
		if ri := r.Resolve(context.Background(), "/nonexistent/image.png", ""); ri != nil {
			t.Error("Resolve should return nil for a missing local file")
		}
	})
}

func TestResolveLocalPassthrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "local.png")
	if err := os.WriteFile(path, testPNG(), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewImageResolver(nil, 0, nil)
	ri := r.Resolve(context.Background(), path, "corporate-blue")
	if ri == nil {
		t.Fatal("Resolve returned nil for a local file")
	}
	// Local files pass through without framing.
	if !bytes.Equal(ri.Data, testPNG()) {
		t.Error("local file bytes were modified")
	}
	if ri.Mime != "image/png" {
		t.Errorf("Mime = %q, want image/png", ri.Mime)
	}
}

func TestResolveUndecodableFallsBackToOriginal(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	}))
	defer srv.Close()

	r := NewImageResolver(srv.Client(), 0, nil)
	ri := r.Resolve(context.Background(), srv.URL+"/shape.svg", "")
	if ri == nil {
		t.Fatal("Resolve returned nil for an unframeable payload")
	}
	// Framing cannot decode SVG, so the original bytes come back.
	if !bytes.Equal(ri.Data, svg) {
		t.Error("unframeable payload was not passed through")
	}
	if ri.Mime != "image/svg+xml" {
		t.Errorf("Mime = %q, want image/svg+xml", ri.Mime)
	}
}

func TestDataURL(t *testing.T) {
	ri := &ResolvedImage{Data: []byte{1, 2, 3}, Mime: "image/png"}
	got := ri.DataURL()
	if !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Errorf("DataURL = %q", got)
	}
}

func TestFrameFor(t *testing.T) {
	if fx := FrameFor("corporate-blue"); fx.CornerRadius == 0 {
		t.Error("corporate-blue should round corners")
	}
	if fx := FrameFor("unheard-of-theme"); fx != defaultFrame {
		t.Error("unknown theme should use the default frame")
	}
}

func TestApplyFrame(t *testing.T) {
	framed, err := applyFrame(testPNG(), FrameFor("professional"))
	if err != nil {
		t.Fatalf("applyFrame failed: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(framed))
	if err != nil {
		t.Fatalf("framed output does not decode: %v", err)
	}
	// Shadow margin makes the composite larger than the 1x1 source.
	if img.Bounds().Dx() <= 2 {
		t.Errorf("framed width = %d, expected margin around the source", img.Bounds().Dx())
	}

	if _, err := applyFrame([]byte("not an image"), defaultFrame); err == nil {
		t.Error("applyFrame should fail on undecodable input")
	}
}

func TestSynthesizeGradient(t *testing.T) {
	data := SynthesizeGradient("ocean-depth", 40, 20)
	if data == nil {
		t.Fatal("bespoke gradient returned nil")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("gradient does not decode: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("gradient size = %v, want 40x20", img.Bounds())
	}

	if SynthesizeGradient("sunset-glow", 40, 20) != nil {
		t.Error("non-bespoke tag should return nil")
	}
}

func TestMimeFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.png", "image/png"},
		{"b.JPG", "image/jpeg"},
		{"c.jpeg", "image/jpeg"},
		{"d.gif", "image/gif"},
		{"e.svg", "image/svg+xml"},
		{"f.unknown", "image/png"},
	}
	for _, tt := range tests {
		if got := mimeFromPath(tt.path); got != tt.want {
			t.Errorf("mimeFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
