package tzdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const sampleCollection = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]},
			"properties": {"offset": 1}
		}
	]
}`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timezones.geojson")
	if err := os.WriteFile(path, []byte(sampleCollection), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	fc, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Errorf("expected 1 feature, got %d", len(fc.Features))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.geojson")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCollection))
	}))
	defer server.Close()

	fc, err := Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fc.Type != "FeatureCollection" {
		t.Errorf("unexpected type %q", fc.Type)
	}
}

func TestFetch_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := Fetch(context.Background(), server.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestDecode_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{"},
		{"wrong type", `{"type": "Feature", "features": []}`},
		{"no features", `{"type": "FeatureCollection", "features": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decode([]byte(tt.input)); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}
