package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/luxurydrive/backoffice/pkg/config"
)

func testConfig() config.CloudinaryConfig {
	return config.CloudinaryConfig{
		CloudName: "demo",
		APIKey:    "key123",
		APISecret: "secret456",
		Folder:    "cars",
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), testConfig(), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.baseURL = baseURL
	client.now = func() time.Time { return time.Unix(1700000000, 0) }
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), config.CloudinaryConfig{CloudName: "demo"}, nil)
	if err == nil {
		t.Fatal("expected error for incomplete credentials")
	}
}

func TestUpload(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.FormValue("api_key") != "key123" {
			t.Errorf("unexpected api key %q", r.FormValue("api_key"))
		}

		wantSig := signParams(map[string]string{
			"folder":    r.FormValue("folder"),
			"timestamp": r.FormValue("timestamp"),
		}, "secret456")
		if r.FormValue("signature") != wantSig {
			t.Errorf("signature mismatch: got %q want %q", r.FormValue("signature"), wantSig)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"cars/abc","secure_url":"https://res.cloudinary.com/demo/image/upload/cars/abc.png"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Upload(context.Background(), []byte("imagedata"), "car.png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotPath != "/demo/image/upload" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if result.SecureURL == "" || result.PublicID != "cars/abc" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestUploadRejectsEmptyPayload(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://unused")
	if _, err := client.Upload(context.Background(), nil, "car.png"); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestDestroyDerivesPublicID(t *testing.T) {
	t.Parallel()

	var gotPublicID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotPublicID = r.FormValue("public_id")
		w.Write([]byte(`{"result":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.Destroy(context.Background(), "https://res.cloudinary.com/demo/image/upload/v1/cars/abc123.png")
	if err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if gotPublicID != "cars/abc123" {
		t.Fatalf("unexpected public id %q", gotPublicID)
	}
}

func TestDestroyIgnoresForeignURLs(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://unused")
	if err := client.Destroy(context.Background(), "https://example.com/image.png"); err != nil {
		t.Fatalf("foreign URLs must be ignored, got %v", err)
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key123" || pass != "secret456" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func signParams(params map[string]string, secret string) string {
	pairs := ""
	keys := []string{"folder", "timestamp"}
	if _, ok := params["public_id"]; ok {
		keys = []string{"public_id", "timestamp"}
	}
	for i, key := range keys {
		if i > 0 {
			pairs += "&"
		}
		pairs += key + "=" + params[key]
	}
	sum := sha1.Sum([]byte(pairs + secret))
	return hex.EncodeToString(sum[:])
}
