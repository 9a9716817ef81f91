package replicate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"looks/internal/domain"
)

func newTestClient(t *testing.T, baseURL string, maxAttempts int) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIToken:        "test-token",
		BaseURL:         baseURL,
		PollInterval:    time.Millisecond,
		MaxPollAttempts: maxAttempts,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestEditPollsUntilSucceeded(t *testing.T) {
	polls := 0
	var createBody map[string]any
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("POST /predictions", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token test-token" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&createBody); err != nil {
			t.Errorf("decode create body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "pred-1", "status": "starting"})
	})
	mux.HandleFunc("GET /predictions/pred-1", func(w http.ResponseWriter, r *http.Request) {
		polls++
		status := "processing"
		var output []string
		if polls >= 3 {
			status = "succeeded"
			output = []string{server.URL + "/out.png"}
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "pred-1", "status": status, "output": output})
	})
	mux.HandleFunc("GET /out.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	})

	client := newTestClient(t, server.URL, 10)
	result, err := client.Edit(context.Background(), EditRequest{
		BaseImage: []byte("jpeg-bytes"),
		Prompt:    "silver pixie cut",
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if string(result.Data) != "png-bytes" {
		t.Fatalf("data = %q", result.Data)
	}
	if result.Format != "image/png" {
		t.Fatalf("format = %q", result.Format)
	}
	if polls != 3 {
		t.Fatalf("polls = %d, want 3", polls)
	}

	input, ok := createBody["input"].(map[string]any)
	if !ok {
		t.Fatalf("create body missing input: %v", createBody)
	}
	if input["negative_prompt"] != defaultNegativePrompt {
		t.Fatalf("negative_prompt = %v", input["negative_prompt"])
	}
	if input["num_inference_steps"] != float64(30) {
		t.Fatalf("num_inference_steps = %v", input["num_inference_steps"])
	}
	if input["guidance_scale"] != 7.5 {
		t.Fatalf("guidance_scale = %v", input["guidance_scale"])
	}
	img, _ := input["image"].(string)
	if !strings.HasPrefix(img, "data:image/jpeg;base64,") {
		t.Fatalf("image is not a data uri: %.40s", img)
	}
}

func TestEditSurfacesVendorFailure(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("POST /predictions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "pred-2", "status": "starting"})
	})
	mux.HandleFunc("GET /predictions/pred-2", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "pred-2", "status": "failed", "error": "NSFW content detected"})
	})

	client := newTestClient(t, server.URL, 10)
	_, err := client.Edit(context.Background(), EditRequest{BaseImage: []byte("x"), Prompt: "p"})
	var vendorErr *domain.VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("err = %v, want VendorError", err)
	}
	if vendorErr.Message != "NSFW content detected" {
		t.Fatalf("message = %q", vendorErr.Message)
	}
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err should unwrap to ErrProviderFailure, got %v", err)
	}
}

func TestEditTimesOutAfterAttemptCeiling(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("POST /predictions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "pred-3", "status": "starting"})
	})
	mux.HandleFunc("GET /predictions/pred-3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "pred-3", "status": "processing"})
	})

	client := newTestClient(t, server.URL, 4)
	_, err := client.Edit(context.Background(), EditRequest{BaseImage: []byte("x"), Prompt: "p"})
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestEditRequiresCredentialsAndInputs(t *testing.T) {
	client, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Edit(context.Background(), EditRequest{BaseImage: []byte("x"), Prompt: "p"}); !errors.Is(err, ErrMissingAPIToken) {
		t.Fatalf("err = %v, want ErrMissingAPIToken", err)
	}

	client = newTestClient(t, "http://127.0.0.1:0", 1)
	if _, err := client.Edit(context.Background(), EditRequest{BaseImage: []byte("x")}); err == nil {
		t.Fatal("expected error for missing prompt")
	}
	if _, err := client.Edit(context.Background(), EditRequest{Prompt: "p"}); err == nil {
		t.Fatal("expected error for missing base image")
	}
}
