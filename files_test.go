package gemkit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadFileResumableProtocol(t *testing.T) {
	var uploadTarget string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload/v1beta/files":
			if r.Header.Get("X-Goog-Upload-Protocol") != "resumable" {
				t.Errorf("upload protocol = %q", r.Header.Get("X-Goog-Upload-Protocol"))
			}
			if r.Header.Get("X-Goog-Upload-Command") != "start" {
				t.Errorf("upload command = %q", r.Header.Get("X-Goog-Upload-Command"))
			}
			if r.Header.Get("X-Goog-Upload-Header-Content-Type") != "text/plain" {
				t.Errorf("content type header = %q", r.Header.Get("X-Goog-Upload-Header-Content-Type"))
			}

			var meta fileUploadMetadata
			if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
				t.Fatalf("decode metadata: %v", err)
			}
			if meta.File.DisplayName != "notes" {
				t.Errorf("display name = %q", meta.File.DisplayName)
			}

			w.Header().Set("X-Goog-Upload-URL", uploadTarget)
			w.WriteHeader(http.StatusOK)

		case "/upload-session":
			if r.Header.Get("X-Goog-Upload-Command") != "upload, finalize" {
				t.Errorf("finalize command = %q", r.Header.Get("X-Goog-Upload-Command"))
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatalf("read content: %v", err)
			}
			if string(body) != "file contents" {
				t.Errorf("uploaded bytes = %q", body)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"file": map[string]any{
					"name":      "files/abc123",
					"mimeType":  "text/plain",
					"sizeBytes": "13",
					"uri":       "https://example.com/v1beta/files/abc123",
					"state":     "PROCESSING",
				},
			})

		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()
	uploadTarget = server.URL + "/upload-session"

	client := New("test-api-key", WithBaseURL(server.URL))

	file, err := client.UploadFile(context.Background(), &FileUploadRequest{
		Content:     strings.NewReader("file contents"),
		DisplayName: "notes",
		MIMEType:    "text/plain",
	})
	if err != nil {
		t.Fatalf("UploadFile error = %v", err)
	}
	if file.Name != "files/abc123" {
		t.Errorf("Name = %q", file.Name)
	}
	if file.SizeBytes != 13 {
		t.Errorf("SizeBytes = %d, want 13 (decoded from string)", file.SizeBytes)
	}
	if file.State != FileStateProcessing {
		t.Errorf("State = %q, want PROCESSING", file.State)
	}

	part := file.AsPart()
	if part.FileData == nil || part.FileData.FileURI != file.URI || part.FileData.MIMEType != "text/plain" {
		t.Errorf("AsPart() = %+v", part)
	}
}

func TestWaitForFileActive(t *testing.T) {
	gets := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gets++
		state := "PROCESSING"
		if gets >= 2 {
			state = "ACTIVE"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"name":     "files/abc123",
			"mimeType": "text/plain",
			"uri":      "https://example.com/v1beta/files/abc123",
			"state":    state,
		})
	}))
	defer server.Close()

	client := New("test-api-key", WithBaseURL(server.URL))

	file, err := client.WaitForFileActive(context.Background(), "files/abc123")
	if err != nil {
		t.Fatalf("WaitForFileActive error = %v", err)
	}
	if file.State != FileStateActive {
		t.Errorf("State = %q, want ACTIVE", file.State)
	}
	if gets < 2 {
		t.Errorf("gets = %d, want at least 2", gets)
	}
}

func TestWaitForFileActiveFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"name":     "files/abc123",
			"mimeType": "text/plain",
			"uri":      "https://example.com/v1beta/files/abc123",
			"state":    "FAILED",
			"error":    map[string]any{"code": 13, "message": "unsupported codec"},
		})
	}))
	defer server.Close()

	client := New("test-api-key", WithBaseURL(server.URL))

	_, err := client.WaitForFileActive(context.Background(), "files/abc123")
	if !errors.Is(err, ErrFileFailed) {
		t.Fatalf("error = %v, want ErrFileFailed", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "unsupported codec" {
		t.Errorf("error detail = %v, want service message", err)
	}
}

func TestListAllFilesPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/files" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("pageToken") {
		case "":
			json.NewEncoder(w).Encode(map[string]any{
				"files":         []any{fileJSON("files/a")},
				"nextPageToken": "next",
			})
		case "next":
			json.NewEncoder(w).Encode(map[string]any{
				"files": []any{fileJSON("files/b")},
			})
		}
	}))
	defer server.Close()

	client := New("test-api-key", WithBaseURL(server.URL))

	files, err := client.ListAllFiles(context.Background())
	if err != nil {
		t.Fatalf("ListAllFiles error = %v", err)
	}
	if len(files) != 2 || files[0].Name != "files/a" || files[1].Name != "files/b" {
		t.Errorf("files = %+v", files)
	}
}

func TestDeleteFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		if r.URL.Path != "/v1beta/files/abc123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New("test-api-key", WithBaseURL(server.URL))

	if err := client.DeleteFile(context.Background(), "files/abc123"); err != nil {
		t.Fatalf("DeleteFile error = %v", err)
	}
}

func fileJSON(name string) map[string]any {
	return map[string]any{
		"name":     name,
		"mimeType": "text/plain",
		"uri":      "https://example.com/v1beta/" + name,
		"state":    "ACTIVE",
	}
}
