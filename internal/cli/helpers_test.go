package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const (
	testToken    = "tok-123"
	testPassword = "s3cret"
	testEmail    = "ada@example.com"
)

// fakeBlogService stands in for the blog backend and the media host.
type fakeBlogService struct {
	mu      sync.Mutex
	blogs   map[string]map[string]any
	nextID  int
	uploads int
	calls   []string

	// uploadError, when set, is returned by the media host.
	uploadError string
	// expired makes every authenticated call fail with 401.
	expired bool
}

func newFakeBlogService() *fakeBlogService {
	return &fakeBlogService{blogs: map[string]map[string]any{}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeBlogService) authorized(w http.ResponseWriter, r *http.Request) bool {
	if f.expired || r.Header.Get("Authorization") != "Bearer "+testToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
		return false
	}
	return true
}

func (f *fakeBlogService) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["emailAddress"] == "taken@example.com" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []map[string]string{{"message": "Email already in use"}}})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"message": "created"})
	})

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["identifier"] != testEmail || body["password"] != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": testToken,
			"user": map[string]any{
				"id": "u1", "username": "ada", "firstName": "Ada", "lastName": "Lovelace",
				"emailAddress": testEmail, "isDeleted": false,
			},
		})
	})

	mux.HandleFunc("GET /api/blogs", func(w http.ResponseWriter, r *http.Request) {
		if f.expired {
			f.authorized(w, r)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		list := make([]map[string]any, 0, len(f.blogs))
		for i := 1; i <= f.nextID; i++ {
			if b, ok := f.blogs[strconv.Itoa(i)]; ok {
				list = append(list, b)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"blogs": list})
	})

	mux.HandleFunc("GET /api/blogs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		b, ok := f.blogs[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Blog not found"})
			return
		}
		writeJSON(w, http.StatusOK, b)
	})

	mux.HandleFunc("POST /api/blogs", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls = append(f.calls, "create")
		f.nextID++
		id := strconv.Itoa(f.nextID)
		body["_id"] = id
		body["createdAt"] = "2025-05-06T10:00:00Z"
		f.blogs[id] = body
		writeJSON(w, http.StatusCreated, body)
	})

	mux.HandleFunc("PATCH /api/blogs/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls = append(f.calls, "update")
		b, ok := f.blogs[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Blog not found"})
			return
		}
		for k, v := range body {
			b[k] = v
		}
		writeJSON(w, http.StatusOK, b)
	})

	mux.HandleFunc("PATCH /api/blogs/trash/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls = append(f.calls, "trash")
		b, ok := f.blogs[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Blog not found"})
			return
		}
		b["isDeleted"] = true
		writeJSON(w, http.StatusOK, map[string]string{"message": "trashed"})
	})

	mux.HandleFunc("POST /media/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if f.uploadError != "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]string{"message": f.uploadError}})
			return
		}
		if r.FormValue("upload_preset") == "" {
			http.Error(w, "missing preset", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		file.Close()
		f.mu.Lock()
		f.uploads++
		n := f.uploads
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			"public_id": fmt.Sprintf("BlogApp/img%d", n),
			"bytes":     header.Size,
			"width":     8,
			"height":    6,
			"format":    "png",
		})
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unexpected "+r.Method+" "+r.URL.Path, http.StatusTeapot)
	})
	return mux
}

// seed stores a blog directly and returns its id.
func (f *fakeBlogService) seed(blog map[string]any) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := strconv.Itoa(f.nextID)
	blog["_id"] = id
	f.blogs[id] = blog
	return id
}

func (f *fakeBlogService) blog(id string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blogs[id]
}

// TestEnv is an isolated blogctl environment with its own config and data
// directories pointed at a fake blog service.
type TestEnv struct {
	t         *testing.T
	TempDir   string
	ConfigDir string
	DataDir   string
	Service   *fakeBlogService
	Server    *httptest.Server
}

// NewTestEnv writes a config.yaml pointing at a fresh fake service.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	svc := newFakeBlogService()
	srv := httptest.NewServer(svc.handler())
	t.Cleanup(srv.Close)

	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "config")
	dataDir := filepath.Join(tempDir, "data")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := fmt.Sprintf("api_url: %s/api\ntimeout: 5s\nmedia:\n  upload_url: %s/media/upload\n", srv.URL, srv.URL)
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:         t,
		TempDir:   tempDir,
		ConfigDir: configDir,
		DataDir:   dataDir,
		Service:   svc,
		Server:    srv,
	}
}

// CmdResult holds the result of a blogctl invocation.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes blogctl in-process with the environment's directories and
// plain output.
func (e *TestEnv) Run(args ...string) CmdResult {
	e.t.Helper()
	allArgs := append([]string{"--config-dir", e.ConfigDir, "--data-dir", e.DataDir, "--plain"}, args...)

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), allArgs, &stdout, &stderr)
	return CmdResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
}

// MustRun executes blogctl and fails the test on a non-zero exit code.
func (e *TestEnv) MustRun(args ...string) CmdResult {
	e.t.Helper()
	result := e.Run(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("blogctl %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// Login signs in as the fake service's only user.
func (e *TestEnv) Login() {
	e.t.Helper()
	e.MustRun("login", "--identifier", testEmail, "--password", testPassword)
}

// WriteImage writes a small PNG and returns its path.
func (e *TestEnv) WriteImage(name string) string {
	e.t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		img.Set(x, 3, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		e.t.Fatalf("encode png: %v", err)
	}
	path := filepath.Join(e.TempDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		e.t.Fatalf("write image: %v", err)
	}
	return path
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
