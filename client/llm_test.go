package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

const chatCompletionBody = `{"id":"c1","object":"chat.completion","created":1,"model":"test-model",` +
	`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"ok\":true}"}}],` +
	`"usage":{"prompt_tokens":3,"completion_tokens":4,"total_tokens":7}}`

const rateLimitBody = `{"error":{"message":"Rate limit reached","type":"rate_limit_exceeded","code":"rate_limit_exceeded"}}`

// fakeLLMServer answers each request with the next status from statuses, then 200.
type fakeLLMServer struct {
	mutex    sync.Mutex
	statuses []int
	keys     []string
}

func (f *fakeLLMServer) handler(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	f.keys = append(f.keys, r.Header.Get("Authorization"))
	status := http.StatusOK
	if len(f.statuses) > 0 {
		status = f.statuses[0]
		f.statuses = f.statuses[1:]
	}
	f.mutex.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = w.Write([]byte(chatCompletionBody))
		return
	}
	_, _ = w.Write([]byte(rateLimitBody))
}

func newTestLLMClient(t *testing.T, srv *httptest.Server, keys []string, maxRetries int) LLMClient {
	t.Helper()
	cl, err := NewOpenaiClient(LLMConfig{
		BaseURL:        srv.URL + "/",
		Model:          "test-model",
		ApiKeys:        keys,
		MaxRetries:     maxRetries,
		RateLimitDelay: time.Millisecond,
		Timeout:        5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewOpenaiClient() error = %v", err)
	}
	return cl
}

func testRequest() CompletionRequest {
	return CompletionRequest{
		CallType:    view.CallValidateTopic,
		System:      "system",
		User:        "user",
		Temperature: 0.3,
		MaxTokens:   150,
	}
}

func TestComplete_Success(t *testing.T) {
	fake := &fakeLLMServer{}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	cl := newTestLLMClient(t, srv, []string{"key-a"}, 3)
	got, err := cl.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got.Content != `{"ok":true}` {
		t.Errorf("Content = %q", got.Content)
	}
	if got.TotalTokens != 7 {
		t.Errorf("TotalTokens = %d, want 7", got.TotalTokens)
	}
	if len(fake.keys) != 1 || fake.keys[0] != "Bearer key-a" {
		t.Errorf("Authorization headers = %v", fake.keys)
	}
}

func TestComplete_RateLimitRotatesKey(t *testing.T) {
	fake := &fakeLLMServer{statuses: []int{http.StatusTooManyRequests}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	cl := newTestLLMClient(t, srv, []string{"key-a", "key-b"}, 3)
	if _, err := cl.Complete(context.Background(), testRequest()); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	want := []string{"Bearer key-a", "Bearer key-b"}
	if len(fake.keys) != len(want) || fake.keys[0] != want[0] || fake.keys[1] != want[1] {
		t.Errorf("Authorization headers = %v, want %v", fake.keys, want)
	}

	m := cl.GetMetrics()
	if m.Calls != 1 || m.Successes != 1 || m.TotalTokens != 7 {
		t.Errorf("metrics = %+v", m)
	}
	if m.CallTypes[view.CallValidateTopic].Calls != 1 {
		t.Errorf("call type metrics = %+v", m.CallTypes)
	}
}

func TestComplete_RateLimitRetriesExhausted(t *testing.T) {
	fake := &fakeLLMServer{statuses: []int{429, 429, 429, 429, 429}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	cl := newTestLLMClient(t, srv, []string{"key-a", "key-b"}, 2)
	_, err := cl.Complete(context.Background(), testRequest())

	var customErr *exception.CustomError
	if !errors.As(err, &customErr) {
		t.Fatalf("Complete() error = %v, want *CustomError", err)
	}
	if customErr.Status != http.StatusTooManyRequests || customErr.Code != exception.LLMRateLimited {
		t.Errorf("error = %+v", customErr)
	}
	if len(fake.keys) != 3 {
		t.Errorf("requests = %d, want 3", len(fake.keys))
	}
	if m := cl.GetMetrics(); m.Failures != 1 {
		t.Errorf("Failures = %d, want 1", m.Failures)
	}
}

func TestComplete_UnauthorizedKeysExhausted(t *testing.T) {
	fake := &fakeLLMServer{statuses: []int{401, 401}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	cl := newTestLLMClient(t, srv, []string{"key-a", "key-b"}, 3)
	_, err := cl.Complete(context.Background(), testRequest())

	var customErr *exception.CustomError
	if !errors.As(err, &customErr) || customErr.Code != exception.LLMKeysExhausted {
		t.Fatalf("Complete() error = %v, want keys exhausted", err)
	}
	if len(fake.keys) != 2 {
		t.Errorf("requests = %d, want 2", len(fake.keys))
	}
}

func TestComplete_OtherStatusFails(t *testing.T) {
	fake := &fakeLLMServer{statuses: []int{http.StatusBadRequest}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	cl := newTestLLMClient(t, srv, []string{"key-a"}, 3)
	_, err := cl.Complete(context.Background(), testRequest())

	var customErr *exception.CustomError
	if !errors.As(err, &customErr) || customErr.Status != http.StatusBadGateway {
		t.Fatalf("Complete() error = %v, want 502 CustomError", err)
	}
	if len(fake.keys) != 1 {
		t.Errorf("requests = %d, want 1", len(fake.keys))
	}
}

func TestComplete_ContextCancelledDuringBackoff(t *testing.T) {
	fake := &fakeLLMServer{statuses: []int{429, 429}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	cl, err := NewOpenaiClient(LLMConfig{
		BaseURL:        srv.URL,
		ApiKeys:        []string{"key-a"},
		MaxRetries:     3,
		RateLimitDelay: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewOpenaiClient() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = cl.Complete(ctx, testRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Complete() error = %v, want deadline exceeded", err)
	}
}

func TestNewOpenaiClient_RequiresKey(t *testing.T) {
	if _, err := NewOpenaiClient(LLMConfig{ApiKeys: []string{" ", ""}}); err == nil {
		t.Errorf("NewOpenaiClient() error = nil, want error")
	}
}

func TestUpdateModel(t *testing.T) {
	cl, err := NewOpenaiClient(LLMConfig{ApiKeys: []string{"k"}})
	if err != nil {
		t.Fatal(err)
	}
	if cl.GetModel() != "llama-3.3-70b-versatile" {
		t.Errorf("default model = %s", cl.GetModel())
	}
	if err := cl.UpdateModel("  "); err == nil {
		t.Errorf("UpdateModel(blank) error = nil")
	}
	if err := cl.UpdateModel("other"); err != nil || cl.GetModel() != "other" {
		t.Errorf("UpdateModel() = %v, model %s", err, cl.GetModel())
	}
}
