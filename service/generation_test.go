package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/client"
	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

type fakeLLMReply struct {
	content string
	err     error
}

// fakeLLMClient returns replies in order and repeats the last one.
type fakeLLMClient struct {
	mutex    sync.Mutex
	replies  []fakeLLMReply
	requests []client.CompletionRequest
}

func (f *fakeLLMClient) Complete(ctx context.Context, req client.CompletionRequest) (*client.Completion, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.requests = append(f.requests, req)
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	if reply.err != nil {
		return nil, reply.err
	}
	return &client.Completion{Content: reply.content}, nil
}

func (f *fakeLLMClient) GetMetrics() view.LLMMetrics { return view.LLMMetrics{} }
func (f *fakeLLMClient) GetModel() string            { return "fake" }
func (f *fakeLLMClient) UpdateModel(string) error    { return nil }

func (f *fakeLLMClient) calls() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.requests)
}

type fakeCatalogService struct{}

func (fakeCatalogService) GetTitles() view.CatalogTitles              { return view.CatalogTitles{} }
func (fakeCatalogService) FindMatchingRoadmaps(topic string) []string { return []string{} }
func (fakeCatalogService) BuildContext(topic string, header string, maxSections int, withNoMatchNote bool) string {
	return header + "\n\nBackend Path:\n1. Internet\n"
}

type fakeSessionStore struct {
	mutex    sync.Mutex
	sessions map[string]view.GenerationSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]view.GenerationSession{}}
}

func (f *fakeSessionStore) GetSession(ctx context.Context, userId string) (*view.GenerationSession, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	s, ok := f.sessions[userId]
	if !ok {
		return &view.GenerationSession{Questions: []string{}}, nil
	}
	return &s, nil
}

func (f *fakeSessionStore) PutSession(ctx context.Context, userId string, session view.GenerationSession) (*view.GenerationSession, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.sessions[userId] = session
	return &session, nil
}

func (f *fakeSessionStore) DeleteSession(ctx context.Context, userId string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	delete(f.sessions, userId)
	return nil
}

func (f *fakeSessionStore) SetLastRoadmap(ctx context.Context, userId string, roadmapId string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	s := f.sessions[userId]
	s.LastRoadmapId = roadmapId
	f.sessions[userId] = s
	return nil
}

func (f *fakeSessionStore) SetSelection(ctx context.Context, userId string, topic string, questions []string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	s := f.sessions[userId]
	s.SelectedTopic = topic
	s.Questions = questions
	f.sessions[userId] = s
	return nil
}

func newTestGenerationService(llm *fakeLLMClient, store SessionStore, attempts int) GenerationService {
	return NewGenerationService(llm, fakeCatalogService{}, store, attempts, time.Millisecond)
}

func statusOf(err error) int {
	var customErr *exception.CustomError
	if errors.As(err, &customErr) {
		return customErr.Status
	}
	return 0
}

const validRoadmapJson = `{"title":"Go Roadmap","description":"Learn Go","mainPath":[` +
	`{"title":"Go Basics","description":"Syntax","difficulty":"Beginner"},` +
	`{"title":"Goroutines","description":"Concurrency","difficulty":"ADVANCED"},` +
	`{"title":"Modules","description":"Dependencies","difficulty":"hard"}]}`

func TestValidateTopic_EmptyTopic(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{{content: "{}"}}}
	_, err := newTestGenerationService(llm, nil, 1).ValidateTopic(context.Background(), "   ")
	if statusOf(err) != http.StatusBadRequest {
		t.Fatalf("ValidateTopic() error = %v, want 400", err)
	}
	if llm.calls() != 0 {
		t.Errorf("LLM was called %d times for an empty topic", llm.calls())
	}
}

func TestValidateTopic_Json(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{{
		content: "```json\n{\"isValid\": true, \"extractedTopic\": \"React\", \"reason\": \"framework\"}\n```",
	}}}
	got, err := newTestGenerationService(llm, nil, 1).ValidateTopic(context.Background(), "I want to learn react")
	if err != nil {
		t.Fatalf("ValidateTopic() error = %v", err)
	}
	if !got.IsValid || got.ExtractedTopic != "React" || got.Reason != "framework" {
		t.Errorf("ValidateTopic() = %+v", got)
	}
	req := llm.requests[0]
	if req.CallType != view.CallValidateTopic || req.Temperature != 0.3 || req.MaxTokens != 150 {
		t.Errorf("unexpected completion request %+v", req)
	}
}

func TestValidateTopic_FieldFallback(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{{
		content: `Sure! "isValid": false, "extractedTopic": "friends", "reason": "not technical", "example": "Python" and more`,
	}}}
	got, err := newTestGenerationService(llm, nil, 1).ValidateTopic(context.Background(), "how to make friends")
	if err != nil {
		t.Fatalf("ValidateTopic() error = %v", err)
	}
	if got.IsValid || got.ExtractedTopic != "friends" || got.Example != "Python" {
		t.Errorf("ValidateTopic() = %+v", got)
	}
}

func TestValidateTopic_Unparseable(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{{content: "I cannot help with that"}}}
	_, err := newTestGenerationService(llm, nil, 1).ValidateTopic(context.Background(), "go")
	if statusOf(err) != http.StatusBadGateway {
		t.Fatalf("ValidateTopic() error = %v, want 502", err)
	}
}

func TestGenerateQuestions(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{{content: `{"questions": ["One?", " ", "Two?", "Three?"]}`}}}
	got, err := newTestGenerationService(llm, nil, 1).GenerateQuestions(context.Background(), "Docker")
	if err != nil {
		t.Fatalf("GenerateQuestions() error = %v", err)
	}
	if len(got.Questions) != 3 {
		t.Errorf("Questions = %v, want 3 questions", got.Questions)
	}
	req := llm.requests[0]
	if !strings.Contains(req.User, "Docker") || !strings.Contains(req.System, QuestionsContextHeader) {
		t.Errorf("prompt does not carry topic and catalog context: %+v", req)
	}
}

func TestGenerateQuestions_Empty(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{{content: `{"questions": []}`}}}
	_, err := newTestGenerationService(llm, nil, 1).GenerateQuestions(context.Background(), "Docker")
	if statusOf(err) != http.StatusBadGateway {
		t.Fatalf("GenerateQuestions() error = %v, want 502", err)
	}
}

func TestValidateAndGenerateQuestions_StoresSession(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{{
		content: `{"validation": {"isValid": true, "extractedTopic": "Kubernetes", "reason": "tool"}, "questions": ["A?", "B?", "C?"]}`,
	}}}
	store := newFakeSessionStore()
	ctx := secctx.MakeSystemContext(context.Background(), "user-1")

	got, err := newTestGenerationService(llm, store, 1).ValidateAndGenerateQuestions(ctx, "k8s please")
	if err != nil {
		t.Fatalf("ValidateAndGenerateQuestions() error = %v", err)
	}
	if len(got.Questions) != 3 {
		t.Errorf("Questions = %v", got.Questions)
	}
	session, _ := store.GetSession(ctx, "user-1")
	if session.SelectedTopic != "Kubernetes" || len(session.Questions) != 3 {
		t.Errorf("session = %+v", session)
	}
}

func TestValidateAndGenerateQuestions_KeepsLastRoadmap(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{{
		content: `{"validation": {"isValid": true, "extractedTopic": "Rust", "reason": "language"}, "questions": ["A?"]}`,
	}}}
	store := newFakeSessionStore()
	ctx := secctx.MakeSystemContext(context.Background(), "user-1")
	if err := store.SetLastRoadmap(ctx, "user-1", "roadmap-7"); err != nil {
		t.Fatalf("SetLastRoadmap() error = %v", err)
	}

	if _, err := newTestGenerationService(llm, store, 1).ValidateAndGenerateQuestions(ctx, "rust"); err != nil {
		t.Fatalf("ValidateAndGenerateQuestions() error = %v", err)
	}
	session, _ := store.GetSession(ctx, "user-1")
	if session.LastRoadmapId != "roadmap-7" || session.SelectedTopic != "Rust" {
		t.Errorf("session = %+v, want lastRoadmapId kept", session)
	}
}

func TestValidateAndGenerateQuestions_InvalidTopicHasNoQuestions(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{{
		content: `{"validation": {"isValid": false, "extractedTopic": "", "reason": "no"}, "questions": ["A?"]}`,
	}}}
	got, err := newTestGenerationService(llm, nil, 1).ValidateAndGenerateQuestions(context.Background(), "cooking")
	if err != nil {
		t.Fatalf("ValidateAndGenerateQuestions() error = %v", err)
	}
	if got.Questions == nil || len(got.Questions) != 0 {
		t.Errorf("Questions = %v, want empty", got.Questions)
	}
}

func TestGenerateRoadmap_NormalizesMainPath(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{{content: validRoadmapJson}}}
	got, err := newTestGenerationService(llm, nil, 3).GenerateRoadmap(context.Background(), view.GenerationReq{Topic: "Go"})
	if err != nil {
		t.Fatalf("GenerateRoadmap() error = %v", err)
	}
	if len(got.Sections) != 3 {
		t.Fatalf("Sections = %v, want 3", got.Sections)
	}
	wantDifficulty := []string{difficultyBeginner, difficultyAdvanced, difficultyIntermediate}
	for i, s := range got.Sections {
		if s.Difficulty != wantDifficulty[i] {
			t.Errorf("Sections[%d].Difficulty = %s, want %s", i, s.Difficulty, wantDifficulty[i])
		}
		if len(s.Topics) != 1 || s.Topics[0].Title != s.Title {
			t.Errorf("Sections[%d].Topics = %v", i, s.Topics)
		}
	}
	if got.Prerequisites == nil || got.AdvancedTopics == nil || got.Projects == nil {
		t.Errorf("nil slices in %+v", got)
	}
	req := llm.requests[0]
	if !strings.Contains(req.User, "Not specified") || req.MaxTokens != 2000 {
		t.Errorf("unexpected roadmap request %+v", req)
	}
}

func TestGenerateRoadmap_RetriesUntilValid(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{
		{content: "not json at all"},
		{content: `{"title": "", "mainPath": []}`},
		{content: validRoadmapJson},
	}}
	got, err := newTestGenerationService(llm, nil, 5).GenerateRoadmap(context.Background(), view.GenerationReq{Topic: "Go"})
	if err != nil {
		t.Fatalf("GenerateRoadmap() error = %v", err)
	}
	if got.Title != "Go Roadmap" || llm.calls() != 3 {
		t.Errorf("GenerateRoadmap() = %+v after %d calls", got, llm.calls())
	}
}

func TestGenerateRoadmap_ReturnsLastErrorAfterAttempts(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{{content: "nope"}}}
	_, err := newTestGenerationService(llm, nil, 2).GenerateRoadmap(context.Background(), view.GenerationReq{Topic: "Go"})
	if statusOf(err) != http.StatusBadGateway {
		t.Fatalf("GenerateRoadmap() error = %v, want 502", err)
	}
	if llm.calls() != 2 {
		t.Errorf("calls = %d, want 2", llm.calls())
	}
}

func TestGenerateRoadmap_RateLimitIsNotRetried(t *testing.T) {
	rateLimited := &exception.CustomError{Status: http.StatusTooManyRequests, Code: exception.LLMRateLimited, Message: exception.LLMRateLimitedMsg}
	llm := &fakeLLMClient{replies: []fakeLLMReply{{err: rateLimited}}}
	_, err := newTestGenerationService(llm, nil, 5).GenerateRoadmap(context.Background(), view.GenerationReq{Topic: "Go"})
	if statusOf(err) != http.StatusTooManyRequests {
		t.Fatalf("GenerateRoadmap() error = %v, want 429", err)
	}
	if llm.calls() != 1 {
		t.Errorf("calls = %d, want 1", llm.calls())
	}
}

func TestGenerateRoadmap_StopsOnCancel(t *testing.T) {
	llm := &fakeLLMClient{replies: []fakeLLMReply{{content: "nope"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewGenerationService(llm, fakeCatalogService{}, nil, 5, time.Hour)
	_, err := svc.GenerateRoadmap(ctx, view.GenerationReq{Topic: "Go"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("GenerateRoadmap() error = %v, want context.Canceled", err)
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	tests := map[string]string{
		"Beginner":      difficultyBeginner,
		" advanced ":    difficultyAdvanced,
		"INTERMEDIATE":  difficultyIntermediate,
		"":              difficultyIntermediate,
		"expert-level!": difficultyIntermediate,
	}
	for in, want := range tests {
		if got := normalizeDifficulty(in); got != want {
			t.Errorf("normalizeDifficulty(%q) = %q, want %q", in, got, want)
		}
	}
}
