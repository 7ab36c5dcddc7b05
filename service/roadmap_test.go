package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/shaj13/go-guardian/v2/auth"
)

func userContext(userId string) context.Context {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = auth.RequestWithUser(auth.NewUserInfo("user", userId, nil, nil), r)
	return secctx.MakeUserContext(r)
}

type fakeRoadmapRepo struct {
	mutex    sync.Mutex
	roadmaps map[string]entity.Roadmap
}

func newFakeRoadmapRepo() *fakeRoadmapRepo {
	return &fakeRoadmapRepo{roadmaps: map[string]entity.Roadmap{}}
}

func (f *fakeRoadmapRepo) ListRoadmaps(ctx context.Context, userId string) ([]entity.Roadmap, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	var res []entity.Roadmap
	for _, r := range f.roadmaps {
		if r.UserId == userId {
			res = append(res, r)
		}
	}
	return res, nil
}

func (f *fakeRoadmapRepo) GetRoadmap(ctx context.Context, id string) (*entity.Roadmap, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	r, ok := f.roadmaps[id]
	if !ok {
		return nil, nil
	}
	// topics are copied so that callers cannot change stored state without saving
	r.Topics = append([]view.Topic{}, r.Topics...)
	return &r, nil
}

func (f *fakeRoadmapRepo) CreateRoadmap(ctx context.Context, ent *entity.Roadmap) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.roadmaps[ent.Id] = *ent
	return nil
}

func (f *fakeRoadmapRepo) UpdateRoadmap(ctx context.Context, ent *entity.Roadmap) error {
	return f.CreateRoadmap(ctx, ent)
}

func (f *fakeRoadmapRepo) DeleteRoadmap(ctx context.Context, id string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	delete(f.roadmaps, id)
	return nil
}

type fakeNoteRepo struct {
	notes []entity.Note
}

func (f *fakeNoteRepo) ListNotes(ctx context.Context, roadmapId string, userId string) ([]entity.Note, error) {
	var res []entity.Note
	for _, n := range f.notes {
		if n.RoadmapId == roadmapId && n.UserId == userId {
			res = append(res, n)
		}
	}
	return res, nil
}

func (f *fakeNoteRepo) UpsertNote(ctx context.Context, ent *entity.Note) error {
	for i, n := range f.notes {
		if n.RoadmapId == ent.RoadmapId && n.UserId == ent.UserId && n.VideoId == ent.VideoId {
			f.notes[i] = *ent
			return nil
		}
	}
	f.notes = append(f.notes, *ent)
	return nil
}

func (f *fakeNoteRepo) DeleteNote(ctx context.Context, roadmapId string, userId string, videoId string) (bool, error) {
	for i, n := range f.notes {
		if n.RoadmapId == roadmapId && n.UserId == userId && n.VideoId == videoId {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNoteRepo) CountUserNotes(ctx context.Context, userId string) (int, error) {
	return len(f.notes), nil
}

type fakeResourceService struct {
	ResourceService
	found []view.LearningResource
}

func (f fakeResourceService) FindForTechnology(ctx context.Context, technology string, limit int, refresh bool) (*view.TechnologyResources, error) {
	return &view.TechnologyResources{Technology: technology, Resources: f.found}, nil
}

func newTestRoadmapService(repo *fakeRoadmapRepo, notes *fakeNoteRepo, found []view.LearningResource) RoadmapService {
	return NewRoadmapService(repo, notes, fakeResourceService{found: found}, NewAuthorizationService())
}

func validRoadmapReq() view.RoadmapReq {
	return view.RoadmapReq{
		Title:       "Go",
		Description: "Learn Go",
		Category:    "Backend",
		Difficulty:  view.DifficultyBeginner,
		Topics: []view.Topic{
			{Title: "Syntax", Description: "basics"},
			{Title: "Concurrency", Description: "goroutines"},
		},
		Projects: []view.Project{{Title: "CLI"}},
	}
}

func TestCreateRoadmap_Validation(t *testing.T) {
	svc := newTestRoadmapService(newFakeRoadmapRepo(), &fakeNoteRepo{}, nil)
	ctx := userContext("u1")

	req := validRoadmapReq()
	req.Category = ""
	if _, err := svc.CreateRoadmap(ctx, req); statusOf(err) != http.StatusBadRequest {
		t.Errorf("CreateRoadmap() without category error = %v, want 400", err)
	}
	req = validRoadmapReq()
	req.Difficulty = "Expert"
	if _, err := svc.CreateRoadmap(ctx, req); statusOf(err) != http.StatusBadRequest {
		t.Errorf("CreateRoadmap() with bad difficulty error = %v, want 400", err)
	}
}

func TestCreateRoadmap(t *testing.T) {
	repo := newFakeRoadmapRepo()
	svc := newTestRoadmapService(repo, &fakeNoteRepo{}, nil)

	got, err := svc.CreateRoadmap(userContext("u1"), validRoadmapReq())
	if err != nil {
		t.Fatalf("CreateRoadmap() error = %v", err)
	}
	if got.UserId != "u1" || len(got.Topics) != 2 || got.CompletionPercentage != 0 {
		t.Fatalf("CreateRoadmap() = %+v", got)
	}
	for i, topic := range got.Topics {
		if topic.Id == "" || topic.Order != i+1 || topic.Status != view.TopicNotStarted {
			t.Errorf("Topics[%d] = %+v", i, topic)
		}
	}
	if got.Projects[0].Description != noDescription || got.AdvancedTopics == nil {
		t.Errorf("projects = %+v, advanced topics = %v", got.Projects, got.AdvancedTopics)
	}
	if _, ok := repo.roadmaps[got.Id]; !ok {
		t.Error("roadmap is not stored")
	}
}

func TestRoadmapOwnership(t *testing.T) {
	repo := newFakeRoadmapRepo()
	svc := newTestRoadmapService(repo, &fakeNoteRepo{}, nil)
	created, err := svc.CreateRoadmap(userContext("owner"), validRoadmapReq())
	if err != nil {
		t.Fatalf("CreateRoadmap() error = %v", err)
	}
	other := userContext("other")

	if _, err := svc.GetRoadmap(other, created.Id); statusOf(err) != http.StatusForbidden {
		t.Errorf("GetRoadmap() by other user error = %v, want 403", err)
	}
	if err := svc.DeleteRoadmap(other, created.Id); statusOf(err) != http.StatusForbidden {
		t.Errorf("DeleteRoadmap() by other user error = %v, want 403", err)
	}
	if _, err := svc.GetRoadmap(other, "missing"); statusOf(err) != http.StatusNotFound {
		t.Errorf("GetRoadmap() of missing roadmap error = %v, want 404", err)
	}

	public := true
	if _, err := svc.UpdateRoadmap(userContext("owner"), created.Id, view.RoadmapUpdateReq{IsPublic: &public}); err != nil {
		t.Fatalf("UpdateRoadmap() error = %v", err)
	}
	if _, err := svc.GetRoadmap(other, created.Id); err != nil {
		t.Errorf("GetRoadmap() of public roadmap error = %v", err)
	}
}

func TestTopicProgress(t *testing.T) {
	repo := newFakeRoadmapRepo()
	svc := newTestRoadmapService(repo, &fakeNoteRepo{}, nil)
	ctx := userContext("u1")
	created, _ := svc.CreateRoadmap(ctx, validRoadmapReq())
	topicId := created.Topics[0].Id

	if _, err := svc.UpdateTopicProgress(ctx, created.Id, topicId, view.TopicProgressReq{Status: "done"}); statusOf(err) != http.StatusBadRequest {
		t.Errorf("UpdateTopicProgress() with bad status error = %v, want 400", err)
	}
	if _, err := svc.UpdateTopicProgress(ctx, created.Id, "missing", view.TopicProgressReq{Status: view.TopicCompleted}); statusOf(err) != http.StatusNotFound {
		t.Errorf("UpdateTopicProgress() of missing topic error = %v, want 404", err)
	}
	got, err := svc.UpdateTopicProgress(ctx, created.Id, topicId, view.TopicProgressReq{Status: view.TopicCompleted})
	if err != nil {
		t.Fatalf("UpdateTopicProgress() error = %v", err)
	}
	if got.CompletionPercentage != 50 {
		t.Errorf("CompletionPercentage = %d, want 50", got.CompletionPercentage)
	}
}

func TestGenerateTopicResourcesAndProgress(t *testing.T) {
	repo := newFakeRoadmapRepo()
	found := []view.LearningResource{
		{Url: "p", Title: "Playlist", Type: view.LearningResourcePlaylist, Videos: []view.ResourceVideo{
			{Title: "Part 1", Url: "v1", Duration: "10:00"},
			{Title: "Part 2", Url: "v2", Duration: "5:00"},
		}},
		{Url: "v3", Title: "Single", Type: view.LearningResourceVideo},
	}
	svc := newTestRoadmapService(repo, &fakeNoteRepo{}, found)
	ctx := userContext("u1")
	created, _ := svc.CreateRoadmap(ctx, validRoadmapReq())
	topicId := created.Topics[0].Id

	topic, err := svc.GenerateTopicResources(ctx, created.Id, topicId)
	if err != nil {
		t.Fatalf("GenerateTopicResources() error = %v", err)
	}
	if len(topic.Resources) != 3 || topic.TotalResources != 3 || !topic.HasGeneratedResources {
		t.Fatalf("topic = %+v", topic)
	}
	if topic.Resources[0].Duration != 600 || !topic.Resources[0].IsRequired || topic.Resources[2].IsRequired {
		t.Errorf("resources = %+v", topic.Resources)
	}
	if _, err := svc.GenerateTopicResources(ctx, created.Id, topicId); statusOf(err) != http.StatusBadRequest {
		t.Errorf("second GenerateTopicResources() error = %v, want 400", err)
	}

	ids := []string{topic.Resources[0].Id, topic.Resources[0].Id, topic.Resources[1].Id}
	got, err := svc.UpdateRoadmapProgress(ctx, created.Id, view.RoadmapProgressReq{TopicId: topicId, CompletedResourceIds: ids})
	if err != nil {
		t.Fatalf("UpdateRoadmapProgress() error = %v", err)
	}
	updated := got.Topics[0]
	if updated.CompletedResources != 2 || updated.Status != view.TopicInProgress {
		t.Errorf("topic = %+v", updated)
	}
	if got.CompletionPercentage != 67 {
		t.Errorf("CompletionPercentage = %d, want 67", got.CompletionPercentage)
	}
}

func TestCreateGeneratedRoadmap(t *testing.T) {
	repo := newFakeRoadmapRepo()
	svc := newTestRoadmapService(repo, &fakeNoteRepo{}, nil)
	generated := view.GeneratedRoadmap{
		Title:       "Rust",
		Description: "Systems programming",
		Sections: []view.Section{
			{Title: "Basics", Description: "Start here.", Difficulty: difficultyBeginner, Topics: []view.SectionTopic{{Title: "Ownership"}, {Title: "Borrowing"}}},
		},
		Prerequisites: []view.AdvancedTopic{{Title: "CLI"}},
	}

	got, err := svc.CreateGeneratedRoadmap(secctx.MakeSystemContext(context.Background(), "u1"), "u1", generated,
		view.GenerationReq{Topic: "Rust", ExperienceLevel: "Complete beginner"})
	if err != nil {
		t.Fatalf("CreateGeneratedRoadmap() error = %v", err)
	}
	if got.Category != generatedRoadmapCategory || got.Difficulty != view.DifficultyBeginner || got.UserId != "u1" {
		t.Errorf("roadmap = %+v", got)
	}
	if got.Topics[0].Description != "Start here. Covers: Ownership, Borrowing." {
		t.Errorf("topic description = %q", got.Topics[0].Description)
	}
	if !strings.Contains(got.Description, "Prerequisites: CLI.") {
		t.Errorf("description = %q", got.Description)
	}
}

func TestExportRoadmap(t *testing.T) {
	repo := newFakeRoadmapRepo()
	notes := &fakeNoteRepo{}
	svc := newTestRoadmapService(repo, notes, []view.LearningResource{{Url: "v1", Title: "Intro", Type: view.LearningResourceVideo}})
	ctx := userContext("u1")
	created, _ := svc.CreateRoadmap(ctx, validRoadmapReq())
	topic, _ := svc.GenerateTopicResources(ctx, created.Id, created.Topics[0].Id)
	notes.notes = append(notes.notes, entity.Note{RoadmapId: created.Id, UserId: "u1", VideoId: topic.Resources[0].Id, Notes: "remember this"})

	exported, err := svc.ExportRoadmap(ctx, created.Id, ExportFormatJson)
	if err != nil {
		t.Fatalf("ExportRoadmap(json) error = %v", err)
	}
	var doc view.RoadmapExport
	if err := json.Unmarshal(exported.Data, &doc); err != nil {
		t.Fatalf("exported json is invalid: %v", err)
	}
	if doc.Roadmap.Id != created.Id || doc.Notes[topic.Resources[0].Id] != "remember this" || exported.FileName != "go.json" {
		t.Errorf("export = %+v, file %s", doc, exported.FileName)
	}

	md, err := svc.ExportRoadmap(ctx, created.Id, ExportFormatMarkdown)
	if err != nil {
		t.Fatalf("ExportRoadmap(markdown) error = %v", err)
	}
	text := string(md.Data)
	if !strings.HasPrefix(text, "# Go\n") || !strings.Contains(text, "[Intro](v1)") || !strings.Contains(text, "> remember this") {
		t.Errorf("markdown export = %s", text)
	}

	if _, err := svc.ExportRoadmap(ctx, created.Id, "pdf"); statusOf(err) != http.StatusBadRequest {
		t.Errorf("ExportRoadmap(pdf) error = %v, want 400", err)
	}
}

func TestExportFileName(t *testing.T) {
	tests := map[string]string{
		"Full Stack: 2025!": "full-stack-2025",
		"C++":               "c",
		"***":               "roadmap",
	}
	for in, want := range tests {
		if got := exportFileName(in); got != want {
			t.Errorf("exportFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
