package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/repository"
	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/utils"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	ExportFormatJson     = "json"
	ExportFormatMarkdown = "markdown"

	generatedRoadmapCategory = "Generated"
	topicResourcesLimit      = 5
)

type ExportedRoadmap struct {
	Data        []byte
	ContentType string
	FileName    string
}

type RoadmapService interface {
	ListRoadmaps(ctx context.Context) ([]view.Roadmap, error)
	GetRoadmap(ctx context.Context, id string) (*view.Roadmap, error)
	CreateRoadmap(ctx context.Context, req view.RoadmapReq) (*view.Roadmap, error)
	CreateGeneratedRoadmap(ctx context.Context, userId string, generated view.GeneratedRoadmap, req view.GenerationReq) (*view.Roadmap, error)
	UpdateRoadmap(ctx context.Context, id string, req view.RoadmapUpdateReq) (*view.Roadmap, error)
	DeleteRoadmap(ctx context.Context, id string) error
	AddTopic(ctx context.Context, id string, req view.AddTopicReq) (*view.Roadmap, error)
	UpdateTopicProgress(ctx context.Context, id string, topicId string, req view.TopicProgressReq) (*view.Roadmap, error)
	UpdateRoadmapProgress(ctx context.Context, id string, req view.RoadmapProgressReq) (*view.Roadmap, error)
	GenerateTopicResources(ctx context.Context, id string, topicId string) (*view.Topic, error)
	ExportRoadmap(ctx context.Context, id string, format string) (*ExportedRoadmap, error)
}

func NewRoadmapService(roadmapRepo repository.RoadmapRepository, noteRepo repository.NoteRepository,
	resourceService ResourceService, authorizationService AuthorizationService) RoadmapService {
	return &roadmapServiceImpl{
		roadmapRepo:          roadmapRepo,
		noteRepo:             noteRepo,
		resourceService:      resourceService,
		authorizationService: authorizationService,
		now:                  time.Now,
	}
}

type roadmapServiceImpl struct {
	roadmapRepo          repository.RoadmapRepository
	noteRepo             repository.NoteRepository
	resourceService      ResourceService
	authorizationService AuthorizationService
	now                  func() time.Time
}

func (r roadmapServiceImpl) ListRoadmaps(ctx context.Context) ([]view.Roadmap, error) {
	ents, err := r.roadmapRepo.ListRoadmaps(ctx, secctx.GetUserId(ctx))
	if err != nil {
		return nil, err
	}
	result := make([]view.Roadmap, 0, len(ents))
	for _, ent := range ents {
		result = append(result, entity.MakeRoadmapView(ent))
	}
	return result, nil
}

func (r roadmapServiceImpl) GetRoadmap(ctx context.Context, id string) (*view.Roadmap, error) {
	ent, err := r.getRoadmapEnt(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.authorizationService.CanReadRoadmap(ctx, ent.UserId, ent.IsPublic) {
		return nil, notRoadmapOwner("access")
	}
	res := entity.MakeRoadmapView(*ent)
	return &res, nil
}

func (r roadmapServiceImpl) CreateRoadmap(ctx context.Context, req view.RoadmapReq) (*view.Roadmap, error) {
	var missing []string
	if strings.TrimSpace(req.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(req.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(req.Category) == "" {
		missing = append(missing, "category")
	}
	if req.Difficulty == "" {
		missing = append(missing, "difficulty")
	}
	if len(missing) > 0 {
		return nil, requiredParamsMissing(missing...)
	}
	if !req.Difficulty.IsValid() {
		return nil, invalidParam("difficulty", "must be one of Beginner, Intermediate, Advanced")
	}

	topics := make([]view.Topic, 0, len(req.Topics))
	for i, t := range req.Topics {
		t.Id = ""
		t.Order = i + 1
		t.Status = view.TopicNotStarted
		t.HasGeneratedResources = len(t.Resources) > 0
		t.CompletedResourceIds = nil
		topics = append(topics, t)
	}

	now := r.now()
	ent := &entity.Roadmap{
		Id:             uuid.New().String(),
		UserId:         secctx.GetUserId(ctx),
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Category:       strings.TrimSpace(req.Category),
		Difficulty:     req.Difficulty,
		IsPublic:       req.IsPublic,
		IsCustom:       req.IsCustom,
		Topics:         topics,
		AdvancedTopics: prepareAdvancedTopics(req.AdvancedTopics),
		Projects:       prepareProjects(req.Projects),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return r.insert(ctx, ent)
}

func (r roadmapServiceImpl) CreateGeneratedRoadmap(ctx context.Context, userId string, generated view.GeneratedRoadmap, req view.GenerationReq) (*view.Roadmap, error) {
	topics := make([]view.Topic, 0, len(generated.Sections))
	for i, s := range generated.Sections {
		description := s.Description
		if covers := sectionTopicTitles(s); covers != "" && covers != s.Title {
			description = strings.TrimSpace(description + " Covers: " + covers + ".")
		}
		topics = append(topics, view.Topic{
			Title:       s.Title,
			Description: description,
			Order:       i + 1,
			Difficulty:  s.Difficulty,
			Status:      view.TopicNotStarted,
		})
	}
	description := generated.Description
	if description == "" {
		description = fmt.Sprintf("Learning roadmap for %s", req.Topic)
	}
	if len(generated.Prerequisites) > 0 {
		titles := make([]string, 0, len(generated.Prerequisites))
		for _, p := range generated.Prerequisites {
			titles = append(titles, p.Title)
		}
		description = fmt.Sprintf("%s Prerequisites: %s.", description, strings.Join(titles, ", "))
	}
	now := r.now()
	ent := &entity.Roadmap{
		Id:             uuid.New().String(),
		UserId:         userId,
		Title:          generated.Title,
		Description:    description,
		Category:       generatedRoadmapCategory,
		Difficulty:     difficultyFromExperience(req.ExperienceLevel),
		Topics:         topics,
		AdvancedTopics: prepareAdvancedTopics(generated.AdvancedTopics),
		Projects:       prepareProjects(generated.Projects),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return r.insert(ctx, ent)
}

func sectionTopicTitles(s view.Section) string {
	titles := make([]string, 0, len(s.Topics))
	for _, t := range s.Topics {
		if t.Title != "" {
			titles = append(titles, t.Title)
		}
	}
	return strings.Join(titles, ", ")
}

func difficultyFromExperience(level string) view.Difficulty {
	l := strings.ToLower(level)
	switch {
	case strings.Contains(l, "advanced") || strings.Contains(l, "expert"):
		return view.DifficultyAdvanced
	case strings.Contains(l, "beginner") || strings.Contains(l, "no experience") || strings.Contains(l, "new"):
		return view.DifficultyBeginner
	default:
		return view.DifficultyIntermediate
	}
}

func (r roadmapServiceImpl) insert(ctx context.Context, ent *entity.Roadmap) (*view.Roadmap, error) {
	ent.Topics = prepareTopics(ent.Topics)
	ent.CompletionPercentage = calculateCompletion(ent.Topics)
	if err := r.roadmapRepo.CreateRoadmap(ctx, ent); err != nil {
		return nil, fmt.Errorf("failed to create roadmap: %w", err)
	}
	log.Infof("Roadmap %s created for user %s", ent.Id, ent.UserId)
	res := entity.MakeRoadmapView(*ent)
	return &res, nil
}

func (r roadmapServiceImpl) UpdateRoadmap(ctx context.Context, id string, req view.RoadmapUpdateReq) (*view.Roadmap, error) {
	ent, err := r.getOwnedRoadmap(ctx, id, "update")
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, invalidParam("title", "must not be empty")
		}
		ent.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		ent.Description = *req.Description
	}
	if req.Category != nil {
		ent.Category = *req.Category
	}
	if req.Difficulty != nil {
		if !req.Difficulty.IsValid() {
			return nil, invalidParam("difficulty", "must be one of Beginner, Intermediate, Advanced")
		}
		ent.Difficulty = *req.Difficulty
	}
	if req.IsPublic != nil {
		ent.IsPublic = *req.IsPublic
	}
	if req.Topics != nil {
		ent.Topics = *req.Topics
	}
	if req.AdvancedTopics != nil {
		ent.AdvancedTopics = prepareAdvancedTopics(*req.AdvancedTopics)
	}
	if req.Projects != nil {
		ent.Projects = prepareProjects(*req.Projects)
	}
	return r.save(ctx, ent)
}

func (r roadmapServiceImpl) save(ctx context.Context, ent *entity.Roadmap) (*view.Roadmap, error) {
	ent.Topics = prepareTopics(ent.Topics)
	ent.CompletionPercentage = calculateCompletion(ent.Topics)
	ent.UpdatedAt = r.now()
	if err := r.roadmapRepo.UpdateRoadmap(ctx, ent); err != nil {
		return nil, fmt.Errorf("failed to update roadmap %s: %w", ent.Id, err)
	}
	res := entity.MakeRoadmapView(*ent)
	return &res, nil
}

func (r roadmapServiceImpl) DeleteRoadmap(ctx context.Context, id string) error {
	ent, err := r.getOwnedRoadmap(ctx, id, "delete")
	if err != nil {
		return err
	}
	if err := r.roadmapRepo.DeleteRoadmap(ctx, ent.Id); err != nil {
		return fmt.Errorf("failed to delete roadmap %s: %w", id, err)
	}
	log.Infof("Roadmap %s deleted", id)
	return nil
}

func (r roadmapServiceImpl) AddTopic(ctx context.Context, id string, req view.AddTopicReq) (*view.Roadmap, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, requiredParamsMissing("title", "description")
	}
	ent, err := r.getOwnedRoadmap(ctx, id, "add topics to")
	if err != nil {
		return nil, err
	}
	ent.Topics = append(ent.Topics, view.Topic{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Order:       len(ent.Topics) + 1,
		Status:      view.TopicNotStarted,
	})
	return r.save(ctx, ent)
}

func (r roadmapServiceImpl) UpdateTopicProgress(ctx context.Context, id string, topicId string, req view.TopicProgressReq) (*view.Roadmap, error) {
	if !req.Status.IsValid() {
		return nil, invalidParam("status", "must be one of not-started, in-progress, completed")
	}
	ent, err := r.getOwnedRoadmap(ctx, id, "update progress for")
	if err != nil {
		return nil, err
	}
	idx := findTopic(ent.Topics, topicId)
	if idx < 0 {
		return nil, topicNotFound(id, topicId)
	}
	ent.Topics[idx].Status = req.Status
	return r.save(ctx, ent)
}

func (r roadmapServiceImpl) UpdateRoadmapProgress(ctx context.Context, id string, req view.RoadmapProgressReq) (*view.Roadmap, error) {
	if req.TopicId == "" {
		return nil, requiredParamsMissing("topicId")
	}
	ent, err := r.getOwnedRoadmap(ctx, id, "update progress for")
	if err != nil {
		return nil, err
	}
	idx := findTopic(ent.Topics, req.TopicId)
	if idx < 0 {
		return nil, topicNotFound(id, req.TopicId)
	}
	topic := &ent.Topics[idx]
	topic.CompletedResourceIds = uniqueIds(req.CompletedResourceIds)
	if topic.TotalResources == 0 {
		topic.TotalResources = len(topic.Resources)
	}
	topic.CompletedResources = countCompletedResources(*topic)
	topic.Status = topicStatusFromResources(*topic)
	return r.save(ctx, ent)
}

func (r roadmapServiceImpl) GenerateTopicResources(ctx context.Context, id string, topicId string) (*view.Topic, error) {
	ent, err := r.getOwnedRoadmap(ctx, id, "generate resources for")
	if err != nil {
		return nil, err
	}
	idx := findTopic(ent.Topics, topicId)
	if idx < 0 {
		return nil, topicNotFound(id, topicId)
	}
	if ent.Topics[idx].HasGeneratedResources {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.ResourcesAlreadyGenerated,
			Message: exception.ResourcesAlreadyGeneratedMsg,
		}
	}

	found, err := r.resourceService.FindForTechnology(ctx, ent.Topics[idx].Title, topicResourcesLimit, false)
	if err != nil {
		return nil, err
	}
	resources := makeTopicResources(found.Resources)
	topic := &ent.Topics[idx]
	topic.Resources = append(topic.Resources, resources...)
	topic.HasGeneratedResources = true
	topic.TotalResources = len(topic.Resources)

	saved, err := r.save(ctx, ent)
	if err != nil {
		return nil, err
	}
	log.Infof("Generated %d resources for topic %s of roadmap %s", len(resources), topicId, id)
	res := saved.Topics[idx]
	return &res, nil
}

// makeTopicResources turns cached finder results into topic resources. A playlist with known videos
// contributes one resource per video so that every video can be ticked off separately.
func makeTopicResources(found []view.LearningResource) []view.TopicResource {
	res := make([]view.TopicResource, 0, len(found))
	for i, lr := range found {
		thumbnail := ""
		if lr.Metadata != nil {
			thumbnail = lr.Metadata.ThumbnailUrl
		}
		if lr.Type == view.LearningResourcePlaylist && len(lr.Videos) > 0 {
			for _, v := range lr.Videos {
				res = append(res, view.TopicResource{
					Id:           uuid.New().String(),
					Title:        v.Title,
					Url:          v.Url,
					Type:         view.ResourceTypeVideo,
					ThumbnailUrl: v.Thumbnail,
					Source:       "YouTube",
					Duration:     utils.ParseDurationToSeconds(v.Duration),
					DurationText: v.Duration,
					IsRequired:   i == 0,
				})
			}
			continue
		}
		duration := ""
		if len(lr.Videos) > 0 {
			duration = lr.Videos[0].Duration
		}
		res = append(res, view.TopicResource{
			Id:           uuid.New().String(),
			Title:        lr.Title,
			Url:          lr.Url,
			Type:         view.ResourceTypeVideo,
			Description:  lr.Description,
			ThumbnailUrl: thumbnail,
			Source:       "YouTube",
			Duration:     utils.ParseDurationToSeconds(duration),
			DurationText: duration,
			IsRequired:   i == 0,
		})
	}
	return res
}

func (r roadmapServiceImpl) ExportRoadmap(ctx context.Context, id string, format string) (*ExportedRoadmap, error) {
	roadmap, err := r.GetRoadmap(ctx, id)
	if err != nil {
		return nil, err
	}
	notes := map[string]string{}
	if userId := secctx.GetUserId(ctx); userId != "" {
		ents, err := r.noteRepo.ListNotes(ctx, id, userId)
		if err != nil {
			return nil, err
		}
		for _, n := range ents {
			notes[n.VideoId] = n.Notes
		}
	}

	fileBase := exportFileName(roadmap.Title)
	switch format {
	case "", ExportFormatJson:
		data, err := json.MarshalIndent(view.RoadmapExport{ExportedAt: r.now(), Roadmap: *roadmap, Notes: notes}, "", "  ")
		if err != nil {
			return nil, err
		}
		return &ExportedRoadmap{Data: data, ContentType: "application/json", FileName: fileBase + ".json"}, nil
	case ExportFormatMarkdown:
		return &ExportedRoadmap{
			Data:        []byte(renderRoadmapMarkdown(*roadmap, notes)),
			ContentType: "text/markdown; charset=utf-8",
			FileName:    fileBase + ".md",
		}, nil
	default:
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": "format", "value": format},
		}
	}
}

func exportFileName(title string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(title) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		return "roadmap"
	}
	return name
}

func renderRoadmapMarkdown(r view.Roadmap, notes map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", r.Title, r.Description)
	fmt.Fprintf(&b, "- Category: %s\n- Difficulty: %s\n- Completion: %d%%\n\n", r.Category, r.Difficulty, r.CompletionPercentage)

	b.WriteString("## Topics\n\n")
	for _, t := range r.Topics {
		check := " "
		if t.Status == view.TopicCompleted {
			check = "x"
		}
		fmt.Fprintf(&b, "%d. [%s] **%s**: %s\n", t.Order, check, t.Title, t.Description)
		for _, res := range t.Resources {
			fmt.Fprintf(&b, "    - [%s](%s)", res.Title, res.Url)
			if res.DurationText != "" {
				fmt.Fprintf(&b, " (%s)", res.DurationText)
			}
			b.WriteString("\n")
			if note := notes[res.Id]; note != "" {
				fmt.Fprintf(&b, "      > %s\n", strings.ReplaceAll(note, "\n", "\n      > "))
			}
		}
	}
	if len(r.AdvancedTopics) > 0 {
		b.WriteString("\n## Advanced topics\n\n")
		for _, t := range r.AdvancedTopics {
			fmt.Fprintf(&b, "- **%s**: %s\n", t.Title, t.Description)
		}
	}
	if len(r.Projects) > 0 {
		b.WriteString("\n## Projects\n\n")
		for _, p := range r.Projects {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", p.Title, p.Difficulty, p.Description)
		}
	}
	return b.String()
}

func (r roadmapServiceImpl) getRoadmapEnt(ctx context.Context, id string) (*entity.Roadmap, error) {
	ent, err := r.roadmapRepo.GetRoadmap(ctx, id)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.EntityNotFound,
			Message: exception.EntityNotFoundMsg,
			Params:  map[string]interface{}{"entity": "Roadmap", "id": id},
		}
	}
	return ent, nil
}

func (r roadmapServiceImpl) getOwnedRoadmap(ctx context.Context, id string, action string) (*entity.Roadmap, error) {
	ent, err := r.getRoadmapEnt(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.authorizationService.CanModifyRoadmap(ctx, ent.UserId) {
		return nil, notRoadmapOwner(action)
	}
	return ent, nil
}

func findTopic(topics []view.Topic, topicId string) int {
	for i, t := range topics {
		if t.Id == topicId {
			return i
		}
	}
	return -1
}

func notRoadmapOwner(action string) error {
	return &exception.CustomError{
		Status:  http.StatusForbidden,
		Code:    exception.NotRoadmapOwner,
		Message: exception.NotRoadmapOwnerMsg,
		Params:  map[string]interface{}{"action": action},
	}
}

func topicNotFound(roadmapId string, topicId string) error {
	return &exception.CustomError{
		Status:  http.StatusNotFound,
		Code:    exception.TopicNotFound,
		Message: exception.TopicNotFoundMsg,
		Params:  map[string]interface{}{"id": topicId, "roadmapId": roadmapId},
	}
}
