package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/client"
	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/llmjson"
	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/utils"
	"github.com/Netcracker/qubership-roadmap-service/view"
	log "github.com/sirupsen/logrus"
)

const (
	difficultyBeginner     = "beginner"
	difficultyIntermediate = "intermediate"
	difficultyAdvanced     = "advanced"
)

type GenerationService interface {
	ValidateTopic(ctx context.Context, topic string) (*view.TopicValidation, error)
	GenerateQuestions(ctx context.Context, topic string) (*view.Questions, error)
	ValidateAndGenerateQuestions(ctx context.Context, topic string) (*view.ValidationWithQuestions, error)
	GenerateRoadmap(ctx context.Context, req view.GenerationReq) (*view.GeneratedRoadmap, error)
}

func NewGenerationService(llmClient client.LLMClient, catalogService CatalogService, sessionStore SessionStore,
	maxAttempts int, retryDelay time.Duration) GenerationService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &generationServiceImpl{
		llmClient:      llmClient,
		catalogService: catalogService,
		sessionStore:   sessionStore,
		maxAttempts:    maxAttempts,
		retryDelay:     retryDelay,
	}
}

type generationServiceImpl struct {
	llmClient      client.LLMClient
	catalogService CatalogService
	sessionStore   SessionStore
	maxAttempts    int
	retryDelay     time.Duration
}

func (g generationServiceImpl) ValidateTopic(ctx context.Context, topic string) (*view.TopicValidation, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, requiredParamsMissing("topic")
	}

	completion, err := g.llmClient.Complete(ctx, client.CompletionRequest{
		CallType:    view.CallValidateTopic,
		System:      validateTopicSystemPrompt,
		User:        topic,
		Temperature: validateTopicSettings.temperature,
		MaxTokens:   validateTopicSettings.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	var result view.TopicValidation
	if err := llmjson.Decode(completion.Content, &result); err != nil {
		log.Debugf("Topic validation output is not JSON (%v), reading fields one by one", err)
		fallback, ok := validationFromFields(completion.Content)
		if !ok {
			return nil, unparseable("topic validation", err)
		}
		result = *fallback
	}
	if result.IsValid && strings.TrimSpace(result.ExtractedTopic) == "" {
		result.ExtractedTopic = topic
	}
	return &result, nil
}

// validationFromFields reads a validation result from output that does not decode as a whole.
func validationFromFields(raw string) (*view.TopicValidation, bool) {
	isValid, okValid := llmjson.BoolField(raw, "isValid")
	extracted, okTopic := llmjson.StringField(raw, "extractedTopic")
	reason, okReason := llmjson.StringField(raw, "reason")
	if !okValid || !okTopic || !okReason {
		return nil, false
	}
	example, _ := llmjson.StringField(raw, "example")
	return &view.TopicValidation{
		IsValid:        isValid,
		ExtractedTopic: extracted,
		Reason:         reason,
		Example:        example,
	}, true
}

func (g generationServiceImpl) GenerateQuestions(ctx context.Context, topic string) (*view.Questions, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, requiredParamsMissing("topic")
	}
	userMsg, err := buildQuestionsUserMessage(topic)
	if err != nil {
		return nil, fmt.Errorf("failed to build questions prompt: %w", err)
	}
	catalogContext := g.catalogService.BuildContext(topic, QuestionsContextHeader, questionsContextSections, false)

	completion, err := g.llmClient.Complete(ctx, client.CompletionRequest{
		CallType:    view.CallGenerateQuestions,
		System:      buildQuestionsSystemPrompt(catalogContext),
		User:        userMsg,
		Temperature: questionsSettings.temperature,
		MaxTokens:   questionsSettings.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	var result view.Questions
	if err := llmjson.Decode(completion.Content, &result); err != nil {
		return nil, unparseable("questions", err)
	}
	result.Questions = cleanQuestions(result.Questions)
	if len(result.Questions) == 0 {
		return nil, unparseable("questions", errors.New("model returned no questions"))
	}
	return &result, nil
}

func (g generationServiceImpl) ValidateAndGenerateQuestions(ctx context.Context, topic string) (*view.ValidationWithQuestions, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, requiredParamsMissing("topic")
	}
	catalogContext := g.catalogService.BuildContext(topic, QuestionsContextHeader, questionsContextSections, false)

	completion, err := g.llmClient.Complete(ctx, client.CompletionRequest{
		CallType:    view.CallValidateAndAsk,
		System:      buildValidateAndAskSystemPrompt(catalogContext),
		User:        topic,
		Temperature: validateAndAskSettings.temperature,
		MaxTokens:   validateAndAskSettings.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	var result view.ValidationWithQuestions
	if err := llmjson.Decode(completion.Content, &result); err != nil {
		return nil, unparseable("topic validation and questions", err)
	}
	if !result.Validation.IsValid {
		result.Questions = []string{}
	} else {
		result.Questions = cleanQuestions(result.Questions)
		if strings.TrimSpace(result.Validation.ExtractedTopic) == "" {
			result.Validation.ExtractedTopic = topic
		}
	}

	if userId := secctx.GetUserId(ctx); userId != "" && g.sessionStore != nil {
		selected := result.Validation.ExtractedTopic
		if selected == "" {
			selected = topic
		}
		if err := g.sessionStore.SetSelection(ctx, userId, selected, result.Questions); err != nil {
			log.Warnf("Failed to store generation session for user %s: %s", userId, err)
		}
	}
	return &result, nil
}

func (g generationServiceImpl) GenerateRoadmap(ctx context.Context, req view.GenerationReq) (*view.GeneratedRoadmap, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return nil, requiredParamsMissing("topic")
	}
	catalogContext := g.catalogService.BuildContext(req.Topic, RoadmapContextHeader, 0, true)
	system, err := buildRoadmapSystemPrompt(catalogContext)
	if err != nil {
		return nil, err
	}
	userMsg, err := buildRoadmapUserMessage(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build roadmap prompt: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		roadmap, err := g.generateRoadmapOnce(ctx, system, userMsg)
		if err == nil {
			log.Infof("Roadmap for '%s' generated on attempt %d", req.Topic, attempt)
			return roadmap, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isRateLimited(err) {
			return nil, err
		}
		lastErr = err
		log.Warnf("Roadmap generation attempt %d/%d for '%s' failed: %s", attempt, g.maxAttempts, req.Topic, err)

		if attempt < g.maxAttempts {
			if err := utils.SleepCtx(ctx, g.retryDelay); err != nil {
				return nil, err
			}
		}
	}
	return nil, lastErr
}

func (g generationServiceImpl) generateRoadmapOnce(ctx context.Context, system string, userMsg string) (*view.GeneratedRoadmap, error) {
	completion, err := g.llmClient.Complete(ctx, client.CompletionRequest{
		CallType:    view.CallGenerateRoadmap,
		System:      system,
		User:        userMsg,
		Temperature: generateRoadmapSettings.temperature,
		MaxTokens:   generateRoadmapSettings.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	var roadmap view.GeneratedRoadmap
	if err := llmjson.Decode(completion.Content, &roadmap); err != nil {
		return nil, unparseable("roadmap", err)
	}
	normalizeGeneratedRoadmap(&roadmap)
	if strings.TrimSpace(roadmap.Title) == "" || len(roadmap.Sections) == 0 {
		return nil, unparseable("roadmap", errors.New("roadmap has no title or sections"))
	}
	return &roadmap, nil
}

func normalizeGeneratedRoadmap(r *view.GeneratedRoadmap) {
	r.Title = strings.TrimSpace(r.Title)
	for i := range r.MainPath {
		r.MainPath[i].Difficulty = normalizeDifficulty(r.MainPath[i].Difficulty)
	}
	if len(r.Sections) == 0 && len(r.MainPath) > 0 {
		r.Sections = make([]view.Section, 0, len(r.MainPath))
		for _, item := range r.MainPath {
			r.Sections = append(r.Sections, view.Section{
				Title:       item.Title,
				Description: item.Description,
				Difficulty:  item.Difficulty,
				Topics:      []view.SectionTopic{{Title: item.Title, Description: item.Description}},
			})
		}
	}
	if r.Sections == nil {
		r.Sections = []view.Section{}
	}
	for i := range r.Sections {
		r.Sections[i].Difficulty = normalizeDifficulty(r.Sections[i].Difficulty)
		if r.Sections[i].Topics == nil {
			r.Sections[i].Topics = []view.SectionTopic{}
		}
	}
	if r.Prerequisites == nil {
		r.Prerequisites = []view.AdvancedTopic{}
	}
	if r.AdvancedTopics == nil {
		r.AdvancedTopics = []view.AdvancedTopic{}
	}
	if r.Projects == nil {
		r.Projects = []view.Project{}
	}
	for i := range r.Projects {
		r.Projects[i].Difficulty = normalizeDifficulty(r.Projects[i].Difficulty)
	}
}

func normalizeDifficulty(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case difficultyBeginner:
		return difficultyBeginner
	case difficultyAdvanced:
		return difficultyAdvanced
	default:
		return difficultyIntermediate
	}
}

func cleanQuestions(questions []string) []string {
	res := make([]string, 0, len(questions))
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			res = append(res, q)
		}
	}
	return res
}

func unparseable(what string, cause error) error {
	return &exception.CustomError{
		Status:  http.StatusBadGateway,
		Code:    exception.LLMResponseUnparseable,
		Message: exception.LLMResponseUnparseableMsg,
		Params:  map[string]interface{}{"what": what},
		Debug:   cause.Error(),
	}
}

func isRateLimited(err error) bool {
	var customErr *exception.CustomError
	return errors.As(err, &customErr) && customErr.Status == http.StatusTooManyRequests
}
