package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/utils"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	log "github.com/sirupsen/logrus"
)

type CompletionRequest struct {
	CallType    view.LLMCallType
	System      string
	User        string
	Temperature float64
	MaxTokens   int64
}

type Completion struct {
	Content     string
	TotalTokens int64
	Latency     time.Duration
}

type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
	GetMetrics() view.LLMMetrics
	GetModel() string
	UpdateModel(model string) error
}

type LLMConfig struct {
	BaseURL        string
	Model          string
	ApiKeys        []string
	MaxRetries     int
	RateLimitDelay time.Duration
	Timeout        time.Duration
}

func NewOpenaiClient(cfg LLMConfig) (LLMClient, error) {
	keys := make([]string, 0, len(cfg.ApiKeys))
	for _, k := range cfg.ApiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, errors.New("llm: at least one api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(keys[0]),
		// rate limits are handled by the key pool
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: timeout}))

	model := cfg.Model
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}

	return &OAIClientImpl{
		client:         openai.NewClient(opts...),
		model:          model,
		keys:           newKeyPool(keys),
		maxRetries:     cfg.MaxRetries,
		rateLimitDelay: cfg.RateLimitDelay,
		metrics:        newMetricsRecorder(),
	}, nil
}

type OAIClientImpl struct {
	client openai.Client

	mutex sync.RWMutex
	model openai.ChatModel

	keys           *keyPool
	maxRetries     int
	rateLimitDelay time.Duration
	metrics        *metricsRecorder
}

func (l *OAIClientImpl) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	start := time.Now()
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Model:       l.GetModel(),
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(req.MaxTokens),
	}

	rateLimitRetries := 0
	authFailures := 0
	for {
		slot, key := l.keys.current()
		log.Debugf("LLM call %s: key slot %d (%s), model %s", req.CallType, slot, utils.KeyFingerprint(key), params.Model)

		chat, err := l.client.Chat.Completions.New(ctx, params, option.WithAPIKey(key))
		if err == nil {
			latency := time.Since(start)
			if len(chat.Choices) == 0 {
				l.metrics.record(req.CallType, latency, 0, false)
				return nil, &exception.CustomError{
					Status:  http.StatusBadGateway,
					Code:    exception.LLMRequestFailed,
					Message: exception.LLMRequestFailedMsg,
					Debug:   "response contains no choices",
				}
			}
			tokens := chat.Usage.TotalTokens
			l.metrics.record(req.CallType, latency, tokens, true)
			log.Infof("LLM call %s finished in %dms, %d tokens", req.CallType, latency.Milliseconds(), tokens)
			return &Completion{
				Content:     chat.Choices[0].Message.Content,
				TotalTokens: tokens,
				Latency:     latency,
			}, nil
		}

		var apiErr *openai.Error
		if !errors.As(err, &apiErr) {
			l.metrics.record(req.CallType, time.Since(start), 0, false)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, &exception.CustomError{
				Status:  http.StatusBadGateway,
				Code:    exception.LLMRequestFailed,
				Message: exception.LLMRequestFailedMsg,
				Debug:   err.Error(),
			}
		}

		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			l.keys.rotate(slot)
			if rateLimitRetries >= l.maxRetries {
				l.metrics.record(req.CallType, time.Since(start), 0, false)
				log.Warnf("LLM call %s: rate limit retries exhausted", req.CallType)
				return nil, &exception.CustomError{
					Status:  http.StatusTooManyRequests,
					Code:    exception.LLMRateLimited,
					Message: exception.LLMRateLimitedMsg,
					Debug:   apiErr.Error(),
				}
			}
			rateLimitRetries++
			log.Warnf("LLM call %s: rate limited on key slot %d, retry %d/%d in %v", req.CallType, slot, rateLimitRetries, l.maxRetries, l.rateLimitDelay)
			if err := utils.SleepCtx(ctx, l.rateLimitDelay); err != nil {
				l.metrics.record(req.CallType, time.Since(start), 0, false)
				return nil, err
			}
		case http.StatusUnauthorized, http.StatusForbidden:
			l.keys.rotate(slot)
			authFailures++
			log.Warnf("LLM call %s: key slot %d rejected with status %d", req.CallType, slot, apiErr.StatusCode)
			if authFailures >= l.keys.size() {
				l.metrics.record(req.CallType, time.Since(start), 0, false)
				return nil, &exception.CustomError{
					Status:  http.StatusBadGateway,
					Code:    exception.LLMKeysExhausted,
					Message: exception.LLMKeysExhaustedMsg,
					Debug:   apiErr.Error(),
				}
			}
		default:
			l.metrics.record(req.CallType, time.Since(start), 0, false)
			return nil, &exception.CustomError{
				Status:  http.StatusBadGateway,
				Code:    exception.LLMRequestFailed,
				Message: exception.LLMRequestFailedMsg,
				Debug:   fmt.Sprintf("upstream status %d: %s", apiErr.StatusCode, apiErr.Error()),
			}
		}
	}
}

func (l *OAIClientImpl) GetMetrics() view.LLMMetrics {
	return l.metrics.snapshot()
}

func (l *OAIClientImpl) GetModel() string {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.model
}

func (l *OAIClientImpl) UpdateModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return fmt.Errorf("model name is empty")
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.model = model
	return nil
}

func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

// keyPool hands out api keys round-robin. rotate only moves on when the caller
// still holds the current slot, so concurrent failures advance it once.
type keyPool struct {
	mutex sync.Mutex
	keys  []string
	idx   int
}

func newKeyPool(keys []string) *keyPool {
	return &keyPool{keys: keys}
}

func (p *keyPool) current() (int, string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.idx, p.keys[p.idx]
}

func (p *keyPool) rotate(slot int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.idx == slot {
		p.idx = (p.idx + 1) % len(p.keys)
	}
}

func (p *keyPool) size() int {
	return len(p.keys)
}
