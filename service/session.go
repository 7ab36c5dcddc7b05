package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/client"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/buraksezer/olric"
	log "github.com/sirupsen/logrus"
)

const generationSessionsDMap = "generation-sessions"

const sessionTtl = 24 * time.Hour

// SessionStore keeps the per-user generation state between requests.
type SessionStore interface {
	GetSession(ctx context.Context, userId string) (*view.GenerationSession, error)
	PutSession(ctx context.Context, userId string, session view.GenerationSession) (*view.GenerationSession, error)
	DeleteSession(ctx context.Context, userId string) error
	SetLastRoadmap(ctx context.Context, userId string, roadmapId string) error
	// SetSelection replaces the selected topic and questions, the rest of the session is kept.
	SetSelection(ctx context.Context, userId string, topic string, questions []string) error
}

func NewSessionStore(op client.OlricProvider) SessionStore {
	return &olricSessionStoreImpl{op: op, now: time.Now}
}

type olricSessionStoreImpl struct {
	op  client.OlricProvider
	now func() time.Time

	initOnce sync.Once
	dm       *olric.DMap
	initErr  error
}

func (s *olricSessionStoreImpl) dmap() (*olric.DMap, error) {
	s.initOnce.Do(func() {
		s.dm, s.initErr = s.op.Get().NewDMap(generationSessionsDMap)
		if s.initErr != nil {
			log.Errorf("Failed to create DMap %s: %s", generationSessionsDMap, s.initErr)
		}
	})
	return s.dm, s.initErr
}

// GetSession returns an empty session when nothing is stored for the user.
func (s *olricSessionStoreImpl) GetSession(ctx context.Context, userId string) (*view.GenerationSession, error) {
	dm, err := s.dmap()
	if err != nil {
		return nil, err
	}
	val, err := dm.Get(userId)
	if err != nil {
		if errors.Is(err, olric.ErrKeyNotFound) {
			return &view.GenerationSession{Questions: []string{}}, nil
		}
		return nil, fmt.Errorf("failed to read generation session: %w", err)
	}
	str, ok := val.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected generation session value type %T", val)
	}
	var session view.GenerationSession
	if err := json.Unmarshal([]byte(str), &session); err != nil {
		return nil, fmt.Errorf("failed to decode generation session: %w", err)
	}
	if session.Questions == nil {
		session.Questions = []string{}
	}
	return &session, nil
}

func (s *olricSessionStoreImpl) PutSession(ctx context.Context, userId string, session view.GenerationSession) (*view.GenerationSession, error) {
	dm, err := s.dmap()
	if err != nil {
		return nil, err
	}
	session.SelectedTopic = strings.TrimSpace(session.SelectedTopic)
	if session.Questions == nil {
		session.Questions = []string{}
	}
	session.UpdatedAt = s.now()
	data, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	if err := dm.PutEx(userId, string(data), sessionTtl); err != nil {
		return nil, fmt.Errorf("failed to store generation session: %w", err)
	}
	return &session, nil
}

func (s *olricSessionStoreImpl) DeleteSession(ctx context.Context, userId string) error {
	dm, err := s.dmap()
	if err != nil {
		return err
	}
	if err := dm.Delete(userId); err != nil && !errors.Is(err, olric.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete generation session: %w", err)
	}
	return nil
}

func (s *olricSessionStoreImpl) SetLastRoadmap(ctx context.Context, userId string, roadmapId string) error {
	session, err := s.GetSession(ctx, userId)
	if err != nil {
		return err
	}
	session.LastRoadmapId = roadmapId
	_, err = s.PutSession(ctx, userId, *session)
	return err
}

func (s *olricSessionStoreImpl) SetSelection(ctx context.Context, userId string, topic string, questions []string) error {
	session, err := s.GetSession(ctx, userId)
	if err != nil {
		return err
	}
	session.SelectedTopic = topic
	session.Questions = questions
	_, err = s.PutSession(ctx, userId, *session)
	return err
}
