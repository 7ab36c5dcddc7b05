package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/repository"
	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

type NoteService interface {
	GetNotes(ctx context.Context, roadmapId string) (*view.Notes, error)
	SaveNote(ctx context.Context, roadmapId string, req view.SaveNoteReq) (*view.Note, error)
	DeleteNote(ctx context.Context, roadmapId string, videoId string) error
}

func NewNoteService(noteRepo repository.NoteRepository) NoteService {
	return &noteServiceImpl{noteRepo: noteRepo, now: time.Now}
}

type noteServiceImpl struct {
	noteRepo repository.NoteRepository
	now      func() time.Time
}

func (n noteServiceImpl) GetNotes(ctx context.Context, roadmapId string) (*view.Notes, error) {
	ents, err := n.noteRepo.ListNotes(ctx, roadmapId, secctx.GetUserId(ctx))
	if err != nil {
		return nil, err
	}
	res := &view.Notes{
		Notes:      make(map[string]string, len(ents)),
		Timestamps: make(map[string]time.Time, len(ents)),
	}
	for _, ent := range ents {
		res.Notes[ent.VideoId] = ent.Notes
		res.Timestamps[ent.VideoId] = ent.Timestamp
	}
	return res, nil
}

func (n noteServiceImpl) SaveNote(ctx context.Context, roadmapId string, req view.SaveNoteReq) (*view.Note, error) {
	if strings.TrimSpace(req.VideoId) == "" {
		return nil, requiredParamsMissing("videoId")
	}
	ts := n.now()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}
	ent := &entity.Note{
		RoadmapId: roadmapId,
		UserId:    secctx.GetUserId(ctx),
		VideoId:   req.VideoId,
		Notes:     req.Notes,
		Timestamp: ts,
	}
	if err := n.noteRepo.UpsertNote(ctx, ent); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}
	res := entity.MakeNoteView(*ent)
	return &res, nil
}

func (n noteServiceImpl) DeleteNote(ctx context.Context, roadmapId string, videoId string) error {
	deleted, err := n.noteRepo.DeleteNote(ctx, roadmapId, secctx.GetUserId(ctx), videoId)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if !deleted {
		return &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.NoteNotFound,
			Message: exception.NoteNotFoundMsg,
		}
	}
	return nil
}
