package repository

import (
	"context"

	"github.com/Netcracker/qubership-roadmap-service/db"
	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/go-pg/pg/v10"
)

type NoteRepository interface {
	ListNotes(ctx context.Context, roadmapId string, userId string) ([]entity.Note, error)
	UpsertNote(ctx context.Context, ent *entity.Note) error
	DeleteNote(ctx context.Context, roadmapId string, userId string, videoId string) (bool, error)
	CountUserNotes(ctx context.Context, userId string) (int, error)
}

func NewNoteRepository(cp db.ConnectionProvider) NoteRepository {
	return &noteRepositoryImpl{cp: cp}
}

type noteRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (n noteRepositoryImpl) ListNotes(ctx context.Context, roadmapId string, userId string) ([]entity.Note, error) {
	var ents []entity.Note
	err := n.cp.GetConnection().ModelContext(ctx, &ents).
		Where("roadmap_id = ?", roadmapId).
		Where("user_id = ?", userId).
		Select()
	if err != nil && err != pg.ErrNoRows {
		return nil, err
	}
	return ents, nil
}

func (n noteRepositoryImpl) UpsertNote(ctx context.Context, ent *entity.Note) error {
	_, err := n.cp.GetConnection().ModelContext(ctx, ent).
		OnConflict("(roadmap_id, user_id, video_id) DO UPDATE").
		Set("notes = EXCLUDED.notes").
		Set("timestamp = EXCLUDED.timestamp").
		Insert()
	return err
}

func (n noteRepositoryImpl) DeleteNote(ctx context.Context, roadmapId string, userId string, videoId string) (bool, error) {
	res, err := n.cp.GetConnection().ModelContext(ctx, (*entity.Note)(nil)).
		Where("roadmap_id = ?", roadmapId).
		Where("user_id = ?", userId).
		Where("video_id = ?", videoId).
		Delete()
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (n noteRepositoryImpl) CountUserNotes(ctx context.Context, userId string) (int, error) {
	return n.cp.GetConnection().ModelContext(ctx, (*entity.Note)(nil)).
		Where("user_id = ?", userId).
		Count()
}
