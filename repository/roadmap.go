package repository

import (
	"context"

	"github.com/Netcracker/qubership-roadmap-service/db"
	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/go-pg/pg/v10"
)

type RoadmapRepository interface {
	ListRoadmaps(ctx context.Context, userId string) ([]entity.Roadmap, error)
	GetRoadmap(ctx context.Context, id string) (*entity.Roadmap, error)
	CreateRoadmap(ctx context.Context, ent *entity.Roadmap) error
	UpdateRoadmap(ctx context.Context, ent *entity.Roadmap) error
	DeleteRoadmap(ctx context.Context, id string) error
}

func NewRoadmapRepository(cp db.ConnectionProvider) RoadmapRepository {
	return &roadmapRepositoryImpl{cp: cp}
}

type roadmapRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r roadmapRepositoryImpl) ListRoadmaps(ctx context.Context, userId string) ([]entity.Roadmap, error) {
	var ents []entity.Roadmap
	err := r.cp.GetConnection().ModelContext(ctx, &ents).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Select()
	if err != nil && err != pg.ErrNoRows {
		return nil, err
	}
	return ents, nil
}

func (r roadmapRepositoryImpl) GetRoadmap(ctx context.Context, id string) (*entity.Roadmap, error) {
	ent := new(entity.Roadmap)
	err := r.cp.GetConnection().ModelContext(ctx, ent).Where("id = ?", id).Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return ent, nil
}

func (r roadmapRepositoryImpl) CreateRoadmap(ctx context.Context, ent *entity.Roadmap) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, ent).Insert()
	return err
}

func (r roadmapRepositoryImpl) UpdateRoadmap(ctx context.Context, ent *entity.Roadmap) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, ent).WherePK().Update()
	return err
}

func (r roadmapRepositoryImpl) DeleteRoadmap(ctx context.Context, id string) error {
	return r.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		_, err := tx.ModelContext(ctx, (*entity.Note)(nil)).Where("roadmap_id = ?", id).Delete()
		if err != nil {
			return err
		}
		_, err = tx.ModelContext(ctx, (*entity.Roadmap)(nil)).Where("id = ?", id).Delete()
		return err
	})
}
