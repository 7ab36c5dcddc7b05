package repository

import (
	"context"

	"github.com/Netcracker/qubership-roadmap-service/db"
	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/go-pg/pg/v10"
)

type CustomRoadmapRepository interface {
	ListCustomRoadmaps(ctx context.Context, userId string) ([]entity.CustomRoadmap, error)
	GetCustomRoadmap(ctx context.Context, id string, userId string) (*entity.CustomRoadmap, error)
	CreateCustomRoadmap(ctx context.Context, ent *entity.CustomRoadmap) error
	UpdateCustomRoadmap(ctx context.Context, ent *entity.CustomRoadmap) error
	DeleteCustomRoadmap(ctx context.Context, id string, userId string) (bool, error)
}

func NewCustomRoadmapRepository(cp db.ConnectionProvider) CustomRoadmapRepository {
	return &customRoadmapRepositoryImpl{cp: cp}
}

type customRoadmapRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (c customRoadmapRepositoryImpl) ListCustomRoadmaps(ctx context.Context, userId string) ([]entity.CustomRoadmap, error) {
	var ents []entity.CustomRoadmap
	err := c.cp.GetConnection().ModelContext(ctx, &ents).
		Where("user_id = ?", userId).
		Order("updated_at DESC").
		Select()
	if err != nil && err != pg.ErrNoRows {
		return nil, err
	}
	return ents, nil
}

func (c customRoadmapRepositoryImpl) GetCustomRoadmap(ctx context.Context, id string, userId string) (*entity.CustomRoadmap, error) {
	ent := new(entity.CustomRoadmap)
	err := c.cp.GetConnection().ModelContext(ctx, ent).
		Where("id = ?", id).
		Where("user_id = ?", userId).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return ent, nil
}

func (c customRoadmapRepositoryImpl) CreateCustomRoadmap(ctx context.Context, ent *entity.CustomRoadmap) error {
	_, err := c.cp.GetConnection().ModelContext(ctx, ent).Insert()
	return err
}

func (c customRoadmapRepositoryImpl) UpdateCustomRoadmap(ctx context.Context, ent *entity.CustomRoadmap) error {
	_, err := c.cp.GetConnection().ModelContext(ctx, ent).WherePK().Where("user_id = ?user_id").Update()
	return err
}

func (c customRoadmapRepositoryImpl) DeleteCustomRoadmap(ctx context.Context, id string, userId string) (bool, error) {
	res, err := c.cp.GetConnection().ModelContext(ctx, (*entity.CustomRoadmap)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userId).
		Delete()
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
