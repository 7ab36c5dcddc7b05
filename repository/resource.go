package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/db"
	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/go-pg/pg/v10"
)

type LearningResourceRepository interface {
	FindActiveResources(ctx context.Context, technologies []string, limit int) ([]entity.LearningResource, error)
	ListActiveTechnologies(ctx context.Context) ([]string, error)
	UpsertResources(ctx context.Context, ents []entity.LearningResource) error
	MarkShared(ctx context.Context, url string, technologies []string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

func NewLearningResourceRepository(cp db.ConnectionProvider) LearningResourceRepository {
	return &learningResourceRepositoryImpl{cp: cp}
}

type learningResourceRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (l learningResourceRepositoryImpl) FindActiveResources(ctx context.Context, technologies []string, limit int) ([]entity.LearningResource, error) {
	if len(technologies) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(technologies))
	for _, t := range technologies {
		lowered = append(lowered, strings.ToLower(t))
	}
	var ents []entity.LearningResource
	query := l.cp.GetConnection().ModelContext(ctx, &ents).
		Where("expires_at > now()").
		WhereGroup(func(q *pg.Query) (*pg.Query, error) {
			q = q.WhereOr("lower(technology) IN (?)", pg.In(lowered)).
				WhereOr("exists (select 1 from unnest(technologies) t where lower(t) IN (?))", pg.In(lowered))
			return q, nil
		}).
		OrderExpr("(metadata->>'rating')::float DESC NULLS LAST").
		Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Select()
	if err != nil && err != pg.ErrNoRows {
		return nil, err
	}
	return ents, nil
}

func (l learningResourceRepositoryImpl) ListActiveTechnologies(ctx context.Context) ([]string, error) {
	var techs []string
	_, err := l.cp.GetConnection().QueryContext(ctx, pg.Scan(&techs), `
		select distinct tech from (
			select technology as tech from learning_resource where expires_at > now() and technology != ''
			union
			select unnest(technologies) as tech from learning_resource where expires_at > now()
		) t order by tech`)
	if err != nil && err != pg.ErrNoRows {
		return nil, err
	}
	return techs, nil
}

func (l learningResourceRepositoryImpl) UpsertResources(ctx context.Context, ents []entity.LearningResource) error {
	if len(ents) == 0 {
		return nil
	}
	_, err := l.cp.GetConnection().ModelContext(ctx, &ents).
		OnConflict("(url) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("description = EXCLUDED.description").
		Set("type = EXCLUDED.type").
		Set("technology = EXCLUDED.technology").
		Set("metadata = EXCLUDED.metadata").
		Set("videos = EXCLUDED.videos").
		Set("expires_at = EXCLUDED.expires_at").
		Set("updated_at = EXCLUDED.updated_at").
		Insert()
	return err
}

func (l learningResourceRepositoryImpl) MarkShared(ctx context.Context, url string, technologies []string) (bool, error) {
	res, err := l.cp.GetConnection().ModelContext(ctx, (*entity.LearningResource)(nil)).
		Set("is_shared = true").
		Set("technologies = array(select distinct unnest(technologies || ?::varchar[]))", pg.Array(technologies)).
		Set("updated_at = now()").
		Where("url = ?", url).
		Update()
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (l learningResourceRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := l.cp.GetConnection().ModelContext(ctx, (*entity.LearningResource)(nil)).
		Where("expires_at <= ?", now).
		Delete()
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}
