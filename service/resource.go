package service

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/client"
	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/repository"
	"github.com/Netcracker/qubership-roadmap-service/utils"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/google/uuid"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultResourceLimit = 10
	resourceTtl          = 7 * 24 * time.Hour
	discoverParallelism  = 3
	equivalenceCacheSize = 1000
)

var jsSuffix = regexp.MustCompile(`\.?js$`)

var whitespace = regexp.MustCompile(`\s+`)

type ResourceService interface {
	FindForTechnology(ctx context.Context, technology string, limit int, refresh bool) (*view.TechnologyResources, error)
	Discover(ctx context.Context, req view.DiscoverReq) (*view.DiscoverResponse, error)
	Cache(ctx context.Context, resource view.LearningResource) (*view.LearningResource, error)
	Cleanup(ctx context.Context) (*view.CleanupResult, error)
	UpdateShared(ctx context.Context, req view.UpdateSharedReq) error
	AreEquivalent(ctx context.Context, tech1, tech2 string) bool
}

func NewResourceService(resourceRepo repository.LearningResourceRepository, finder client.ResourceFinderClient, finderRpm int) ResourceService {
	if finderRpm <= 0 {
		finderRpm = 1
	}
	return &resourceServiceImpl{
		resourceRepo:     resourceRepo,
		finder:           finder,
		finderBudget:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(finderRpm)), finderRpm),
		equivalenceCache: libcache.LRU.New(equivalenceCacheSize),
		now:              time.Now,
	}
}

type resourceServiceImpl struct {
	resourceRepo     repository.LearningResourceRepository
	finder           client.ResourceFinderClient
	finderBudget     *rate.Limiter
	equivalenceCache libcache.Cache
	now              func() time.Time
}

func (r resourceServiceImpl) FindForTechnology(ctx context.Context, technology string, limit int, refresh bool) (*view.TechnologyResources, error) {
	technology = strings.TrimSpace(technology)
	if technology == "" {
		return nil, requiredParamsMissing("technology")
	}
	if limit <= 0 {
		limit = defaultResourceLimit
	}

	result := &view.TechnologyResources{Technology: technology, Resources: []view.LearningResource{}}
	if !refresh {
		cached, err := r.findCached(ctx, technology, limit)
		if err != nil {
			return nil, err
		}
		result.Resources = cached
		if len(cached) >= limit {
			result.FromCache = true
			return result, nil
		}
	}

	if !r.finderBudget.Allow() {
		log.Infof("Resource finder budget exhausted, returning %d cached resources for %s", len(result.Resources), technology)
		result.FromCache = true
		return result, nil
	}

	found, err := r.searchFinder(ctx, technology, limit)
	if err != nil {
		if len(result.Resources) > 0 {
			log.Warnf("Resource finder failed for %s, returning cached resources: %s", technology, err)
			result.FromCache = true
			return result, nil
		}
		return nil, err
	}
	if err := r.resourceRepo.UpsertResources(ctx, found); err != nil {
		return nil, fmt.Errorf("failed to cache resources for %s: %w", technology, err)
	}

	seen := make(map[string]struct{}, len(result.Resources))
	for _, res := range result.Resources {
		seen[res.Url] = struct{}{}
	}
	for _, ent := range found {
		if len(result.Resources) >= limit {
			break
		}
		if _, ok := seen[ent.Url]; ok {
			continue
		}
		seen[ent.Url] = struct{}{}
		result.Resources = append(result.Resources, entity.MakeLearningResourceView(ent))
	}
	return result, nil
}

func (r resourceServiceImpl) findCached(ctx context.Context, technology string, limit int) ([]view.LearningResource, error) {
	known, err := r.resourceRepo.ListActiveTechnologies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached technologies: %w", err)
	}
	techs := []string{technology}
	for _, k := range known {
		if r.AreEquivalent(ctx, technology, k) {
			techs = append(techs, k)
		}
	}
	ents, err := r.resourceRepo.FindActiveResources(ctx, utils.UniqueStrings(techs), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached resources: %w", err)
	}
	return entity.MakeLearningResourceViews(ents), nil
}

func (r resourceServiceImpl) searchFinder(ctx context.Context, technology string, limit int) ([]entity.LearningResource, error) {
	query := technology + " tutorial"
	results, err := r.finder.SearchPlaylists(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(results) < limit {
		videos, err := r.finder.SearchVideos(ctx, query, limit-len(results))
		if err != nil {
			log.Warnf("Video search for %s failed: %s", technology, err)
		} else {
			results = append(results, videos...)
		}
	}

	now := r.now()
	ents := make([]entity.LearningResource, 0, len(results))
	for _, res := range results {
		if strings.TrimSpace(res.Url) == "" {
			continue
		}
		resType := view.LearningResourceVideo
		if res.Type == string(view.LearningResourcePlaylist) {
			resType = view.LearningResourcePlaylist
		}
		metadata := res.Metadata
		videos := res.Videos
		if videos == nil {
			videos = []view.ResourceVideo{}
		}
		ents = append(ents, entity.LearningResource{
			Id:           uuid.New().String(),
			Url:          res.Url,
			Title:        res.Title,
			Description:  res.Description,
			Type:         resType,
			Technologies: []string{},
			Technology:   technology,
			Metadata:     &metadata,
			Videos:       videos,
			ExpiresAt:    now.Add(resourceTtl),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return ents, nil
}

func (r resourceServiceImpl) Discover(ctx context.Context, req view.DiscoverReq) (*view.DiscoverResponse, error) {
	techs := make([]string, 0, len(req.Technologies))
	for _, t := range req.Technologies {
		if t = strings.TrimSpace(t); t != "" {
			techs = append(techs, t)
		}
	}
	techs = utils.UniqueStrings(techs)
	if len(techs) == 0 {
		return nil, requiredParamsMissing("technologies")
	}

	found := make([][]view.LearningResource, len(techs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(discoverParallelism)
	for i, tech := range techs {
		i, tech := i, tech
		eg.Go(func() error {
			res, err := r.FindForTechnology(egCtx, tech, req.Limit, false)
			if err != nil {
				return fmt.Errorf("failed to discover resources for %s: %w", tech, err)
			}
			found[i] = res.Resources
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	resp := &view.DiscoverResponse{Results: make(map[string][]view.LearningResource, len(techs))}
	for i, tech := range techs {
		resp.Results[tech] = found[i]
	}
	return resp, nil
}

func (r resourceServiceImpl) Cache(ctx context.Context, resource view.LearningResource) (*view.LearningResource, error) {
	resource.Url = strings.TrimSpace(resource.Url)
	resource.Title = strings.TrimSpace(resource.Title)
	var missing []string
	if resource.Url == "" {
		missing = append(missing, "url")
	}
	if resource.Title == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return nil, requiredParamsMissing(missing...)
	}
	if resource.Type == "" {
		resource.Type = view.LearningResourceVideo
	}
	if resource.Type != view.LearningResourceVideo && resource.Type != view.LearningResourcePlaylist {
		return nil, invalidParam("type", "must be video or playlist")
	}

	now := r.now()
	if resource.ExpiresAt.IsZero() {
		resource.ExpiresAt = now.Add(resourceTtl)
	}
	ent := entity.LearningResource{
		Id:           uuid.New().String(),
		Url:          resource.Url,
		Title:        resource.Title,
		Description:  resource.Description,
		Type:         resource.Type,
		Technologies: resource.Technologies,
		Technology:   resource.Technology,
		IsShared:     resource.IsShared,
		Metadata:     resource.Metadata,
		Videos:       resource.Videos,
		ExpiresAt:    resource.ExpiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if ent.Technologies == nil {
		ent.Technologies = []string{}
	}
	if ent.Videos == nil {
		ent.Videos = []view.ResourceVideo{}
	}
	if err := r.resourceRepo.UpsertResources(ctx, []entity.LearningResource{ent}); err != nil {
		return nil, fmt.Errorf("failed to cache resource %s: %w", ent.Url, err)
	}
	res := entity.MakeLearningResourceView(ent)
	return &res, nil
}

func (r resourceServiceImpl) Cleanup(ctx context.Context) (*view.CleanupResult, error) {
	deleted, err := r.resourceRepo.DeleteExpired(ctx, r.now())
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired resources: %w", err)
	}
	if deleted > 0 {
		log.Infof("Deleted %d expired learning resources", deleted)
	}
	return &view.CleanupResult{DeletedCount: deleted}, nil
}

func (r resourceServiceImpl) UpdateShared(ctx context.Context, req view.UpdateSharedReq) error {
	url := strings.TrimSpace(req.Url)
	if url == "" || len(req.Technologies) == 0 {
		return requiredParamsMissing("url", "technologies")
	}
	updated, err := r.resourceRepo.MarkShared(ctx, url, utils.UniqueStrings(req.Technologies))
	if err != nil {
		return fmt.Errorf("failed to mark resource %s as shared: %w", url, err)
	}
	if !updated {
		return &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.EntityNotFound,
			Message: exception.EntityNotFoundMsg,
			Params:  map[string]interface{}{"entity": "Resource", "id": url},
		}
	}
	return nil
}

// AreEquivalent compares technology names, asking the matcher service when
// they are not equal ignoring case.
func (r resourceServiceImpl) AreEquivalent(ctx context.Context, tech1, tech2 string) bool {
	if strings.EqualFold(strings.TrimSpace(tech1), strings.TrimSpace(tech2)) {
		return true
	}
	key := equivalenceKey(tech1, tech2)
	if cached, ok := r.equivalenceCache.Load(key); ok {
		return cached.(bool)
	}

	match, err := r.finder.MatchTechnologies(ctx, tech1, tech2)
	if err != nil {
		log.Debugf("Technology matcher is not available (%s), comparing normalized names", err)
		return normalizeTechnology(tech1) == normalizeTechnology(tech2)
	}
	r.equivalenceCache.Store(key, match.AreEquivalent)
	return match.AreEquivalent
}

func equivalenceKey(tech1, tech2 string) string {
	a, b := strings.ToLower(strings.TrimSpace(tech1)), strings.ToLower(strings.TrimSpace(tech2))
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// normalizeTechnology turns "React.js", "ReactJS" and "react" into the same value.
func normalizeTechnology(tech string) string {
	s := strings.ToLower(strings.TrimSpace(tech))
	s = jsSuffix.ReplaceAllString(s, "")
	return whitespace.ReplaceAllString(s, "")
}
