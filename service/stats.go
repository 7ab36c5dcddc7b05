package service

import (
	"context"
	"math"

	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/repository"
	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/utils"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

type StatsService interface {
	GetUserStats(ctx context.Context) (*view.UserStats, error)
}

func NewStatsService(roadmapRepo repository.RoadmapRepository, customRoadmapRepo repository.CustomRoadmapRepository,
	noteRepo repository.NoteRepository) StatsService {
	return &statsServiceImpl{
		roadmapRepo:       roadmapRepo,
		customRoadmapRepo: customRoadmapRepo,
		noteRepo:          noteRepo,
	}
}

type statsServiceImpl struct {
	roadmapRepo       repository.RoadmapRepository
	customRoadmapRepo repository.CustomRoadmapRepository
	noteRepo          repository.NoteRepository
}

func (s statsServiceImpl) GetUserStats(ctx context.Context) (*view.UserStats, error) {
	userId := secctx.GetUserId(ctx)
	roadmaps, err := s.roadmapRepo.ListRoadmaps(ctx, userId)
	if err != nil {
		return nil, err
	}
	custom, err := s.customRoadmapRepo.ListCustomRoadmaps(ctx, userId)
	if err != nil {
		return nil, err
	}
	notes, err := s.noteRepo.CountUserNotes(ctx, userId)
	if err != nil {
		return nil, err
	}
	stats := calculateUserStats(roadmaps, custom)
	stats.TotalNotes = notes
	return &stats, nil
}

func calculateUserStats(roadmaps []entity.Roadmap, custom []entity.CustomRoadmap) view.UserStats {
	stats := view.UserStats{
		RegularRoadmaps: len(roadmaps),
		CustomRoadmaps:  len(custom),
		TotalRoadmaps:   len(roadmaps) + len(custom),
	}

	percentSum := 0
	// a resource id is counted once across all roadmaps
	counted := make(map[string]struct{})
	for _, r := range roadmaps {
		percentSum += r.CompletionPercentage
		if r.CompletionPercentage == 100 {
			stats.CompletedRoadmaps++
		}
		stats.TotalTopics += len(r.Topics)
		for _, t := range r.Topics {
			if t.Status == view.TopicCompleted {
				stats.CompletedTopics++
			}
			stats.TotalResources += len(t.Resources)
			stats.TotalVideos += len(t.Resources)

			completed := make(map[string]struct{}, len(t.CompletedResourceIds))
			for _, id := range t.CompletedResourceIds {
				completed[id] = struct{}{}
			}
			for _, res := range t.Resources {
				if _, ok := completed[res.Id]; !ok {
					continue
				}
				if _, ok := counted[res.Id]; ok {
					continue
				}
				counted[res.Id] = struct{}{}
				stats.CompletedVideos++
				stats.TotalLearningTime += resourceDuration(res)
			}
		}
	}
	for _, c := range custom {
		stats.TotalTopics += len(c.Topics)
	}

	if stats.TotalVideos > 0 {
		stats.CompletionPercentage = int(math.Min(100, math.Round(100*float64(stats.CompletedVideos)/float64(stats.TotalVideos))))
	}
	if stats.TotalRoadmaps > 0 {
		stats.AverageCompletion = int(math.Round(float64(percentSum) / float64(stats.TotalRoadmaps)))
	}
	stats.FormattedLearningTime = utils.FormatLearningTime(stats.TotalLearningTime)
	return stats
}

func resourceDuration(res view.TopicResource) int {
	if res.Duration > 0 {
		return res.Duration
	}
	return utils.ParseDurationToSeconds(res.DurationText)
}
