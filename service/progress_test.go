package service

import (
	"testing"

	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		part, whole, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{5, 4, 100},
		{-1, 4, 0},
	}
	for _, tt := range tests {
		if got := percentage(tt.part, tt.whole); got != tt.want {
			t.Errorf("percentage(%d, %d) = %d, want %d", tt.part, tt.whole, got, tt.want)
		}
	}
}

func TestCalculateCompletion_ResourceBased(t *testing.T) {
	topics := []view.Topic{
		{Status: view.TopicCompleted, CompletedResources: 1, TotalResources: 4},
		{Status: view.TopicNotStarted, CompletedResources: 0, TotalResources: 4},
	}
	if got := calculateCompletion(topics); got != 13 {
		t.Errorf("calculateCompletion() = %d, want 13", got)
	}
}

func TestCalculateCompletion_TopicBasedWithoutResources(t *testing.T) {
	topics := []view.Topic{
		{Status: view.TopicCompleted},
		{Status: view.TopicInProgress},
		{Status: view.TopicNotStarted},
		{Status: view.TopicCompleted},
	}
	if got := calculateCompletion(topics); got != 50 {
		t.Errorf("calculateCompletion() = %d, want 50", got)
	}
	if got := calculateCompletion(nil); got != 0 {
		t.Errorf("calculateCompletion(nil) = %d, want 0", got)
	}
}

func TestPrepareTopics(t *testing.T) {
	topics := prepareTopics([]view.Topic{{
		Title:                "Go",
		Status:               "unknown",
		Resources:            []view.TopicResource{{Id: "r1"}, {Title: "no id"}},
		CompletedResourceIds: []string{"r1", "r1", "missing"},
	}})

	topic := topics[0]
	if topic.Id == "" {
		t.Error("topic id is not assigned")
	}
	if topic.Resources[1].Id == "" {
		t.Error("resource id is not assigned")
	}
	if topic.Status != view.TopicNotStarted {
		t.Errorf("Status = %s, want %s", topic.Status, view.TopicNotStarted)
	}
	if topic.TotalResources != 2 {
		t.Errorf("TotalResources = %d, want 2", topic.TotalResources)
	}
	if topic.CompletedResources != 1 {
		t.Errorf("CompletedResources = %d, want 1", topic.CompletedResources)
	}
	if got := prepareTopics(nil); got == nil || len(got) != 0 {
		t.Errorf("prepareTopics(nil) = %v, want empty slice", got)
	}
}

func TestCountCompletedResources_WithoutResourceList(t *testing.T) {
	topic := view.Topic{TotalResources: 2, CompletedResourceIds: []string{"a", "b", "c"}}
	if got := countCompletedResources(topic); got != 2 {
		t.Errorf("countCompletedResources() = %d, want 2", got)
	}
}

func TestTopicStatusFromResources(t *testing.T) {
	tests := []struct {
		name  string
		topic view.Topic
		want  view.TopicStatus
	}{
		{"all done", view.Topic{CompletedResources: 3, TotalResources: 3}, view.TopicCompleted},
		{"some done", view.Topic{CompletedResources: 1, TotalResources: 3}, view.TopicInProgress},
		{"none done", view.Topic{Status: view.TopicCompleted, TotalResources: 3}, view.TopicNotStarted},
		{"no resources", view.Topic{Status: view.TopicInProgress}, view.TopicInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := topicStatusFromResources(tt.topic); got != tt.want {
				t.Errorf("topicStatusFromResources() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPrepareProjects(t *testing.T) {
	got := prepareProjects([]view.Project{{Title: "CLI", Difficulty: "ADVANCED"}, {Title: "Blog", Description: "d"}})
	if got[0].Description != noDescription || got[0].Difficulty != difficultyAdvanced {
		t.Errorf("prepareProjects()[0] = %+v", got[0])
	}
	if got[1].Difficulty != difficultyIntermediate {
		t.Errorf("prepareProjects()[1].Difficulty = %s, want %s", got[1].Difficulty, difficultyIntermediate)
	}
}

func TestCalculateUserStats(t *testing.T) {
	roadmaps := []entity.Roadmap{
		{
			CompletionPercentage: 100,
			Topics: []view.Topic{{
				Status: view.TopicCompleted,
				Resources: []view.TopicResource{
					{Id: "a", Type: view.ResourceTypeVideo, Duration: 600},
					{Id: "b", Type: view.ResourceTypeVideo, DurationText: "1:00:00"},
				},
				CompletedResourceIds: []string{"a", "b", "a"},
			}},
		},
		{
			CompletionPercentage: 0,
			Topics: []view.Topic{{
				Status:    view.TopicNotStarted,
				Resources: []view.TopicResource{{Id: "c", Type: view.ResourceTypeVideo}, {Id: "d", Type: view.ResourceTypeArticle}},
			}},
		},
	}
	custom := []entity.CustomRoadmap{{Topics: []view.CustomTopic{{}, {}}}}

	stats := calculateUserStats(roadmaps, custom)

	if stats.TotalRoadmaps != 3 || stats.RegularRoadmaps != 2 || stats.CustomRoadmaps != 1 {
		t.Errorf("roadmap counts = %+v", stats)
	}
	if stats.CompletedRoadmaps != 1 {
		t.Errorf("CompletedRoadmaps = %d, want 1", stats.CompletedRoadmaps)
	}
	if stats.TotalTopics != 4 || stats.CompletedTopics != 1 {
		t.Errorf("TotalTopics = %d, CompletedTopics = %d", stats.TotalTopics, stats.CompletedTopics)
	}
	if stats.TotalVideos != 4 || stats.CompletedVideos != 2 {
		t.Errorf("TotalVideos = %d, CompletedVideos = %d", stats.TotalVideos, stats.CompletedVideos)
	}
	if stats.TotalResources != 4 {
		t.Errorf("TotalResources = %d, want 4", stats.TotalResources)
	}
	if stats.CompletionPercentage != 50 {
		t.Errorf("CompletionPercentage = %d, want 50", stats.CompletionPercentage)
	}
	if stats.AverageCompletion != 33 {
		t.Errorf("AverageCompletion = %d, want 33", stats.AverageCompletion)
	}
	if stats.TotalLearningTime != 4200 || stats.FormattedLearningTime != "1h 10m" {
		t.Errorf("learning time = %d (%s)", stats.TotalLearningTime, stats.FormattedLearningTime)
	}
}

func TestCalculateUserStats_MixedResourceTypes(t *testing.T) {
	roadmaps := []entity.Roadmap{
		{
			Topics: []view.Topic{{
				Resources: []view.TopicResource{
					{Id: "v", Type: view.ResourceTypeVideo, Duration: 60},
					{Id: "a", Type: view.ResourceTypeArticle, Duration: 120},
				},
				CompletedResourceIds: []string{"a", "stale-id"},
			}},
		},
		{
			// the same resource completed in a second roadmap is not counted again
			Topics: []view.Topic{{
				Resources:            []view.TopicResource{{Id: "a", Type: view.ResourceTypeArticle, Duration: 120}},
				CompletedResourceIds: []string{"a"},
			}},
		},
	}

	stats := calculateUserStats(roadmaps, nil)

	if stats.TotalResources != 3 || stats.TotalVideos != 3 || stats.CompletedVideos != 1 {
		t.Errorf("TotalResources = %d, TotalVideos = %d, CompletedVideos = %d, want 3/3/1",
			stats.TotalResources, stats.TotalVideos, stats.CompletedVideos)
	}
	if stats.CompletionPercentage != 33 {
		t.Errorf("CompletionPercentage = %d, want 33", stats.CompletionPercentage)
	}
	if stats.TotalLearningTime != 120 {
		t.Errorf("TotalLearningTime = %d, want 120", stats.TotalLearningTime)
	}
}

func TestCalculateUserStats_StaleIds(t *testing.T) {
	roadmaps := []entity.Roadmap{{
		Topics: []view.Topic{{
			Resources: []view.TopicResource{
				{Id: "v", Type: view.ResourceTypeVideo},
				{Id: "a", Type: view.ResourceTypeArticle},
			},
			CompletedResourceIds: []string{"a", "stale-id"},
		}},
	}}

	stats := calculateUserStats(roadmaps, nil)

	if stats.TotalResources != 2 || stats.TotalVideos != 2 || stats.CompletedVideos != 1 || stats.CompletionPercentage != 50 {
		t.Errorf("stats = %+v, want 2/2/1 and 50%%", stats)
	}
}
