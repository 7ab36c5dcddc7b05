package service

import (
	"math"

	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/google/uuid"
)

const noDescription = "No description provided"

// prepareTopics fills the derived topic fields before a roadmap is saved.
func prepareTopics(topics []view.Topic) []view.Topic {
	if topics == nil {
		return []view.Topic{}
	}
	for i := range topics {
		t := &topics[i]
		if t.Id == "" {
			t.Id = uuid.New().String()
		}
		if !t.Status.IsValid() {
			t.Status = view.TopicNotStarted
		}
		if t.Resources == nil {
			t.Resources = []view.TopicResource{}
		}
		if t.CompletedResourceIds == nil {
			t.CompletedResourceIds = []string{}
		}
		for j := range t.Resources {
			if t.Resources[j].Id == "" {
				t.Resources[j].Id = uuid.New().String()
			}
		}
		if t.TotalResources == 0 {
			t.TotalResources = len(t.Resources)
		}
		t.CompletedResources = countCompletedResources(*t)
	}
	return topics
}

func countCompletedResources(t view.Topic) int {
	if len(t.Resources) == 0 {
		n := len(uniqueIds(t.CompletedResourceIds))
		if n > t.TotalResources {
			return t.TotalResources
		}
		return n
	}
	ids := make(map[string]struct{}, len(t.Resources))
	for _, r := range t.Resources {
		ids[r.Id] = struct{}{}
	}
	n := 0
	for _, id := range uniqueIds(t.CompletedResourceIds) {
		if _, ok := ids[id]; ok {
			n++
		}
	}
	return n
}

func uniqueIds(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}

// calculateCompletion is resource based when the topics have resources, topic based otherwise.
func calculateCompletion(topics []view.Topic) int {
	if len(topics) == 0 {
		return 0
	}
	completed, total, completedTopics := 0, 0, 0
	for _, t := range topics {
		completed += t.CompletedResources
		total += t.TotalResources
		if t.Status == view.TopicCompleted {
			completedTopics++
		}
	}
	if total > 0 {
		return percentage(completed, total)
	}
	return percentage(completedTopics, len(topics))
}

// percentage returns round(100*part/whole) clamped to 0..100.
func percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(part) / float64(whole)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// topicStatusFromResources derives the status of a topic from its completed resources.
func topicStatusFromResources(t view.Topic) view.TopicStatus {
	switch {
	case t.TotalResources > 0 && t.CompletedResources >= t.TotalResources:
		return view.TopicCompleted
	case t.CompletedResources > 0:
		return view.TopicInProgress
	case t.TotalResources > 0:
		return view.TopicNotStarted
	default:
		return t.Status
	}
}

func prepareAdvancedTopics(topics []view.AdvancedTopic) []view.AdvancedTopic {
	res := make([]view.AdvancedTopic, 0, len(topics))
	for _, t := range topics {
		if t.Description == "" {
			t.Description = noDescription
		}
		res = append(res, t)
	}
	return res
}

func prepareProjects(projects []view.Project) []view.Project {
	res := make([]view.Project, 0, len(projects))
	for _, p := range projects {
		if p.Description == "" {
			p.Description = noDescription
		}
		p.Difficulty = normalizeDifficulty(p.Difficulty)
		res = append(res, p)
	}
	return res
}
