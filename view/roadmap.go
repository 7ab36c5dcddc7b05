package view

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

func (d Difficulty) IsValid() bool {
	return d == DifficultyBeginner || d == DifficultyIntermediate || d == DifficultyAdvanced
}

type TopicStatus string

const (
	TopicNotStarted TopicStatus = "not-started"
	TopicInProgress TopicStatus = "in-progress"
	TopicCompleted  TopicStatus = "completed"
)

func (s TopicStatus) IsValid() bool {
	return s == TopicNotStarted || s == TopicInProgress || s == TopicCompleted
}

type ResourceType string

const (
	ResourceTypeVideo         ResourceType = "video"
	ResourceTypeArticle       ResourceType = "article"
	ResourceTypeCourse        ResourceType = "course"
	ResourceTypeBook          ResourceType = "book"
	ResourceTypeDocumentation ResourceType = "documentation"
	ResourceTypeOther         ResourceType = "other"
)

func (t ResourceType) IsValid() bool {
	switch t {
	case ResourceTypeVideo, ResourceTypeArticle, ResourceTypeCourse, ResourceTypeBook, ResourceTypeDocumentation, ResourceTypeOther:
		return true
	}
	return false
}

type TopicResource struct {
	Id           string       `json:"id"`
	Title        string       `json:"title"`
	Url          string       `json:"url"`
	Type         ResourceType `json:"type"`
	Description  string       `json:"description,omitempty"`
	ThumbnailUrl string       `json:"thumbnailUrl,omitempty"`
	Source       string       `json:"source,omitempty"`
	Duration     int          `json:"duration,omitempty"` // seconds
	DurationText string       `json:"durationText,omitempty"`
	IsRequired   bool         `json:"isRequired"`
}

type Topic struct {
	Id                    string          `json:"id"`
	Title                 string          `json:"title"`
	Description           string          `json:"description"`
	Order                 int             `json:"order"`
	Difficulty            string          `json:"difficulty,omitempty"`
	Status                TopicStatus     `json:"status"`
	CompletedResources    int             `json:"completedResources"`
	TotalResources        int             `json:"totalResources"`
	HasGeneratedResources bool            `json:"hasGeneratedResources"`
	CompletedResourceIds  []string        `json:"completedResourceIds"`
	Resources             []TopicResource `json:"resources"`
}

type AdvancedTopic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

type Roadmap struct {
	Id                   string          `json:"id"`
	UserId               string          `json:"userId"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Category             string          `json:"category"`
	Difficulty           Difficulty      `json:"difficulty"`
	IsPublic             bool            `json:"isPublic"`
	IsCustom             bool            `json:"isCustom"`
	CompletionPercentage int             `json:"completionPercentage"`
	Topics               []Topic         `json:"topics"`
	AdvancedTopics       []AdvancedTopic `json:"advancedTopics"`
	Projects             []Project       `json:"projects"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

type RoadmapReq struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Difficulty     Difficulty      `json:"difficulty"`
	IsPublic       bool            `json:"isPublic"`
	IsCustom       bool            `json:"isCustom"`
	Topics         []Topic         `json:"topics"`
	AdvancedTopics []AdvancedTopic `json:"advancedTopics"`
	Projects       []Project       `json:"projects"`
}

// RoadmapUpdateReq keeps nil fields unchanged.
type RoadmapUpdateReq struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	Category       *string          `json:"category"`
	Difficulty     *Difficulty      `json:"difficulty"`
	IsPublic       *bool            `json:"isPublic"`
	Topics         *[]Topic         `json:"topics"`
	AdvancedTopics *[]AdvancedTopic `json:"advancedTopics"`
	Projects       *[]Project       `json:"projects"`
}

type AddTopicReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type TopicProgressReq struct {
	Status TopicStatus `json:"status"`
}

type RoadmapProgressReq struct {
	TopicId              string   `json:"topicId"`
	CompletedResourceIds []string `json:"completedResourceIds"`
}

type RoadmapExport struct {
	ExportedAt time.Time         `json:"exportedAt"`
	Roadmap    Roadmap           `json:"roadmap"`
	Notes      map[string]string `json:"notes"`
}
