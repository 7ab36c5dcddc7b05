package view

import "time"

type TopicReq struct {
	Topic string `json:"topic"`
}

type TopicValidation struct {
	IsValid        bool   `json:"isValid" jsonschema:"description=true when the text names something that can be learned"`
	ExtractedTopic string `json:"extractedTopic" jsonschema:"description=cleaned up learning topic"`
	Reason         string `json:"reason" jsonschema:"description=short explanation of the decision"`
	Example        string `json:"example,omitempty" jsonschema:"description=example of a valid topic when the input is invalid"`
}

type Questions struct {
	Questions []string `json:"questions" jsonschema:"description=exactly three questions"`
}

type ValidationWithQuestions struct {
	Validation TopicValidation `json:"validation"`
	Questions  []string        `json:"questions"`
}

type GenerationReq struct {
	Topic           string `json:"topic"`
	ExperienceLevel string `json:"experienceLevel"`
	LearningGoal    string `json:"learningGoal"`
	ContentAmount   string `json:"contentAmount"`
}

type PathItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty" jsonschema:"enum=beginner,enum=intermediate,enum=advanced"`
}

type SectionTopic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Section struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Difficulty  string         `json:"difficulty"`
	Topics      []SectionTopic `json:"topics"`
}

// GeneratedRoadmapSchema is the shape the model is asked to produce.
type GeneratedRoadmapSchema struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	MainPath       []PathItem      `json:"mainPath" jsonschema:"minItems=12,maxItems=15"`
	Prerequisites  []AdvancedTopic `json:"prerequisites"`
	AdvancedTopics []AdvancedTopic `json:"advancedTopics"`
	Projects       []Project       `json:"projects"`
}

type GeneratedRoadmap struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	MainPath       []PathItem      `json:"mainPath,omitempty"`
	Sections       []Section       `json:"sections"`
	Prerequisites  []AdvancedTopic `json:"prerequisites"`
	AdvancedTopics []AdvancedTopic `json:"advancedTopics"`
	Projects       []Project       `json:"projects"`
}

type GenerationSession struct {
	SelectedTopic string    `json:"selectedTopic"`
	Questions     []string  `json:"questions"`
	LastRoadmapId string    `json:"lastRoadmapId,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type RoadmapGeneratedEvent struct {
	UserId    string `json:"userId"`
	TaskId    string `json:"taskId"`
	RoadmapId string `json:"roadmapId"`
}
