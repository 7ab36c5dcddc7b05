package view

type UserStats struct {
	TotalRoadmaps         int    `json:"totalRoadmaps"`
	RegularRoadmaps       int    `json:"regularRoadmaps"`
	CustomRoadmaps        int    `json:"customRoadmaps"`
	CompletedRoadmaps     int    `json:"completedRoadmaps"`
	TotalTopics           int    `json:"totalTopics"`
	CompletedTopics       int    `json:"completedTopics"`
	TotalResources        int    `json:"totalResources"`
	TotalVideos           int    `json:"totalVideos"`
	CompletedVideos       int    `json:"completedVideos"`
	CompletionPercentage  int    `json:"completionPercentage"`
	AverageCompletion     int    `json:"averageCompletion"`
	TotalLearningTime     int    `json:"totalLearningTime"`
	FormattedLearningTime string `json:"formattedLearningTime"`
	TotalNotes            int    `json:"totalNotes"`
}
