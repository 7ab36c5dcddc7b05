package view

import "time"

type LearningResourceType string

const (
	LearningResourceVideo    LearningResourceType = "video"
	LearningResourcePlaylist LearningResourceType = "playlist"
)

type ResourceMetadata struct {
	ChannelName  string  `json:"channelName,omitempty"`
	ChannelUrl   string  `json:"channelUrl,omitempty"`
	VideoCount   int     `json:"videoCount,omitempty"`
	ViewCount    int64   `json:"viewCount,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	Quality      string  `json:"quality,omitempty"`
	ThumbnailUrl string  `json:"thumbnailUrl,omitempty"`
}

type ResourceVideo struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Url         string `json:"url"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Duration    string `json:"duration,omitempty"`
	PublishDate string `json:"publish_date,omitempty"`
	Views       int64  `json:"views,omitempty"`
	Likes       int64  `json:"likes,omitempty"`
	Channel     string `json:"channel,omitempty"`
}

type LearningResource struct {
	Id           string               `json:"id"`
	Url          string               `json:"url"`
	Title        string               `json:"title"`
	Description  string               `json:"description,omitempty"`
	Type         LearningResourceType `json:"type"`
	Technologies []string             `json:"technologies,omitempty"`
	Technology   string               `json:"technology,omitempty"`
	IsShared     bool                 `json:"isShared"`
	Metadata     *ResourceMetadata    `json:"metadata,omitempty"`
	Videos       []ResourceVideo      `json:"videos,omitempty"`
	ExpiresAt    time.Time            `json:"expiresAt"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

type TechnologyResources struct {
	Technology string             `json:"technology"`
	Resources  []LearningResource `json:"resources"`
	FromCache  bool               `json:"fromCache"`
}

type DiscoverReq struct {
	Technologies []string `json:"technologies"`
	Limit        int      `json:"limit"`
}

type DiscoverResponse struct {
	Results map[string][]LearningResource `json:"results"`
}

type UpdateSharedReq struct {
	Url          string   `json:"url"`
	Technologies []string `json:"technologies"`
}

type CleanupResult struct {
	DeletedCount int `json:"deletedCount"`
}

// FinderSearchResult is one item returned by the external resource finder.
type FinderSearchResult struct {
	Url         string           `json:"url"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        string           `json:"type"`
	Metadata    ResourceMetadata `json:"metadata"`
	Videos      []ResourceVideo  `json:"videos"`
}

type FinderSearchResponse struct {
	Results []FinderSearchResult `json:"results"`
}

type FinderMatchReq struct {
	Tech1 string `json:"tech1"`
	Tech2 string `json:"tech2"`
}

type FinderMatchResponse struct {
	AreEquivalent bool    `json:"areEquivalent"`
	Similarity    float64 `json:"similarity"`
	Explanation   string  `json:"explanation"`
}
