package models

// Thumbnail is a single preview image rendition.
type Thumbnail struct {
	URL    string `json:"url" bson:"url"`
	Width  int64  `json:"width" bson:"width"`
	Height int64  `json:"height" bson:"height"`
}

// Thumbnails holds the three renditions the video API always reports.
type Thumbnails struct {
	Default Thumbnail `json:"default" bson:"default"`
	Medium  Thumbnail `json:"medium" bson:"medium"`
	High    Thumbnail `json:"high" bson:"high"`
}

// VideoDetails is the metadata and statistics snapshot of one video.
// Counts fall back to 0 when the API omits them.
type VideoDetails struct {
	ID           string     `json:"id" bson:"id"`
	Title        string     `json:"title" bson:"title"`
	Description  string     `json:"description" bson:"description"`
	PublishedAt  string     `json:"publishedAt" bson:"publishedAt"`
	ChannelTitle string     `json:"channelTitle" bson:"channelTitle"`
	ViewCount    int64      `json:"viewCount" bson:"viewCount"`
	LikeCount    int64      `json:"likeCount" bson:"likeCount"`
	CommentCount int64      `json:"commentCount" bson:"commentCount"`
	Thumbnails   Thumbnails `json:"thumbnails" bson:"thumbnails"`
}

// LikeToViewRatio returns likes per view, or 0 for a video with no views.
func (v VideoDetails) LikeToViewRatio() float64 {
	if v.ViewCount <= 0 {
		return 0
	}
	return float64(v.LikeCount) / float64(v.ViewCount)
}

// CommentToViewRatio returns comments per view, or 0 for a video with no views.
func (v VideoDetails) CommentToViewRatio() float64 {
	if v.ViewCount <= 0 {
		return 0
	}
	return float64(v.CommentCount) / float64(v.ViewCount)
}

// VideoComment is one top-level comment.
// LikeCount is nil when the source did not report it; 0 is a valid count.
// Replies is an empty placeholder for threads that have replies and nil otherwise.
type VideoComment struct {
	ID                    string         `json:"id" bson:"id"`
	AuthorDisplayName     string         `json:"authorDisplayName" bson:"authorDisplayName"`
	AuthorProfileImageURL string         `json:"authorProfileImageUrl" bson:"authorProfileImageUrl"`
	AuthorChannelURL      string         `json:"authorChannelUrl" bson:"authorChannelUrl"`
	TextDisplay           string         `json:"textDisplay" bson:"textDisplay"`
	TextOriginal          string         `json:"textOriginal" bson:"textOriginal"`
	LikeCount             *int64         `json:"likeCount,omitempty" bson:"likeCount,omitempty"`
	PublishedAt           string         `json:"publishedAt" bson:"publishedAt"`
	UpdatedAt             string         `json:"updatedAt" bson:"updatedAt"`
	Replies               []VideoComment `json:"replies,omitempty" bson:"replies,omitempty"`
}

// Text returns the display text, falling back to the original text.
func (c VideoComment) Text() string {
	if c.TextDisplay != "" {
		return c.TextDisplay
	}
	return c.TextOriginal
}

// Likes returns the like count, treating an unknown count as 0.
func (c VideoComment) Likes() int64 {
	if c.LikeCount == nil {
		return 0
	}
	return *c.LikeCount
}
