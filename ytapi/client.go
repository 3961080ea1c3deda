package ytapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"yt-insight/config"
	"yt-insight/models"
)

const (
	// MaxPageSize is the largest page commentThreads.list accepts.
	MaxPageSize = 100

	reasonCommentsDisabled = "commentsDisabled"
)

var ErrVideoNotFound = errors.New("video not found")

// CommentsStatus explains an empty comment list.
type CommentsStatus string

const (
	CommentsOK          CommentsStatus = "ok"
	CommentsDisabled    CommentsStatus = "disabled"
	CommentsUnavailable CommentsStatus = "unavailable"
)

// AnalysisData is everything the report generator needs about one video.
type AnalysisData struct {
	Details        models.VideoDetails
	Comments       []models.VideoComment
	CommentsStatus CommentsStatus
}

type Options struct {
	APIKey string
	// HTTPClient carries tracing and timeouts. The API key is added on top of its transport.
	HTTPClient *http.Client
	// Endpoint overrides the API base URL. Tests point it at an httptest server.
	Endpoint string
	PageSize int
}

// Client reads video metadata and comment threads from the YouTube Data API.
type Client struct {
	svc      *youtube.Service
	pageSize int
}

func NewClient(ctx context.Context, o Options) (*Client, error) {
	base := o.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	hc := *base
	if o.APIKey != "" {
		hc.Transport = &transport.APIKey{Key: o.APIKey, Transport: rt}
	}

	opts := []option.ClientOption{option.WithHTTPClient(&hc)}
	if o.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(o.Endpoint))
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	pageSize := o.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return &Client{svc: svc, pageSize: pageSize}, nil
}

// FetchVideoDetails returns the snippet and statistics of one video.
func (c *Client) FetchVideoDetails(ctx context.Context, videoID string) (models.VideoDetails, error) {
	resp, err := c.svc.Videos.List([]string{"snippet", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return models.VideoDetails{}, fmt.Errorf("videos.list %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return models.VideoDetails{}, ErrVideoNotFound
	}
	return mapVideo(resp.Items[0]), nil
}

// FetchComments pages through the top-level comments of a video until max
// comments were collected or the listing ends. The result never exceeds max.
// Any failure yields an empty list; the status tells why.
func (c *Client) FetchComments(ctx context.Context, videoID string, max int) ([]models.VideoComment, CommentsStatus) {
	comments := []models.VideoComment{}
	pageToken := ""
	for len(comments) < max {
		call := c.svc.CommentThreads.List([]string{"snippet"}).
			VideoId(videoID).
			MaxResults(int64(min(max-len(comments), c.pageSize))).
			TextFormat("plainText").
			Order("relevance").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			status := classifyCommentsError(err)
			config.Logger().Warn("comment fetch failed", "video_id", videoID, "status", string(status), "error", err)
			return []models.VideoComment{}, status
		}
		for _, thread := range resp.Items {
			if cm, ok := mapThread(thread); ok {
				comments = append(comments, cm)
			}
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	if len(comments) > max {
		comments = comments[:max]
	}
	return comments, CommentsOK
}

// FetchAnalysisData runs the details and comments fetches concurrently.
// Only a details failure is returned; comment failures surface as an empty list.
func (c *Client) FetchAnalysisData(ctx context.Context, videoID string, maxComments int) (AnalysisData, error) {
	var data AnalysisData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := c.FetchVideoDetails(gctx, videoID)
		if err != nil {
			return err
		}
		data.Details = d
		return nil
	})
	g.Go(func() error {
		data.Comments, data.CommentsStatus = c.FetchComments(gctx, videoID, maxComments)
		return nil
	})
	if err := g.Wait(); err != nil {
		return AnalysisData{}, err
	}
	return data, nil
}

func classifyCommentsError(err error) CommentsStatus {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		for _, item := range gerr.Errors {
			if item.Reason == reasonCommentsDisabled {
				return CommentsDisabled
			}
		}
	}
	return CommentsUnavailable
}

func mapVideo(v *youtube.Video) models.VideoDetails {
	d := models.VideoDetails{ID: v.Id}
	if s := v.Snippet; s != nil {
		d.Title = s.Title
		d.Description = s.Description
		d.PublishedAt = s.PublishedAt
		d.ChannelTitle = s.ChannelTitle
		if t := s.Thumbnails; t != nil {
			d.Thumbnails = models.Thumbnails{
				Default: mapThumbnail(t.Default),
				Medium:  mapThumbnail(t.Medium),
				High:    mapThumbnail(t.High),
			}
		}
	}
	if st := v.Statistics; st != nil {
		d.ViewCount = int64(st.ViewCount)
		d.LikeCount = int64(st.LikeCount)
		d.CommentCount = int64(st.CommentCount)
	}
	return d
}

func mapThumbnail(t *youtube.Thumbnail) models.Thumbnail {
	if t == nil {
		return models.Thumbnail{}
	}
	return models.Thumbnail{URL: t.Url, Width: t.Width, Height: t.Height}
}

func mapThread(t *youtube.CommentThread) (models.VideoComment, bool) {
	if t == nil || t.Snippet == nil || t.Snippet.TopLevelComment == nil || t.Snippet.TopLevelComment.Snippet == nil {
		return models.VideoComment{}, false
	}
	s := t.Snippet.TopLevelComment.Snippet
	likes := s.LikeCount
	c := models.VideoComment{
		ID:                    t.Id,
		AuthorDisplayName:     s.AuthorDisplayName,
		AuthorProfileImageURL: s.AuthorProfileImageUrl,
		AuthorChannelURL:      s.AuthorChannelUrl,
		TextDisplay:           s.TextDisplay,
		TextOriginal:          s.TextOriginal,
		LikeCount:             &likes,
		PublishedAt:           s.PublishedAt,
		UpdatedAt:             s.UpdatedAt,
	}
	if t.Snippet.TotalReplyCount > 0 {
		c.Replies = []models.VideoComment{}
	}
	return c, true
}
