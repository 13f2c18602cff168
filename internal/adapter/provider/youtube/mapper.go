package youtube

import (
	"strconv"

	"github.com/mmcdole/cinedex/internal/domain"
)

// thumbnail picks the best available rendition
func thumbnail(s Snippet) string {
	for _, size := range []string{"high", "medium", "default"} {
		if t, ok := s.Thumbnails[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

func mapTrailer(id string, s Snippet) domain.Trailer {
	return domain.Trailer{
		VideoID:      id,
		Title:        s.Title,
		Description:  s.Description,
		ChannelTitle: s.ChannelTitle,
		PublishedAt:  s.PublishedAt,
		ThumbnailURL: thumbnail(s),
	}
}

// MapSearch converts search hits, skipping channels and playlists
func MapSearch(resp SearchResponse) []domain.Trailer {
	out := make([]domain.Trailer, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		out = append(out, mapTrailer(item.ID.VideoID, item.Snippet))
	}
	return out
}

func count(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

// MapVideo converts the first /videos item; nil when the list is empty
func MapVideo(resp VideosResponse) *domain.VideoDetails {
	if len(resp.Items) == 0 {
		return nil
	}
	item := resp.Items[0]
	return &domain.VideoDetails{
		Trailer:      mapTrailer(item.ID, item.Snippet),
		Duration:     item.ContentDetails.Duration,
		Definition:   item.ContentDetails.Definition,
		ViewCount:    count(item.Statistics.ViewCount),
		LikeCount:    count(item.Statistics.LikeCount),
		CommentCount: count(item.Statistics.CommentCount),
	}
}
