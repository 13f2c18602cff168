package youtube

// Thumbnail is one rendition of a video thumbnail
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Snippet is the part=snippet block shared by search and videos
type Snippet struct {
	PublishedAt  string               `json:"publishedAt"`
	ChannelID    string               `json:"channelId"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	ChannelTitle string               `json:"channelTitle"`
	Thumbnails   map[string]Thumbnail `json:"thumbnails"`
}

// SearchResponse is the body of /search
type SearchResponse struct {
	NextPageToken string `json:"nextPageToken,omitempty"`
	Items         []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet Snippet `json:"snippet"`
	} `json:"items"`
}

// VideosResponse is the body of /videos
type VideosResponse struct {
	Items []struct {
		ID             string  `json:"id"`
		Snippet        Snippet `json:"snippet"`
		ContentDetails struct {
			Duration   string `json:"duration"`
			Definition string `json:"definition"`
		} `json:"contentDetails"`
		// Counts arrive as decimal strings
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// ErrorResponse is the Google API error envelope
type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
