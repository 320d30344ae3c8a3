package collect

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/reviewpulse/reviewpulse/internal/database"
)

const (
	youtubeSearchURL   = "https://www.googleapis.com/youtube/v3/search"
	youtubeCommentsURL = "https://www.googleapis.com/youtube/v3/commentThreads"
)

// YouTubeComment is one top-level comment from a video.
type YouTubeComment struct {
	ID          string
	VideoID     string
	Author      string
	Text        string
	PublishedAt string
}

// YouTubeClient fetches video comments via the YouTube Data API.
type YouTubeClient struct {
	apiKey string
	client *http.Client
}

// NewYouTubeClient creates a client with the API key read from the named
// environment variable.
func NewYouTubeClient(apiKeyEnv string) *YouTubeClient {
	return &YouTubeClient{
		apiKey: os.Getenv(apiKeyEnv),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// IsConfigured returns whether the API key is available.
func (c *YouTubeClient) IsConfigured() bool {
	return c.apiKey != ""
}

// SearchComments finds videos matching the query and collects top-level
// comments from each.
func (c *YouTubeClient) SearchComments(query string, maxVideos, maxComments int) []YouTubeComment {
	videoIDs := c.searchVideos(query, maxVideos)

	var all []YouTubeComment
	for _, videoID := range videoIDs {
		comments := c.videoComments(videoID, maxComments)
		all = append(all, comments...)
		time.Sleep(time.Second)
	}

	log.Printf("Fetched %d YouTube comments for query: %s", len(all), query)
	return all
}

func (c *YouTubeClient) searchVideos(query string, maxResults int) []string {
	if maxResults <= 0 || maxResults > 50 {
		maxResults = 10
	}
	params := url.Values{
		"part":       {"id"},
		"q":          {query},
		"type":       {"video"},
		"maxResults": {strconv.Itoa(maxResults)},
		"key":        {c.apiKey},
	}

	var result struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if !c.getJSON(youtubeSearchURL, params, &result) {
		return nil
	}

	var ids []string
	for _, item := range result.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids
}

func (c *YouTubeClient) videoComments(videoID string, maxResults int) []YouTubeComment {
	if maxResults <= 0 || maxResults > 100 {
		maxResults = 100
	}
	params := url.Values{
		"part":       {"snippet"},
		"videoId":    {videoID},
		"maxResults": {strconv.Itoa(maxResults)},
		"textFormat": {"plainText"},
		"key":        {c.apiKey},
	}

	var result struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				TopLevelComment struct {
					Snippet struct {
						TextDisplay       string `json:"textDisplay"`
						AuthorDisplayName string `json:"authorDisplayName"`
						PublishedAt       string `json:"publishedAt"`
					} `json:"snippet"`
				} `json:"topLevelComment"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if !c.getJSON(youtubeCommentsURL, params, &result) {
		return nil
	}

	var comments []YouTubeComment
	for _, item := range result.Items {
		top := item.Snippet.TopLevelComment.Snippet
		if top.TextDisplay == "" {
			continue
		}
		comments = append(comments, YouTubeComment{
			ID:          item.ID,
			VideoID:     videoID,
			Author:      top.AuthorDisplayName,
			Text:        top.TextDisplay,
			PublishedAt: top.PublishedAt,
		})
	}
	return comments
}

func (c *YouTubeClient) getJSON(endpoint string, params url.Values, out any) bool {
	resp, err := c.client.Get(endpoint + "?" + params.Encode())
	if err != nil {
		log.Printf("YouTube API error: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("YouTube API HTTP error: %d", resp.StatusCode)
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Printf("YouTube decode error: %v", err)
		return false
	}
	return true
}

func (yc *YouTubeComment) toRawItem() *database.RawItem {
	return &database.RawItem{
		ExternalID: "yt_" + yc.ID,
		SourceType: SourceYouTube,
		SourceName: "YouTube",
		// Comments arrive via target-product keyword search; comments have
		// no rating.
		IsTarget:  true,
		Author:    strPtr(yc.Author),
		Text:      yc.Text,
		CreatedAt: strPtr(yc.PublishedAt),
	}
}
