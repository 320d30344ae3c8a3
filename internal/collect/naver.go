package collect

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/reviewpulse/reviewpulse/internal/database"
)

const naverSearchURL = "https://openapi.naver.com/v1/search/blog.json"

// NaverPost is one blog post from the Naver search API.
type NaverPost struct {
	URL         string
	Title       string
	Description string
	Blogger     string
	PostDate    string // YYYY-MM-DD
}

// NaverClient searches Naver blogs via the open API.
type NaverClient struct {
	clientID     string
	clientSecret string
	client       *http.Client
}

// NewNaverClient creates a new Naver search client with credentials read
// from the named environment variables.
func NewNaverClient(clientIDEnv, clientSecretEnv string) *NaverClient {
	return &NaverClient{
		clientID:     os.Getenv(clientIDEnv),
		clientSecret: os.Getenv(clientSecretEnv),
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// IsConfigured returns whether API credentials are available.
func (c *NaverClient) IsConfigured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// Search returns recent blog posts matching a query, newest first.
func (c *NaverClient) Search(query string, display int) []NaverPost {
	if !c.IsConfigured() {
		log.Println("Naver API not configured, skipping search")
		return nil
	}
	if display <= 0 || display > 100 {
		display = 100
	}

	params := url.Values{
		"query":   {query},
		"display": {strconv.Itoa(display)},
		"sort":    {"date"},
	}

	req, err := http.NewRequest("GET", naverSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Printf("Naver request error: %v", err)
		return nil
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Naver API error: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Naver API HTTP error: %d", resp.StatusCode)
		return nil
	}

	var result struct {
		Items []struct {
			Title       string `json:"title"`
			Link        string `json:"link"`
			Description string `json:"description"`
			BloggerName string `json:"bloggername"`
			PostDate    string `json:"postdate"` // YYYYMMDD
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("Naver decode error: %v", err)
		return nil
	}

	var posts []NaverPost
	for _, item := range result.Items {
		if item.Link == "" {
			continue
		}
		posts = append(posts, NaverPost{
			URL:         item.Link,
			Title:       stripSearchMarkup(item.Title),
			Description: stripSearchMarkup(item.Description),
			Blogger:     item.BloggerName,
			PostDate:    formatPostDate(item.PostDate),
		})
	}

	log.Printf("Fetched %d Naver posts for query: %s", len(posts), query)
	return posts
}

func (p *NaverPost) toRawItem() *database.RawItem {
	text := p.Title
	if p.Description != "" {
		text = p.Title + "\n" + p.Description
	}
	return &database.RawItem{
		ExternalID: p.URL,
		SourceType: SourceBlog,
		SourceName: "NaverBlog",
		// Posts arrive via target-product keyword search.
		IsTarget:  true,
		URL:       strPtr(p.URL),
		Author:    strPtr(p.Blogger),
		Text:      text,
		CreatedAt: strPtr(p.PostDate),
	}
}

// stripSearchMarkup removes the <b> highlighting Naver wraps around matched
// query terms.
func stripSearchMarkup(s string) string {
	s = strings.ReplaceAll(s, "<b>", "")
	s = strings.ReplaceAll(s, "</b>", "")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&amp;", "&")
	return strings.TrimSpace(s)
}

// formatPostDate converts Naver's YYYYMMDD into YYYY-MM-DD.
func formatPostDate(d string) string {
	if len(d) != 8 {
		return ""
	}
	return d[:4] + "-" + d[4:6] + "-" + d[6:]
}

