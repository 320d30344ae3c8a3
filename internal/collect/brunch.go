package collect

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/reviewpulse/reviewpulse/internal/database"
)

const (
	brunchBaseURL   = "https://brunch.co.kr"
	brunchSearchURL = brunchBaseURL + "/search"
	// Brunch has no search API; a browser User-Agent is required or the
	// search page serves an empty shell.
	brunchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// BrunchPost is one article scraped from the Brunch search results page.
type BrunchPost struct {
	URL      string
	Title    string
	Summary  string
	Author   string
	PostDate string // YYYY-MM-DD or empty
}

// BrunchClient scrapes the Brunch search page for articles mentioning a
// keyword. Brunch posts carry only a summary in search results; the full
// text arrives later via the content fetcher.
type BrunchClient struct {
	maxArticles int
	client      *http.Client
}

// NewBrunchClient creates a new Brunch search client.
func NewBrunchClient(maxArticles int) *BrunchClient {
	if maxArticles <= 0 || maxArticles > 50 {
		maxArticles = 50
	}
	return &BrunchClient{
		maxArticles: maxArticles,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Search returns articles matching a keyword.
func (c *BrunchClient) Search(keyword string) []BrunchPost {
	params := url.Values{"q": {keyword}}
	req, err := http.NewRequest("GET", brunchSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Printf("Brunch request error: %v", err)
		return nil
	}
	req.Header.Set("User-Agent", brunchUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Brunch search error: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Brunch search HTTP error: %d", resp.StatusCode)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("Brunch parse error: %v", err)
		return nil
	}

	posts := parseBrunchResults(doc, c.maxArticles)
	log.Printf("Fetched %d Brunch articles for keyword: %s", len(posts), keyword)
	return posts
}

// parseBrunchResults extracts posts from a parsed search results page.
func parseBrunchResults(doc *goquery.Document, max int) []BrunchPost {
	var posts []BrunchPost
	doc.Find("ul.list_article > li").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(posts) >= max {
			return false
		}

		href, ok := s.Find("a.link_post").Attr("href")
		if !ok || href == "" {
			return true
		}

		posts = append(posts, BrunchPost{
			URL:      brunchBaseURL + href,
			Title:    strings.TrimSpace(s.Find("strong.tit_subject").Text()),
			Summary:  strings.TrimSpace(s.Find("p.desc_article").Text()),
			Author:   strings.TrimSpace(s.Find("span.name_txt").Text()),
			PostDate: parseBrunchDate(strings.TrimSpace(s.Find("span.time_txt").Text())),
		})
		return true
	})
	return posts
}

// parseBrunchDate handles Brunch's absolute date format (YYYY.MM.DD).
// Relative stamps like "1시간 전" are unparseable and yield "".
func parseBrunchDate(s string) string {
	t, err := time.Parse("2006.01.02", s)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func (p *BrunchPost) toRawItem() *database.RawItem {
	text := p.Title
	if p.Summary != "" {
		text = p.Title + "\n" + p.Summary
	}
	return &database.RawItem{
		ExternalID: p.URL,
		SourceType: SourceArticle,
		SourceName: "Brunch",
		// Articles arrive via target-product keyword search.
		IsTarget:  true,
		URL:       strPtr(p.URL),
		Author:    strPtr(p.Author),
		Text:      text,
		CreatedAt: strPtr(p.PostDate),
	}
}
