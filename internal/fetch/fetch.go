package fetch

import (
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/reviewpulse/reviewpulse/internal/database"
)

// Result holds the results of a content fetch run.
type Result struct {
	Fetched int
	Failed  int
}

// ContentFetcher fetches full post text via HTTP + readability extraction.
// Blog and article search results arrive with only a short summary; the
// analyzer works much better on the full text.
type ContentFetcher struct {
	db     *database.DB
	client *http.Client
}

// NewContentFetcher creates a new content fetcher.
func NewContentFetcher(db *database.DB, timeout time.Duration) *ContentFetcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &ContentFetcher{
		db: db,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// FetchMissingContent fetches full text for blog items that only carry a
// search-result summary.
func (f *ContentFetcher) FetchMissingContent() *Result {
	items, err := f.db.GetItemsNeedingFetch()
	if err != nil {
		log.Printf("Error getting items needing fetch: %v", err)
		return &Result{}
	}

	if len(items) == 0 {
		log.Println("No items need content fetching")
		return &Result{}
	}

	result := &Result{}
	failedDomains := make(map[string]struct{})

	for _, item := range items {
		if item.URL == nil {
			continue
		}
		itemURL := *item.URL

		u, _ := url.Parse(itemURL)
		domain := ""
		if u != nil {
			domain = strings.ToLower(u.Host)
		}

		if _, failed := failedDomains[domain]; failed {
			f.db.MarkItemFetchAttempted(item.ID)
			result.Failed++
			continue
		}

		content, httpErr := f.fetchPostContent(itemURL)
		if httpErr != nil {
			f.db.MarkItemFetchAttempted(item.ID)
			result.Failed++
			if domain != "" {
				failedDomains[domain] = struct{}{}
			}
			log.Printf("HTTP error for %s, skipping remaining from %s", itemURL, domain)
			continue
		}

		if content != "" {
			f.db.UpdateItemText(item.ID, content)
			result.Fetched++
			log.Printf("Fetched content for item %d from %s", item.ID, domain)
		} else {
			f.db.MarkItemFetchAttempted(item.ID)
			result.Failed++
			log.Printf("No extractable content from: %s", itemURL)
		}
	}

	log.Printf("Content fetch complete: %d fetched, %d failed", result.Fetched, result.Failed)
	return result
}

func (f *ContentFetcher) fetchPostContent(postURL string) (string, error) {
	req, err := http.NewRequest("GET", postURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "reviewpulse/1.0 (feedback aggregator)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil // connection error, not HTTP error
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &httpError{code: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil
	}

	parsedURL, _ := url.Parse(postURL)
	post, err := readability.FromReader(strings.NewReader(string(bodyBytes)), parsedURL)
	if err != nil {
		return "", nil
	}

	text := strings.TrimSpace(post.TextContent)
	if len(text) > 100 {
		return text, nil
	}
	return "", nil
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return http.StatusText(e.code)
}
