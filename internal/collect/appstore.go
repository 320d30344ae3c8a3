package collect

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/reviewpulse/reviewpulse/internal/config"
	"github.com/reviewpulse/reviewpulse/internal/database"
)

const appStoreFeedURL = "https://itunes.apple.com/%s/rss/customerreviews/page=%d/id=%s/sortby=mostrecent/xml"

// AppStoreReview is one customer review parsed from Apple's review feed.
type AppStoreReview struct {
	ID        string
	Author    string
	Title     string
	Body      string
	Rating    float64
	UpdatedAt string
}

// AppStoreClient fetches customer reviews from Apple's public Atom feed.
type AppStoreClient struct {
	country string
	pages   int
	client  *http.Client
	parser  *gofeed.Parser
}

// NewAppStoreClient creates a client for the given storefront country.
func NewAppStoreClient(country string, pages int) *AppStoreClient {
	if country == "" {
		country = "us"
	}
	if pages <= 0 {
		pages = 1
	}
	return &AppStoreClient{
		country: country,
		pages:   pages,
		client:  &http.Client{Timeout: 30 * time.Second},
		parser:  gofeed.NewParser(),
	}
}

// Reviews fetches up to pages*50 recent reviews for an app.
func (c *AppStoreClient) Reviews(appID string) ([]AppStoreReview, error) {
	var all []AppStoreReview
	for page := 1; page <= c.pages; page++ {
		feedURL := fmt.Sprintf(appStoreFeedURL, c.country, page, appID)
		reviews, err := c.fetchPage(feedURL)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			// Later pages 404 once the feed runs out.
			break
		}
		if len(reviews) == 0 {
			break
		}
		all = append(all, reviews...)
		time.Sleep(time.Second)
	}
	log.Printf("Fetched %d App Store reviews for app %s", len(all), appID)
	return all, nil
}

func (c *AppStoreClient) fetchPage(feedURL string) ([]AppStoreReview, error) {
	resp, err := c.client.Get(feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetching review feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("review feed returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading review feed: %w", err)
	}

	feed, err := c.parser.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing review feed: %w", err)
	}

	return parseReviewFeed(feed), nil
}

// parseReviewFeed extracts reviews from a parsed customer-reviews feed.
// The first entry describes the app itself and carries no im:rating, so
// entries without a rating are skipped.
func parseReviewFeed(feed *gofeed.Feed) []AppStoreReview {
	var reviews []AppStoreReview
	for _, item := range feed.Items {
		rating, ok := ratingExtension(item)
		if !ok {
			continue
		}

		// Apple serves the review body as an Atom content element, but
		// some storefronts include a summary as well.
		body := item.Content
		if body == "" {
			body = item.Description
		}

		review := AppStoreReview{
			ID:     item.GUID,
			Title:  strings.TrimSpace(item.Title),
			Body:   strings.TrimSpace(body),
			Rating: rating,
		}
		if item.Author != nil {
			review.Author = item.Author.Name
		}
		if item.UpdatedParsed != nil {
			review.UpdatedAt = item.UpdatedParsed.Format(time.RFC3339)
		} else if item.PublishedParsed != nil {
			review.UpdatedAt = item.PublishedParsed.Format(time.RFC3339)
		}
		reviews = append(reviews, review)
	}
	return reviews
}

// ratingExtension reads the im:rating Atom extension Apple attaches to
// each review entry.
func ratingExtension(item *gofeed.Item) (float64, bool) {
	im, ok := item.Extensions["im"]
	if !ok {
		return 0, false
	}
	exts, ok := im["rating"]
	if !ok || len(exts) == 0 {
		return 0, false
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(exts[0].Value), 64)
	if err != nil {
		return 0, false
	}
	return rating, true
}

func (r *AppStoreReview) toRawItem(app config.App) *database.RawItem {
	text := r.Body
	if r.Title != "" {
		text = r.Title + "\n" + r.Body
	}
	rating := r.Rating
	externalID := r.ID
	if externalID == "" {
		externalID = fmt.Sprintf("appstore_%s_%s_%s", app.AppStoreID, r.Author, r.UpdatedAt)
	}
	return &database.RawItem{
		ExternalID: externalID,
		SourceType: SourceAppStore,
		SourceName: app.Name,
		IsTarget:   app.IsTarget,
		Author:     strPtr(r.Author),
		Rating:     &rating,
		Text:       text,
		CreatedAt:  strPtr(r.UpdatedAt),
	}
}
