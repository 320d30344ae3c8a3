package collect

import (
	"log"
	"time"

	"github.com/reviewpulse/reviewpulse/internal/config"
	"github.com/reviewpulse/reviewpulse/internal/database"
)

// Source type values stored on raw items.
const (
	SourceAppStore  = "app-store"
	SourcePlayStore = "play-store"
	SourceYouTube   = "video-platform"
	SourceBlog      = "blog"
	SourceArticle   = "article-search"
)

// Result holds the results of a collection run.
type Result struct {
	TotalFound int
	NewItems   int
	Duplicates int
	Sources    map[string]int
}

// Collector orchestrates feedback collection from all configured channels:
// App Store review feeds, blog/article RSS feeds, Naver blog search, Brunch
// article search, and YouTube comments.
type Collector struct {
	cfg          *config.Config
	db           *database.DB
	appStore     *AppStoreClient
	feedParser   *FeedParser
	naverClient  *NaverClient
	brunchClient *BrunchClient
	ytClient     *YouTubeClient
}

// NewCollector creates a collector for all enabled sources.
func NewCollector(cfg *config.Config, db *database.DB) *Collector {
	c := &Collector{cfg: cfg, db: db}

	if cfg.Sources.AppStore.Enabled {
		c.appStore = NewAppStoreClient(cfg.Sources.AppStore.Country, cfg.Sources.AppStore.Pages)
	}

	if len(cfg.Sources.Feeds) > 0 {
		feeds := make([]FeedConfig, len(cfg.Sources.Feeds))
		for i, f := range cfg.Sources.Feeds {
			feeds[i] = FeedConfig{URL: f.URL, Name: f.Name}
		}
		c.feedParser = NewFeedParser(feeds)
	}

	if cfg.Sources.Naver.Enabled {
		c.naverClient = NewNaverClient(cfg.Sources.Naver.ClientIDEnv, cfg.Sources.Naver.ClientSecretEnv)
	}

	if cfg.Sources.Brunch.Enabled {
		c.brunchClient = NewBrunchClient(cfg.Sources.Brunch.MaxArticles)
	}

	if cfg.Sources.YouTube.Enabled {
		c.ytClient = NewYouTubeClient(cfg.Sources.YouTube.APIKeyEnv)
	}

	return c
}

// Collect pulls items from every enabled source and stores them, deduped on
// external_id. Per-source failures are logged and do not abort the run.
func (c *Collector) Collect() *Result {
	r := &Result{Sources: make(map[string]int)}

	if c.appStore != nil {
		log.Println("Collecting App Store reviews...")
		for _, app := range c.cfg.Apps {
			if app.AppStoreID == "" {
				continue
			}
			reviews, err := c.appStore.Reviews(app.AppStoreID)
			if err != nil {
				log.Printf("Error collecting App Store reviews for %s: %v", app.Name, err)
				continue
			}
			for _, rev := range reviews {
				c.insert(r, rev.toRawItem(app))
			}
		}
	}

	if c.feedParser != nil {
		log.Println("Collecting from RSS feeds...")
		for _, entry := range c.feedParser.ParseAll() {
			c.insert(r, entry.toRawItem())
		}
	}

	if c.naverClient != nil && c.naverClient.IsConfigured() {
		log.Println("Collecting from Naver blog search...")
		for _, kw := range c.cfg.SearchKeywords() {
			posts := c.naverClient.Search(kw, c.cfg.Sources.Naver.Display)
			for _, post := range posts {
				c.insert(r, post.toRawItem())
			}
		}
	}

	if c.brunchClient != nil {
		log.Println("Collecting from Brunch article search...")
		// Scraping is slow, so skip the secondary keyword group here.
		keywords := append([]string{}, c.cfg.Keywords.Primary...)
		keywords = append(keywords, c.cfg.Keywords.Competitive...)
		for i, kw := range keywords {
			for _, post := range c.brunchClient.Search(kw) {
				c.insert(r, post.toRawItem())
			}
			// Pace scrape requests to avoid throttling.
			if i < len(keywords)-1 {
				time.Sleep(2 * time.Second)
			}
		}
	}

	if c.ytClient != nil && c.ytClient.IsConfigured() {
		log.Println("Collecting YouTube comments...")
		ytCfg := c.cfg.Sources.YouTube
		for _, kw := range c.cfg.Keywords.Primary {
			comments := c.ytClient.SearchComments(kw, ytCfg.MaxVideosPerSearch, ytCfg.MaxCommentsPerVideo)
			for _, comment := range comments {
				c.insert(r, comment.toRawItem())
			}
		}
	}

	if err := c.db.RecordCollectionRun(r.TotalFound, r.NewItems, r.Duplicates); err != nil {
		log.Printf("Error recording collection run: %v", err)
	}

	log.Printf("Collection complete: %d found, %d new, %d duplicates", r.TotalFound, r.NewItems, r.Duplicates)
	return r
}

func (c *Collector) insert(r *Result, item *database.RawItem) {
	r.TotalFound++
	id, _ := c.db.InsertRawItem(item)
	if id > 0 {
		r.NewItems++
		r.Sources[item.SourceType]++
	} else {
		r.Duplicates++
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
