package collect

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/reviewpulse/reviewpulse/internal/config"
)

const reviewFeedXML = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:im="http://itunes.apple.com/rss">
  <id>https://itunes.apple.com/kr/rss/customerreviews/id=1193987818/xml</id>
  <title>iTunes Store: Customer Reviews</title>
  <updated>2026-08-30T00:00:00-07:00</updated>
  <entry>
    <id>1193987818</id>
    <title>Ringle</title>
    <updated>2026-08-30T00:00:00-07:00</updated>
    <content type="text">App summary entry without a rating.</content>
  </entry>
  <entry>
    <id>12345001</id>
    <title>Great app</title>
    <content type="text">Helped my speaking a lot.</content>
    <im:rating>5</im:rating>
    <im:version>3.2.1</im:version>
    <author><name>reviewer1</name></author>
    <updated>2026-08-29T08:00:00-07:00</updated>
  </entry>
  <entry>
    <id>12345002</id>
    <title>너무 비싸요</title>
    <content type="text">좋긴 한데 가격이 부담됩니다.</content>
    <im:rating>2</im:rating>
    <author><name>reviewer2</name></author>
    <updated>2026-08-28T08:00:00-07:00</updated>
  </entry>
</feed>`

func TestParseReviewFeed(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(reviewFeedXML)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	reviews := parseReviewFeed(feed)
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews (summary entry skipped), got %d", len(reviews))
	}

	first := reviews[0]
	if first.Rating != 5 {
		t.Errorf("expected rating 5, got %v", first.Rating)
	}
	if first.Title != "Great app" {
		t.Errorf("expected title 'Great app', got %q", first.Title)
	}
	if first.Body != "Helped my speaking a lot." {
		t.Errorf("unexpected body: %q", first.Body)
	}
	if first.Author != "reviewer1" {
		t.Errorf("expected author 'reviewer1', got %q", first.Author)
	}
	if first.UpdatedAt == "" {
		t.Error("expected updated timestamp")
	}

	second := reviews[1]
	if second.Title != "너무 비싸요" {
		t.Errorf("expected Korean title preserved, got %q", second.Title)
	}
	if second.Rating != 2 {
		t.Errorf("expected rating 2, got %v", second.Rating)
	}
}

func TestAppStoreReviewToRawItem(t *testing.T) {
	review := AppStoreReview{
		ID:        "r1",
		Author:    "someone",
		Title:     "Good",
		Body:      "Works well",
		Rating:    4,
		UpdatedAt: "2026-08-01T00:00:00Z",
	}
	app := config.App{Key: "ringle", Name: "Ringle", AppStoreID: "1193987818", IsTarget: true}

	item := review.toRawItem(app)
	if item.ExternalID != "r1" {
		t.Errorf("expected external ID r1, got %q", item.ExternalID)
	}
	if item.SourceType != SourceAppStore {
		t.Errorf("expected source type %q, got %q", SourceAppStore, item.SourceType)
	}
	if item.SourceName != "Ringle" {
		t.Errorf("expected source name Ringle, got %q", item.SourceName)
	}
	if !item.IsTarget {
		t.Error("expected is_target from app config")
	}
	if item.Text != "Good\nWorks well" {
		t.Errorf("expected title+body text, got %q", item.Text)
	}
	if item.Rating == nil || *item.Rating != 4 {
		t.Errorf("expected rating 4, got %v", item.Rating)
	}
}

func TestAppStoreReviewFallbackExternalID(t *testing.T) {
	review := AppStoreReview{Author: "a", Body: "b", Rating: 3, UpdatedAt: "2026-08-01T00:00:00Z"}
	app := config.App{Name: "Speak", AppStoreID: "1286609883"}

	item := review.toRawItem(app)
	if item.ExternalID == "" {
		t.Error("expected synthesized external ID when feed GUID is missing")
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"no tags", "no tags"},
		{"a &amp; b", "a & b"},
	}
	for _, tc := range cases {
		if got := stripHTML(tc.in); got != tc.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripSearchMarkup(t *testing.T) {
	got := stripSearchMarkup("<b>링글</b> 후기 &quot;강추&quot;")
	if got != `링글 후기 "강추"` {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestFormatPostDate(t *testing.T) {
	if got := formatPostDate("20260815"); got != "2026-08-15" {
		t.Errorf("expected 2026-08-15, got %q", got)
	}
	if got := formatPostDate("bad"); got != "" {
		t.Errorf("expected empty for malformed date, got %q", got)
	}
}

func TestNaverPostToRawItem(t *testing.T) {
	post := NaverPost{
		URL:         "https://blog.naver.com/someone/1",
		Title:       "링글 AI 후기",
		Description: "한 달 써본 후기입니다",
		Blogger:     "someone",
		PostDate:    "2026-08-15",
	}

	item := post.toRawItem()
	if item.SourceType != SourceBlog {
		t.Errorf("expected source type %q, got %q", SourceBlog, item.SourceType)
	}
	if item.SourceName != "NaverBlog" {
		t.Errorf("expected NaverBlog, got %q", item.SourceName)
	}
	if !item.IsTarget {
		t.Error("expected keyword-search posts marked as target")
	}
	if item.URL == nil || *item.URL != post.URL {
		t.Errorf("expected URL carried for full-text fetch, got %v", item.URL)
	}
	if item.Text != "링글 AI 후기\n한 달 써본 후기입니다" {
		t.Errorf("unexpected text: %q", item.Text)
	}
}

const brunchSearchHTML = `<!DOCTYPE html>
<html><body>
<ul class="list_article">
  <li>
    <a class="link_post" href="/@writer1/42"></a>
    <strong class="tit_subject">링글 AI 한 달 사용기</strong>
    <p class="desc_article">직접 써보고 느낀 장단점 정리</p>
    <span class="name_txt">writer1</span>
    <span class="time_txt">2026.08.15</span>
  </li>
  <li>
    <a class="link_post" href="/@writer2/7"></a>
    <strong class="tit_subject">스픽 vs 링글 비교</strong>
    <p class="desc_article">두 앱을 모두 결제해 봤다</p>
    <span class="name_txt">writer2</span>
    <span class="time_txt">3시간 전</span>
  </li>
  <li>
    <strong class="tit_subject">링크 없는 항목</strong>
  </li>
</ul>
</body></html>`

func TestParseBrunchResults(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(brunchSearchHTML))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	posts := parseBrunchResults(doc, 50)
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts (entry without link skipped), got %d", len(posts))
	}

	first := posts[0]
	if first.URL != "https://brunch.co.kr/@writer1/42" {
		t.Errorf("expected absolute article URL, got %q", first.URL)
	}
	if first.Title != "링글 AI 한 달 사용기" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.Summary != "직접 써보고 느낀 장단점 정리" {
		t.Errorf("unexpected summary: %q", first.Summary)
	}
	if first.Author != "writer1" {
		t.Errorf("unexpected author: %q", first.Author)
	}
	if first.PostDate != "2026-08-15" {
		t.Errorf("expected 2026-08-15, got %q", first.PostDate)
	}

	if posts[1].PostDate != "" {
		t.Errorf("expected empty date for relative timestamp, got %q", posts[1].PostDate)
	}
}

func TestParseBrunchResultsMaxArticles(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(brunchSearchHTML))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	posts := parseBrunchResults(doc, 1)
	if len(posts) != 1 {
		t.Fatalf("expected parse to stop at the article cap, got %d posts", len(posts))
	}
}

func TestParseBrunchDate(t *testing.T) {
	if got := parseBrunchDate("2026.08.15"); got != "2026-08-15" {
		t.Errorf("expected 2026-08-15, got %q", got)
	}
	if got := parseBrunchDate("1시간 전"); got != "" {
		t.Errorf("expected empty for relative date, got %q", got)
	}
}

func TestBrunchPostToRawItem(t *testing.T) {
	post := BrunchPost{
		URL:      "https://brunch.co.kr/@writer1/42",
		Title:    "링글 AI 한 달 사용기",
		Summary:  "직접 써보고 느낀 장단점 정리",
		Author:   "writer1",
		PostDate: "2026-08-15",
	}

	item := post.toRawItem()
	if item.ExternalID != post.URL {
		t.Errorf("expected URL as external ID, got %q", item.ExternalID)
	}
	if item.SourceType != SourceArticle {
		t.Errorf("expected source type %q, got %q", SourceArticle, item.SourceType)
	}
	if item.SourceName != "Brunch" {
		t.Errorf("expected Brunch, got %q", item.SourceName)
	}
	if !item.IsTarget {
		t.Error("expected keyword-search articles marked as target")
	}
	if item.URL == nil || *item.URL != post.URL {
		t.Errorf("expected URL carried for full-text fetch, got %v", item.URL)
	}
	if item.Text != "링글 AI 한 달 사용기\n직접 써보고 느낀 장단점 정리" {
		t.Errorf("unexpected text: %q", item.Text)
	}
	if item.Rating != nil {
		t.Errorf("expected no rating for articles, got %v", item.Rating)
	}
}

func TestFeedEntryToRawItem(t *testing.T) {
	entry := FeedEntry{
		URL:           "https://example.com/post",
		Title:         "Post",
		Content:       "Body",
		Source:        "example.com",
		PublishedDate: "2026-08-01T00:00:00Z",
	}

	item := entry.toRawItem()
	if item.ExternalID != entry.URL {
		t.Errorf("expected URL as external ID, got %q", item.ExternalID)
	}
	if item.SourceType != SourceBlog {
		t.Errorf("expected blog source type, got %q", item.SourceType)
	}
	if item.Text != "Post\nBody" {
		t.Errorf("unexpected text: %q", item.Text)
	}
}

func TestExtractSourceName(t *testing.T) {
	if got := extractSourceName("https://www.example.com/feed.xml"); got != "example.com" {
		t.Errorf("expected example.com, got %q", got)
	}
}
