package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"FxDesk/internal/domain/models"
	"FxDesk/internal/domain/repository"
	pkghttp "FxDesk/pkg/http"
	applogger "FxDesk/pkg/logger"
	"FxDesk/pkg/util"
)

// item content is capped before it reaches the dashboard or the prompt layer
const maxContentLen = 200

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
	Category    string `xml:"category"`
	Creator     string `xml:"creator"`
}

// NewsService aggregates several RSS feeds into one deduplicated,
// recency-ordered headline list.
type NewsService struct {
	http     *pkghttp.Client
	urls     []string
	maxItems int
	log      *applogger.Logger
	metrics  repository.Metrics
}

func NewNewsService(urls []string, maxItems int, timeout time.Duration, log *applogger.Logger, m repository.Metrics) *NewsService {
	if maxItems <= 0 {
		maxItems = 10
	}
	return &NewsService{
		http:     pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		urls:     urls,
		maxItems: maxItems,
		log:      log,
		metrics:  m,
	}
}

// Fetch pulls every configured feed, merges the results and keeps the most
// recent items. A feed that fails is skipped; the fetch only errors when no
// feed produced anything.
func (s *NewsService) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	var merged []models.NewsItem
	var failures int

	for _, url := range s.urls {
		items, err := s.fetchOne(ctx, url)
		if err != nil {
			failures++
			s.log.Warn("rss fetch_failed", applogger.String("url", url), applogger.Error(err))
			continue
		}
		merged = append(merged, items...)
	}

	if len(merged) == 0 && failures > 0 {
		return nil, fmt.Errorf("all %d rss feeds failed", failures)
	}

	merged = dedupeNews(merged)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PubDate.After(merged[j].PubDate)
	})
	if len(merged) > s.maxItems {
		merged = merged[:s.maxItems]
	}

	if s.metrics != nil {
		s.metrics.RecordFeedRefresh("rss", len(merged))
	}
	return merged, nil
}

func (s *NewsService) fetchOne(ctx context.Context, url string) ([]models.NewsItem, error) {
	var body []byte
	err := s.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    url,
		Headers: map[string]string{
			"Accept":     "application/rss+xml, application/xml, text/xml",
			"User-Agent": "Mozilla/5.0",
		},
	}, &body)
	if err != nil {
		return nil, err
	}

	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}

	items := make([]models.NewsItem, 0, len(doc.Channel.Items))
	for _, it := range doc.Channel.Items {
		title := util.StripCDATA(it.Title)
		link := strings.TrimSpace(it.Link)
		if title == "" || link == "" {
			continue
		}
		content := util.StripHTML(util.StripCDATA(it.Description))
		if r := []rune(content); len(r) > maxContentLen {
			content = strings.TrimSpace(string(r[:maxContentLen])) + "..."
		}
		category := util.StripCDATA(it.Category)
		if category == "" {
			category = "News"
		}
		pubDate, _ := util.ParseFeedTime(strings.TrimSpace(it.PubDate))

		items = append(items, models.NewsItem{
			Title:    title,
			Content:  content,
			Link:     link,
			PubDate:  pubDate,
			Category: category,
			Author:   util.StripCDATA(it.Creator),
		})
	}
	return items, nil
}

// dedupeNews drops items whose title plus leading content matches an
// earlier item, case-insensitively.
func dedupeNews(items []models.NewsItem) []models.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		content := item.Content
		if r := []rune(content); len(r) > 50 {
			content = string(r[:50])
		}
		key := strings.ToLower(item.Title) + "-" + strings.ToLower(content)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
