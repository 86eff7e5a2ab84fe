package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"FxDesk/internal/domain/models"
	domrepo "FxDesk/internal/domain/repository"
	"FxDesk/internal/services/translate"
	applogger "FxDesk/pkg/logger"
)

// QuoteBroadcaster pushes a fresh quote set to connected dashboard clients.
type QuoteBroadcaster interface {
	BroadcastQuotes(quotes []models.Quote)
}

// HeadlineEnqueuer hands headlines to a background worker when the inline
// translation pass cannot keep up with the feed.
type HeadlineEnqueuer interface {
	Enqueue(ctx context.Context, msgType string, payload interface{}) error
}

// Refresher keeps the feed snapshot current on a schedule and translates
// incoming headlines.
type Refresher struct {
	feeds       *FeedSnapshot
	news        domrepo.NewsSource
	quotes      domrepo.QuoteSource
	calendar    domrepo.CalendarSource
	translator  domrepo.Translator
	broadcaster QuoteBroadcaster
	enqueuer    HeadlineEnqueuer
	log         *applogger.Logger

	cron          *cron.Cron
	newsEvery     time.Duration
	quotesEvery   time.Duration
	calendarEvery time.Duration
}

type RefresherOption func(*Refresher)

func WithTranslator(t domrepo.Translator) RefresherOption {
	return func(r *Refresher) { r.translator = t }
}

func WithBroadcaster(b QuoteBroadcaster) RefresherOption {
	return func(r *Refresher) { r.broadcaster = b }
}

func WithHeadlineQueue(q HeadlineEnqueuer) RefresherOption {
	return func(r *Refresher) { r.enqueuer = q }
}

func NewRefresher(
	feeds *FeedSnapshot,
	news domrepo.NewsSource,
	quotes domrepo.QuoteSource,
	calendar domrepo.CalendarSource,
	newsEvery, quotesEvery time.Duration,
	log *applogger.Logger,
	opts ...RefresherOption,
) *Refresher {
	r := &Refresher{
		feeds:         feeds,
		news:          news,
		quotes:        quotes,
		calendar:      calendar,
		log:           log,
		cron:          cron.New(),
		newsEvery:     newsEvery,
		quotesEvery:   quotesEvery,
		calendarEvery: time.Hour,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start primes the snapshot once, then schedules periodic refreshes.
func (r *Refresher) Start(ctx context.Context) error {
	r.RefreshAll(ctx)

	if _, err := r.cron.AddFunc(every(r.newsEvery), func() { r.RefreshNews(context.Background()) }); err != nil {
		return fmt.Errorf("schedule news refresh: %w", err)
	}
	if _, err := r.cron.AddFunc(every(r.quotesEvery), func() { r.RefreshQuotes(context.Background()) }); err != nil {
		return fmt.Errorf("schedule quotes refresh: %w", err)
	}
	if r.calendar != nil {
		if _, err := r.cron.AddFunc(every(r.calendarEvery), func() { r.RefreshCalendar(context.Background()) }); err != nil {
			return fmt.Errorf("schedule calendar refresh: %w", err)
		}
	}
	r.cron.Start()
	return nil
}

func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Refresher) RefreshAll(ctx context.Context) {
	r.RefreshNews(ctx)
	r.RefreshQuotes(ctx)
	r.RefreshCalendar(ctx)
}

func (r *Refresher) RefreshNews(ctx context.Context) {
	items, err := r.news.Fetch(ctx)
	if err != nil {
		r.log.Warn("refresher news_failed", applogger.Error(err))
		return
	}
	if r.translator != nil {
		for i := range items {
			translated, terr := r.translator.Translate(ctx, items[i].Title)
			if terr == nil && translated != items[i].Title {
				items[i].TranslatedTitle = translated
				continue
			}
			// untranslated, likely throttled; a worker warms the cache
			// so the next refresh serves the translated title
			if r.enqueuer != nil {
				if qerr := r.enqueuer.Enqueue(ctx, translate.MessageType, translate.HeadlinePayload{Text: items[i].Title}); qerr != nil {
					r.log.Debug("refresher enqueue_failed", applogger.Error(qerr))
				}
			}
		}
	}
	r.feeds.SetNews(items)
	r.log.Debug("refresher news_updated", applogger.Int("items", len(items)))
}

func (r *Refresher) RefreshQuotes(ctx context.Context) {
	quotes, err := r.quotes.Fetch(ctx)
	if err != nil {
		r.log.Warn("refresher quotes_failed", applogger.Error(err))
		return
	}
	r.feeds.SetQuotes(quotes)
	if r.broadcaster != nil {
		r.broadcaster.BroadcastQuotes(quotes)
	}
	r.log.Debug("refresher quotes_updated", applogger.Int("pairs", len(quotes)))
}

func (r *Refresher) RefreshCalendar(ctx context.Context) {
	if r.calendar == nil {
		return
	}
	events, err := r.calendar.Fetch(ctx)
	if err != nil {
		r.log.Warn("refresher calendar_failed", applogger.Error(err))
		return
	}
	r.feeds.SetCalendar(events)
	r.log.Debug("refresher calendar_updated", applogger.Int("events", len(events)))
}

func every(d time.Duration) string {
	if d < time.Second {
		d = time.Second
	}
	return "@every " + d.String()
}
