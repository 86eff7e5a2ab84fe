package feeds

import (
	"context"
	"fmt"
	"time"

	"FxDesk/internal/domain/models"
	"FxDesk/internal/domain/repository"
	pkghttp "FxDesk/pkg/http"
	applogger "FxDesk/pkg/logger"
)

// tracked major pairs, quoted against USD either way round
var forexPairs = []string{"EUR/USD", "GBP/USD", "USD/JPY", "AUD/USD", "USD/CHF", "USD/CAD"}

// FallbackQuotes is the static snapshot served when every provider is down
// or demo mode is on.
func FallbackQuotes() []models.Quote {
	now := time.Now().UnixMilli()
	return []models.Quote{
		{Symbol: "EUR/USD", Price: 1.0925, Change: 0.0015, ChangePercent: 0.14, Timestamp: now},
		{Symbol: "GBP/USD", Price: 1.2650, Change: -0.0025, ChangePercent: -0.20, Timestamp: now},
		{Symbol: "USD/JPY", Price: 148.75, Change: 0.45, ChangePercent: 0.30, Timestamp: now},
		{Symbol: "AUD/USD", Price: 0.6580, Change: -0.0012, ChangePercent: -0.18, Timestamp: now},
		{Symbol: "USD/CHF", Price: 0.8790, Change: 0.0008, ChangePercent: 0.09, Timestamp: now},
		{Symbol: "USD/CAD", Price: 1.3480, Change: 0.0020, ChangePercent: 0.15, Timestamp: now},
	}
}

// quoteProvider fetches current and previous-day USD rates keyed by currency.
type quoteProvider interface {
	name() string
	rates(ctx context.Context) (current, previous map[string]float64, err error)
}

// QuoteService tries each provider in order and falls back to the static
// snapshot when all of them fail.
type QuoteService struct {
	providers []quoteProvider
	log       *applogger.Logger
	metrics   repository.Metrics
}

func NewQuoteService(fastForexKey, exchangeRateKey string, timeout time.Duration, log *applogger.Logger, m repository.Metrics) *QuoteService {
	client := pkghttp.NewClient(pkghttp.WithTimeout(timeout))
	var providers []quoteProvider
	if exchangeRateKey != "" {
		providers = append(providers, &exchangeRateProvider{http: client, key: exchangeRateKey})
	}
	if fastForexKey != "" {
		providers = append(providers, &fastForexProvider{http: client, key: fastForexKey})
	}
	return &QuoteService{providers: providers, log: log, metrics: m}
}

func (s *QuoteService) Fetch(ctx context.Context) ([]models.Quote, error) {
	for _, p := range s.providers {
		current, previous, err := p.rates(ctx)
		if err != nil {
			s.log.Warn("quotes provider_failed", applogger.String("provider", p.name()), applogger.Error(err))
			continue
		}
		quotes := buildQuotes(current, previous)
		if len(quotes) == 0 {
			continue
		}
		if s.metrics != nil {
			s.metrics.RecordFeedRefresh("quotes", len(quotes))
		}
		return quotes, nil
	}
	// served data beats no data on the dashboard
	return FallbackQuotes(), nil
}

// buildQuotes derives pair prices from USD-based rate tables. For pairs not
// quoted USD-first the rate is inverted.
func buildQuotes(current, previous map[string]float64) []models.Quote {
	now := time.Now().UnixMilli()
	quotes := make([]models.Quote, 0, len(forexPairs))
	for _, pair := range forexPairs {
		base, quote := pair[:3], pair[4:]
		other := quote
		usdBase := base == "USD"
		if !usdBase {
			other = base
		}

		cur, ok1 := current[other]
		prev, ok2 := previous[other]
		if !ok1 || !ok2 || cur == 0 || prev == 0 {
			continue
		}
		if !usdBase {
			cur = 1 / cur
			prev = 1 / prev
		}

		change := cur - prev
		quotes = append(quotes, models.Quote{
			Symbol:        pair,
			Price:         cur,
			Change:        change,
			ChangePercent: change / prev * 100,
			Timestamp:     now,
		})
	}
	return quotes
}

type exchangeRateProvider struct {
	http *pkghttp.Client
	key  string
}

func (p *exchangeRateProvider) name() string { return "exchangerate-api" }

func (p *exchangeRateProvider) rates(ctx context.Context) (map[string]float64, map[string]float64, error) {
	var latest struct {
		Rates map[string]float64 `json:"conversion_rates"`
	}
	err := p.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("https://v6.exchangerate-api.com/v6/%s/latest/USD", p.key),
	}, &latest)
	if err != nil {
		return nil, nil, err
	}

	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateLayout)
	var history struct {
		Rates map[string]float64 `json:"conversion_rates"`
	}
	err = p.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("https://v6.exchangerate-api.com/v6/%s/history/USD/%s", p.key, yesterday),
	}, &history)
	if err != nil {
		return nil, nil, err
	}
	return latest.Rates, history.Rates, nil
}

type fastForexProvider struct {
	http *pkghttp.Client
	key  string
}

func (p *fastForexProvider) name() string { return "fastforex" }

func (p *fastForexProvider) rates(ctx context.Context) (map[string]float64, map[string]float64, error) {
	var latest struct {
		Results map[string]float64 `json:"results"`
	}
	err := p.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         "https://api.fastforex.io/fetch-all",
		QueryParams: map[string][]string{"api_key": {p.key}},
	}, &latest)
	if err != nil {
		return nil, nil, err
	}

	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateLayout)
	var history struct {
		Results map[string]float64 `json:"results"`
	}
	err = p.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         "https://api.fastforex.io/fetch-historical",
		QueryParams: map[string][]string{"api_key": {p.key}, "date": {yesterday}},
	}, &history)
	if err != nil {
		return nil, nil, err
	}
	return latest.Results, history.Results, nil
}
