package advisor

import (
	"fmt"
	"sort"
	"strings"

	"FxDesk/internal/domain/models"
)

// ContextBundle maps placeholder names to bounded string values. Built fresh
// per request and discarded after compilation.
type ContextBundle map[string]string

// Inputs carries the raw collaborator data one analysis draws from.
type Inputs struct {
	News     []models.NewsItem
	Quotes   []models.Quote
	Calendar []models.CalendarEvent
	// Extra holds caller-supplied placeholder values (question, pair, session).
	Extra map[string]string
}

// per-line cap applied before the whole-placeholder cap
const maxLineLen = 200

// Assemble builds the context bundle for a feature: filters the inputs with
// the feature's relevance predicates, orders news by recency, takes the first
// K, formats one line per item and joins them, then truncates every value to
// its declared cap. A required placeholder that ends up empty aborts with
// ErrNoRelevantData.
func Assemble(f Feature, in Inputs) (ContextBundle, error) {
	bundle := ContextBundle{}

	for _, ph := range f.Placeholders {
		switch ph {
		case "newsContext":
			bundle[ph] = newsContext(f, in.News)
		case "marketContext":
			bundle[ph] = marketContext(f, in.Quotes)
		case "calendarContext":
			bundle[ph] = calendarContext(in.Calendar)
		default:
			bundle[ph] = in.Extra[ph]
		}
	}

	for ph, v := range bundle {
		bundle[ph] = Truncate(v, capFor(f, ph))
	}

	for _, ph := range f.Required {
		if bundle[ph] == "" {
			return nil, fmt.Errorf("%w: placeholder %q is empty for feature %q", ErrNoRelevantData, ph, f.ID)
		}
	}
	return bundle, nil
}

func newsContext(f Feature, news []models.NewsItem) string {
	kept := make([]models.NewsItem, 0, len(news))
	for _, item := range news {
		if matchesKeywords(item, f.NewsKeywords) {
			kept = append(kept, item)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].PubDate.After(kept[j].PubDate)
	})
	if f.NewsLimit > 0 && len(kept) > f.NewsLimit {
		kept = kept[:f.NewsLimit]
	}
	lines := make([]string, 0, len(kept))
	for _, item := range kept {
		lines = append(lines, "- "+Truncate(item.DisplayTitle(), maxLineLen))
	}
	return strings.Join(lines, "\n")
}

func matchesKeywords(item models.NewsItem, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	content := strings.ToLower(item.Title + " " + item.Content)
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}

func marketContext(f Feature, quotes []models.Quote) string {
	lines := make([]string, 0, len(quotes))
	for _, q := range quotes {
		if len(f.PairFilter) > 0 && !contains(f.PairFilter, q.Symbol) {
			continue
		}
		lines = append(lines, FormatQuoteLine(q))
	}
	return strings.Join(lines, "\n")
}

// FormatQuoteLine renders one quote as "EUR/USD: 1.0925 (+0.14%)".
func FormatQuoteLine(q models.Quote) string {
	sign := ""
	if q.ChangePercent > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s: %g (%s%.2f%%)", q.Symbol, q.Price, sign, q.ChangePercent)
}

func calendarContext(events []models.CalendarEvent) string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, Truncate(fmt.Sprintf("%s %s %s [%s] %s", e.Date, e.Time, e.Currency, e.Impact, e.Event), maxLineLen))
	}
	return strings.Join(lines, "\n")
}

func capFor(f Feature, ph string) int {
	if c, ok := f.Caps[ph]; ok {
		return c
	}
	return maxLineLen
}

// Truncate hard-caps s at max characters, trimming a trailing space edge.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimRight(string(r[:max]), " \n")
}
