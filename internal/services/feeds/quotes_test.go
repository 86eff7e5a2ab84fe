package feeds

import (
	"context"
	"math"
	"testing"
	"time"

	applogger "FxDesk/pkg/logger"
)

func TestBuildQuotesDerivation(t *testing.T) {
	current := map[string]float64{"EUR": 0.92, "JPY": 148.75}
	previous := map[string]float64{"EUR": 0.93, "JPY": 148.30}

	quotes := buildQuotes(current, previous)
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}

	// EUR/USD is not USD-base, so the USD rate is inverted
	eur := quotes[0]
	if eur.Symbol != "EUR/USD" {
		t.Fatalf("unexpected symbol %q", eur.Symbol)
	}
	if math.Abs(eur.Price-1/0.92) > 1e-9 {
		t.Fatalf("EUR/USD price %v, want %v", eur.Price, 1/0.92)
	}
	if eur.ChangePercent <= 0 {
		t.Fatalf("weakening EUR rate means a rising pair, got %v%%", eur.ChangePercent)
	}

	jpy := quotes[1]
	if jpy.Symbol != "USD/JPY" || jpy.Price != 148.75 {
		t.Fatalf("USD/JPY must use the direct rate: %+v", jpy)
	}
	if math.Abs(jpy.Change-0.45) > 1e-9 {
		t.Fatalf("USD/JPY change %v, want 0.45", jpy.Change)
	}
}

func TestBuildQuotesSkipsMissingRates(t *testing.T) {
	quotes := buildQuotes(map[string]float64{"EUR": 0.92}, map[string]float64{})
	if len(quotes) != 0 {
		t.Fatalf("missing previous rate must skip the pair, got %d", len(quotes))
	}
}

func TestQuoteServiceFallsBack(t *testing.T) {
	// no providers configured at all
	s := NewQuoteService("", "", time.Second, applogger.Nop(), nil)
	quotes, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(quotes) != 6 {
		t.Fatalf("expected the static snapshot of 6 pairs, got %d", len(quotes))
	}
	if quotes[0].Symbol != "EUR/USD" || quotes[0].Price != 1.0925 {
		t.Fatalf("unexpected fallback head: %+v", quotes[0])
	}
}
