package advisor

// Feature declares everything the pipeline needs to run one analysis:
// which placeholders its template uses, how its context is assembled and
// bounded, and the schema its answer must satisfy (nil for narrative
// features that return free text).
type Feature struct {
	ID           string
	Placeholders []string
	Required     []string // placeholders that must end up non-empty
	JSONShaped   bool
	NewsKeywords []string // relevance filter over title+content; empty = keep all
	NewsLimit    int      // K most recent items after filtering
	PairFilter   []string // quote symbols to include; empty = all
	Caps         map[string]int
	Schema       *Schema
	ErrorMarkers []string // narrative features: substrings that mark a failed answer
	MaxTokens    int
}

const defaultMaxTokens = 1000

// refusal phrasings the completion API produces instead of an analysis
var refusalMarkers = []string{"I'm sorry", "I cannot provide"}

var features = map[string]Feature{
	"sentiment": {
		ID:           "sentiment",
		Placeholders: []string{"marketContext", "newsContext"},
		Required:     []string{"marketContext", "newsContext"},
		JSONShaped:   true,
		NewsLimit:    10,
		Caps:         map[string]int{"marketContext": 400, "newsContext": 1500},
		MaxTokens:    defaultMaxTokens,
		Schema: &Schema{
			RootKey: "analysis",
			Fields: []FieldSpec{
				{Name: "pair", Kind: KindString, MaxLen: 20},
				{Name: "sentiment", Kind: KindString, Enum: []string{"bullish", "bearish", "neutral"}},
				{Name: "score", Kind: KindNumber, Min: -100, Max: 100},
				{Name: "confidence", Kind: KindNumber, Min: 0, Max: 100},
				{Name: "reasoning", Kind: KindString, MaxLen: 200},
			},
		},
	},
	"centralbank": {
		ID:           "centralbank",
		Placeholders: []string{"newsContext"},
		Required:     []string{"newsContext"},
		JSONShaped:   true,
		NewsKeywords: []string{"bce", "fed", "boe", "ecb", "central bank", "banque centrale", "rate", "inflation"},
		NewsLimit:    5,
		Caps:         map[string]int{"newsContext": 800},
		MaxTokens:    defaultMaxTokens,
		Schema: &Schema{
			RootKey: "banks",
			Fields: []FieldSpec{
				{Name: "name", Kind: KindString, Enum: []string{"BCE", "FED", "BOE"}},
				{Name: "stance", Kind: KindString, Enum: []string{"Hawkish", "Dovish", "Neutre"}},
				{Name: "summary", Kind: KindString, MaxLen: 120},
				{Name: "trend", Kind: KindString, Enum: []string{"up", "down", "stable"}},
			},
		},
	},
	"volatility": {
		ID:           "volatility",
		Placeholders: []string{"marketContext", "newsContext"},
		Required:     []string{"marketContext", "newsContext"},
		JSONShaped:   true,
		NewsKeywords: []string{"eur", "usd", "gbp", "jpy", "volatility", "volatilité", "movement", "mouvement"},
		NewsLimit:    5,
		PairFilter:   []string{"EUR/USD", "GBP/USD", "USD/JPY"},
		Caps:         map[string]int{"marketContext": 300, "newsContext": 800},
		MaxTokens:    defaultMaxTokens,
		Schema: &Schema{
			RootKey: "analysis",
			Fields: []FieldSpec{
				{Name: "pair", Kind: KindString, Enum: []string{"EUR/USD", "GBP/USD", "USD/JPY"}},
				{Name: "volatility", Kind: KindString, Enum: []string{"high", "medium", "low"}},
				{Name: "score", Kind: KindNumber, Min: 0, Max: 100},
				{Name: "triggers", Kind: KindStringList, MinItems: 2, MaxItems: 3, MaxLen: 50},
				{Name: "prediction", Kind: KindString, MaxLen: 100},
			},
			MaxElements: 3,
		},
	},
	"commodities": {
		ID:           "commodities",
		Placeholders: []string{"newsContext"},
		Required:     []string{"newsContext"},
		JSONShaped:   true,
		NewsKeywords: []string{
			"gold", "oil", "silver", "copper", "commodity", "commodities",
			"metals", "energy", "or", "pétrole", "argent", "cuivre",
		},
		NewsLimit: 5,
		Caps:      map[string]int{"newsContext": 800},
		MaxTokens: defaultMaxTokens,
		Schema: &Schema{
			RootKey: "commodities",
			Fields: []FieldSpec{
				{Name: "symbol", Kind: KindString, Enum: []string{"XAU", "XAG", "OIL", "COPPER"}},
				{Name: "name", Kind: KindString, Enum: []string{"Or", "Argent", "Pétrole", "Cuivre"}},
				{Name: "sentiment", Kind: KindString, Enum: []string{"bullish", "bearish", "neutral"}},
				{Name: "impact", Kind: KindString, Enum: []string{"high", "medium", "low"}},
				{Name: "price", Kind: KindString, MaxLen: 50},
				{Name: "trend", Kind: KindString, MaxLen: 50},
				{Name: "catalysts", Kind: KindStringList, MinItems: 2, MaxItems: 3, MaxLen: 50},
				{Name: "risks", Kind: KindStringList, MinItems: 2, MaxItems: 3, MaxLen: 50},
			},
			MaxElements: 4,
		},
	},
	"signals": {
		ID:           "signals",
		Placeholders: []string{"marketContext", "newsContext"},
		Required:     []string{"marketContext", "newsContext"},
		JSONShaped:   true,
		NewsLimit:    5,
		Caps:         map[string]int{"marketContext": 400, "newsContext": 1200},
		MaxTokens:    defaultMaxTokens,
		Schema: &Schema{
			RootKey: "signals",
			Fields: []FieldSpec{
				{Name: "symbol", Kind: KindString, MaxLen: 20},
				{Name: "direction", Kind: KindString, Enum: []string{"buy", "sell"}},
				{Name: "timing", Kind: KindString, MaxLen: 50},
				{Name: "volatility", Kind: KindString, Enum: []string{"high", "medium", "low"}},
				{Name: "duration", Kind: KindString, MaxLen: 50},
				{Name: "analysis", Kind: KindString, MaxLen: 200},
			},
			MaxElements: 5,
		},
	},
	"scalping": {
		ID:           "scalping",
		Placeholders: []string{"session", "newsContext"},
		Required:     []string{"session", "newsContext"},
		JSONShaped:   true,
		NewsLimit:    5,
		Caps:         map[string]int{"session": 20, "newsContext": 800},
		MaxTokens:    defaultMaxTokens,
		Schema: &Schema{
			RootKey: "opportunities",
			Fields: []FieldSpec{
				{Name: "pair", Kind: KindString, MaxLen: 20},
				{Name: "type", Kind: KindString, Enum: []string{"breakout", "range", "trend"}},
				{Name: "description", Kind: KindString, MaxLen: 100},
			},
			MaxElements: 5,
		},
	},
	"fundamental": {
		ID:           "fundamental",
		Placeholders: []string{"newsContext"},
		Required:     []string{"newsContext"},
		NewsLimit:    5,
		Caps:         map[string]int{"newsContext": 1500},
		ErrorMarkers: refusalMarkers,
		MaxTokens:    defaultMaxTokens,
	},
	"insights": {
		ID:           "insights",
		Placeholders: []string{"marketContext", "newsContext", "question"},
		Required:     []string{"question"},
		NewsLimit:    3,
		Caps:         map[string]int{"marketContext": 400, "newsContext": 500, "question": 500},
		ErrorMarkers: refusalMarkers,
		MaxTokens:    defaultMaxTokens,
	},
	"mascot": {
		ID:           "mascot",
		Placeholders: []string{"newsContext", "calendarContext"},
		Required:     []string{"newsContext"},
		NewsKeywords: []string{"fed", "ecb", "bce", "boe", "rate", "inflation", "gdp", "nfp", "employment"},
		NewsLimit:    5,
		Caps:         map[string]int{"newsContext": 600, "calendarContext": 600},
		ErrorMarkers: refusalMarkers,
		MaxTokens:    defaultMaxTokens,
	},
}

// Lookup returns the feature definition for id.
func Lookup(id string) (Feature, bool) {
	f, ok := features[id]
	return f, ok
}

// JSONFeatureIDs lists all features with a structured schema, in a stable order.
func JSONFeatureIDs() []string {
	return []string{"sentiment", "centralbank", "volatility", "commodities", "signals", "scalping"}
}
