package advisor

// Default prompt templates, keyed by feature id. Users can override any of
// them through the settings blob; unknown or empty overrides fall back here.
var defaultTemplates = map[string]string{
	"sentiment": `As a forex market sentiment analyst, review the latest headlines and rate the current sentiment on each currency pair.

Current market data:
{marketContext}

Recent headlines:
{newsContext}

For each pair: consider only news that directly moves it, decide the overall sentiment (bullish/bearish/neutral), give a score from -100 to +100, a confidence from 0 to 100, and one short justification.

Answer as JSON:
{
  "analysis": [{
    "pair": "string",
    "sentiment": "bullish" | "bearish" | "neutral",
    "score": number,
    "confidence": number,
    "reasoning": "string"
  }]
}`,

	"centralbank": `Assess the current policy stance of the major central banks from the headlines below.

Recent headlines:
{newsContext}

Strict JSON answer:
{
  "banks": [{
    "name": "BCE" | "FED" | "BOE",
    "stance": "Hawkish" | "Dovish" | "Neutre",
    "summary": "one sentence max",
    "trend": "up" | "down" | "stable"
  }]
}`,

	"volatility": `Estimate intraday volatility for the major forex pairs over the next 4-8 hours.

Current market:
{marketContext}

Headlines:
{newsContext}

Answer ONLY with valid JSON of this shape:
{
  "analysis": [{
    "pair": "EUR/USD" | "GBP/USD" | "USD/JPY",
    "volatility": "high" | "medium" | "low",
    "score": number,
    "triggers": ["short reason 1", "short reason 2"],
    "prediction": "short outlook for the coming hours"
  }]
}

Strict rules:
- only EUR/USD, GBP/USD and USD/JPY
- volatility from expected movement: high >50 pips, medium 20-50, low <20
- score: 0 (very quiet) to 100 (very volatile)
- triggers: 2-3 immediate catalysts, 50 chars each
- prediction: 100 chars max`,

	"commodities": `Rate the sentiment on the main commodities.

Headlines:
{newsContext}

Answer with JSON of this exact shape:
{
  "commodities": [{
    "symbol": "XAU" | "XAG" | "OIL" | "COPPER",
    "name": "Or" | "Argent" | "Pétrole" | "Cuivre",
    "sentiment": "bullish" | "bearish" | "neutral",
    "impact": "high" | "medium" | "low",
    "price": "price trend description",
    "trend": "technical trend description",
    "catalysts": ["reason 1", "reason 2"],
    "risks": ["risk 1", "risk 2"]
  }]
}

Strict rules: at most 4 commodities, price and trend 50 chars max, catalysts and risks 2-3 short items, no specific price levels.`,

	"signals": `As a news-driven day trader, generate trading signals from the immediate news flow.

Current market data:
{marketContext}

Recent headlines:
{newsContext}

Only act on news with immediate impact: breaking news, market surprises, reactions in progress. Answer as JSON:
{
  "signals": [{
    "symbol": "string",
    "direction": "buy" | "sell",
    "timing": "string",
    "volatility": "high" | "medium" | "low",
    "duration": "string",
    "analysis": "string"
  }]
}`,

	"scalping": `Analyze the {session} trading session currently in progress for scalping opportunities.

Recent headlines:
{newsContext}

Answer as JSON:
{
  "opportunities": [{
    "pair": "string",
    "type": "breakout" | "range" | "trend",
    "description": "short description, 100 chars max"
  }]
}`,

	"fundamental": `As a news-focused forex day trader, review the headlines for immediate trading opportunities.

Recent headlines:
{newsContext}

Identify the headlines with the strongest volatility potential, then for each one: the immediate currency impact (0-2h), the likely market reaction, the most sensitive pairs and the expected volatility. Rank the opportunities by movement potential. Answer in structured prose focused on intraday trading.`,

	"insights": `As a day trader specialized in news trading, answer the question below using the market snapshot.

Recent headlines:
{newsContext}

Market data:
{marketContext}

Question: {question}

Give an actionable answer: the best immediate opportunity, suggested entry timing, main risks. If no significant news supports a trade, say clearly that waiting is preferable.`,

	"mascot": `As a trading assistant focused on fundamentals, consider only high-impact news.

Recent headlines:
{newsContext}

Economic calendar:
{calendarContext}

If a high-impact item is present: state briefly why it matters, the most affected currencies and the likely direction. Otherwise recommend waiting. Two or three sentences maximum, never give specific price levels.`,
}

// DefaultTemplates returns a copy of the built-in prompt templates.
func DefaultTemplates() map[string]string {
	out := make(map[string]string, len(defaultTemplates))
	for k, v := range defaultTemplates {
		out[k] = v
	}
	return out
}

// TemplateFor picks the user override when set, the built-in default otherwise.
func TemplateFor(id string, overrides map[string]string) string {
	if t, ok := overrides[id]; ok && t != "" {
		return t
	}
	return defaultTemplates[id]
}
