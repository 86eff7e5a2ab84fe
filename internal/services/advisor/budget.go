package advisor

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"FxDesk/internal/domain/models"
	applogger "FxDesk/pkg/logger"
)

// SpendLedger is the rolling daily spend state. ResetDate always holds the
// current local date: any read that observes a stale date zeroes DailyTotal
// and advances the date before comparing anything.
type SpendLedger struct {
	DailyTotal decimal.Decimal
	DailyLimit decimal.Decimal
	ResetDate  string // models.DateLayout
}

// costScale is the decimal precision costs are rounded to at commit time.
const costScale = 6

// CostOf prices a token count against a model tier.
func CostOf(tokens int, tier models.ModelTier) decimal.Decimal {
	return decimal.NewFromInt(int64(tokens)).
		Div(decimal.NewFromInt(1000)).
		Mul(tier.CostPer1K()).
		Round(costScale)
}

// Gate tracks spend against the daily ceiling. Preflight and Commit each
// take the mutex for their whole read-then-write so concurrent analysis
// chains cannot interleave a stale total.
type Gate struct {
	mu      sync.Mutex
	ledger  SpendLedger
	persist func(SpendLedger) error
	now     func() time.Time
	log     *applogger.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// WithPersist registers a callback invoked with the updated ledger after
// every commit and rollover.
func WithPersist(fn func(SpendLedger) error) GateOption {
	return func(g *Gate) { g.persist = fn }
}

// WithGateLogger sets the logger persistence failures are reported through.
func WithGateLogger(log *applogger.Logger) GateOption {
	return func(g *Gate) { g.log = log }
}

// NewGate creates a budget gate owning the given ledger value.
func NewGate(ledger SpendLedger, opts ...GateOption) *Gate {
	g := &Gate{ledger: ledger, now: time.Now, log: applogger.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Preflight estimates the cost of a pending request and rejects it with
// ErrDailyLimitExceeded when the projected total would exceed the ceiling.
// Must be called before the completion request goes out.
func (g *Gate) Preflight(estimatedTokens int, tier models.ModelTier) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rolloverLocked()
	projected := g.ledger.DailyTotal.Add(CostOf(estimatedTokens, tier))
	if projected.GreaterThan(g.ledger.DailyLimit) {
		return ErrDailyLimitExceeded
	}
	return nil
}

// Commit adds the real token cost of a completed call to the daily total and
// persists the ledger. Returns the cost applied and the new total.
func (g *Gate) Commit(actualTokens int, tier models.ModelTier) (cost, newTotal decimal.Decimal) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rolloverLocked()
	cost = CostOf(actualTokens, tier)
	g.ledger.DailyTotal = g.ledger.DailyTotal.Add(cost)
	g.persistLocked()
	return cost, g.ledger.DailyTotal
}

// Ledger returns a snapshot of the current ledger (after rollover).
func (g *Gate) Ledger() SpendLedger {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rolloverLocked()
	return g.ledger
}

// SetLimit updates the daily ceiling.
func (g *Gate) SetLimit(limit decimal.Decimal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ledger.DailyLimit = limit
}

func (g *Gate) rolloverLocked() {
	today := g.now().Format(models.DateLayout)
	if g.ledger.ResetDate == today {
		return
	}
	g.ledger.DailyTotal = decimal.Zero
	g.ledger.ResetDate = today
	g.persistLocked()
}

// persistLocked writes the ledger through the persist callback. A failed
// write keeps the in-memory ledger authoritative until the next commit.
func (g *Gate) persistLocked() {
	if g.persist == nil {
		return
	}
	if err := g.persist(g.ledger); err != nil {
		g.log.Warn("gate ledger_persist_failed", applogger.Error(err))
	}
}
