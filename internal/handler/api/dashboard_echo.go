package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	models "FxDesk/internal/domain/models"
	svcmetrics "FxDesk/internal/service/metrics"
	"FxDesk/internal/services/advisor"
	"FxDesk/internal/usecase"
	xhttp "FxDesk/pkg/http"
	xlogger "FxDesk/pkg/logger"
)

// DashboardHandler exposes the analysis pipeline and feed data over HTTP.
type DashboardHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.Analyzer
	settings *usecase.SettingsManager
	feeds    *usecase.FeedSnapshot
	hub      *QuoteHub
}

func NewDashboardHandler(
	logger *xlogger.Logger,
	analyzer *usecase.Analyzer,
	settings *usecase.SettingsManager,
	feeds *usecase.FeedSnapshot,
	hub *QuoteHub,
) *DashboardHandler {
	svcmetrics.Register()
	return &DashboardHandler{
		logger:   logger,
		analyzer: analyzer,
		settings: settings,
		feeds:    feeds,
		hub:      hub,
	}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analyze/:feature", h.Analyze)
	g.POST("/analyze", h.AnalyzeAll)
	g.POST("/ask", h.Ask)
	g.GET("/news", h.News)
	g.GET("/quotes", h.Quotes)
	g.GET("/calendar", h.Calendar)
	g.GET("/settings", h.GetSettings)
	g.PUT("/settings", h.UpdateSettings)
	g.GET("/logs", h.Logs)

	if h.hub != nil {
		e.GET("/ws/quotes", h.hub.Serve)
	}
}

func (h *DashboardHandler) Analyze(c echo.Context) error {
	start := time.Now()
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	extra := map[string]string{"session": req.Session}
	if req.Pair != "" {
		extra["pair"] = req.Pair
	}

	run, err := h.analyzer.RunAnalysis(c.Request().Context(), req.Feature, extra)
	svcmetrics.AnalyzeLatency.WithLabelValues(req.Feature).Observe(time.Since(start).Seconds())
	if err != nil {
		svcmetrics.AnalyzeErrors.WithLabelValues(req.Feature).Inc()
		h.logger.Error("analyze failed", xlogger.String("feature", req.Feature), xlogger.Error(err))
		return h.pipelineError(c, err)
	}
	return xhttp.SuccessResponse(c, run)
}

func (h *DashboardHandler) AnalyzeAll(c echo.Context) error {
	req := &models.AnalyzeRequest{Feature: "all"}
	// body is optional here, but a body that is present must parse
	if err := c.Bind(req); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}
	if req.Session == "" {
		req.Session = "london"
	}

	results := h.analyzer.AnalyzeAll(c.Request().Context(), map[string]string{"session": req.Session})

	out := make(map[string]any, len(results))
	for feature, res := range results {
		if res.Err != nil {
			out[feature] = map[string]string{"error": res.Err.Error()}
			continue
		}
		out[feature] = res.Run
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *DashboardHandler) Ask(c echo.Context) error {
	req := &models.AskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	run, err := h.analyzer.Ask(c.Request().Context(), req.Question)
	if err != nil {
		h.logger.Error("ask failed", xlogger.Error(err))
		return h.pipelineError(c, err)
	}
	return xhttp.SuccessResponse(c, run)
}

func (h *DashboardHandler) News(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.feeds.News())
}

func (h *DashboardHandler) Quotes(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.feeds.Quotes())
}

func (h *DashboardHandler) Calendar(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.feeds.Calendar())
}

func (h *DashboardHandler) GetSettings(c echo.Context) error {
	settings, err := h.settings.Get()
	if err != nil {
		h.logger.Error("settings load failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, redactSettings(settings))
}

func (h *DashboardHandler) UpdateSettings(c echo.Context) error {
	req := &models.SettingsUpdateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	settings, err := h.settings.Update(req)
	if err != nil {
		h.logger.Error("settings update failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, redactSettings(settings))
}

func (h *DashboardHandler) Logs(c echo.Context) error {
	req := &models.LogsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	collector := h.logger.Collector()
	if collector == nil {
		return xhttp.SuccessResponse(c, []xlogger.AggregatedLogEntry{})
	}
	return xhttp.SuccessResponse(c, collector.Recent(req.Limit))
}

// pipelineError maps the advisor error taxonomy onto HTTP statuses.
func (h *DashboardHandler) pipelineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, advisor.ErrUnknownFeature):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()).WithError(err))
	case errors.Is(err, advisor.ErrMissingCredential):
		return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError(err.Error()).WithError(err))
	case errors.Is(err, advisor.ErrDailyLimitExceeded):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_DAILY_LIMIT", "", err.Error(), http.StatusTooManyRequests).WithError(err))
	case errors.Is(err, advisor.ErrNoRelevantData):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_NO_DATA", "", err.Error(), http.StatusUnprocessableEntity).WithError(err))
	case errors.Is(err, advisor.ErrNetwork),
		errors.Is(err, advisor.ErrNoJSONFound),
		errors.Is(err, advisor.ErrMalformedJSON),
		errors.Is(err, advisor.ErrNoValidResults):
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_UPSTREAM", "", err.Error(), http.StatusBadGateway).WithError(err))
	default:
		return xhttp.InternalServerErrorResponse(c)
	}
}

// the key never leaves the server once set
func redactSettings(s models.Settings) models.Settings {
	if s.APIKey != "" {
		s.APIKey = "sk-****"
	}
	return s
}
