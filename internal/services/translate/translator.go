package translate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"FxDesk/internal/service/ratelimit"
	"FxDesk/pkg/cache"
	pkghttp "FxDesk/pkg/http"
	applogger "FxDesk/pkg/logger"
)

const limiterKey = "translate"

var (
	nonAlphaRe  = regexp.MustCompile(`^[^a-zA-Z]*$`)
	frenchRunes = regexp.MustCompile(`[éèêëàâäôöûüçîïÉÈÊËÀÂÄÔÖÛÜÇÎÏ]`)
	urlRe       = regexp.MustCompile(`^https?://`)

	frenchStopWords = map[string]struct{}{
		"le": {}, "la": {}, "les": {}, "un": {}, "une": {},
		"des": {}, "et": {}, "ou": {}, "donc": {},
	}
)

// Service translates English headlines to French through MyMemory,
// with a cache in front and one request per second toward the API.
type Service struct {
	http     *pkghttp.Client
	baseURL  string
	email    string
	cache    cache.Service
	cacheTTL time.Duration
	limiter  *ratelimit.Limiter
	log      *applogger.Logger
}

func New(baseURL, email string, c cache.Service, ttl time.Duration, log *applogger.Logger) *Service {
	if baseURL == "" {
		baseURL = "https://api.mymemory.translated.net"
	}
	return &Service{
		http:     pkghttp.NewClient(pkghttp.WithTimeout(10 * time.Second)),
		baseURL:  baseURL,
		email:    email,
		cache:    c,
		cacheTTL: ttl,
		limiter:  ratelimit.New(),
		log:      log,
	}
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus int `json:"responseStatus"`
}

// Translate returns the French rendering of text, or the input unchanged
// when translation is unnecessary, throttled, or failing. Callers never see
// an outage as an error; a missing translation is not a missing headline.
func (s *Service) Translate(ctx context.Context, text string) (string, error) {
	if !ShouldTranslate(text) {
		return text, nil
	}

	key := cache.GenerateKey("translate", cache.HashKey(strings.ToLower(text)))
	if s.cache != nil {
		var cached string
		if err := s.cache.Get(ctx, key, &cached); err == nil && cached != "" {
			return cached, nil
		}
	}

	if !s.limiter.Allow(limiterKey, 1, 1) {
		return text, nil
	}

	translated, err := s.callAPI(ctx, text)
	if err != nil {
		s.log.Warn("translate api_failed", applogger.Error(err))
		return text, nil
	}

	// caching an identity translation would hide future improvements
	if s.cache != nil && !strings.EqualFold(translated, text) {
		_ = s.cache.Set(ctx, key, translated, s.cacheTTL)
	}
	return translated, nil
}

func (s *Service) callAPI(ctx context.Context, text string) (string, error) {
	params := map[string][]string{
		"q":        {text},
		"langpair": {"en|fr"},
	}
	if s.email != "" {
		params["de"] = []string{s.email}
	}

	var out myMemoryResponse
	err := s.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         s.baseURL + "/get",
		QueryParams: params,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.ResponseStatus != 200 || out.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("unexpected response status %d", out.ResponseStatus)
	}
	translated := strings.TrimSpace(out.ResponseData.TranslatedText)
	if translated == "" {
		return "", fmt.Errorf("empty translation")
	}
	return translated, nil
}

// ShouldTranslate filters out text that is too short, already French,
// numeric, or a bare URL.
func ShouldTranslate(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 3 {
		return false
	}
	if nonAlphaRe.MatchString(trimmed) {
		return false
	}
	if frenchRunes.MatchString(trimmed) {
		return false
	}
	if urlRe.MatchString(trimmed) {
		return false
	}

	words := strings.Fields(strings.ToLower(trimmed))
	if len(words) == 0 {
		return false
	}
	var french int
	for _, w := range words {
		if _, ok := frenchStopWords[w]; ok {
			french++
		}
	}
	return float64(french)/float64(len(words)) <= 0.3
}
