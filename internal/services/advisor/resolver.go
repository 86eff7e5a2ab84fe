package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	applogger "FxDesk/pkg/logger"
)

// Resolver turns raw model completions into validated result elements.
type Resolver struct {
	log *applogger.Logger
}

func NewResolver(log *applogger.Logger) *Resolver {
	return &Resolver{log: log}
}

// Resolve parses a JSON-shaped completion against the feature schema.
// Parsing is attempted on the raw text first; only on failure does the
// repair pipeline run, and the repaired text is parsed once more. Elements
// that fail validation are dropped individually so one malformed entry
// does not void the rest.
func (r *Resolver) Resolve(f *Feature, raw string) ([]map[string]any, error) {
	if f.Schema == nil {
		return nil, fmt.Errorf("feature %q has no schema", f.ID)
	}

	root, err := parseRoot(raw)
	if err != nil {
		repaired, rerr := Repair(raw)
		if rerr != nil {
			return nil, rerr
		}
		root, err = parseRoot(repaired)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
	}

	list, ok := extractElements(root, f.Schema.RootKey)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrNoValidResults, f.Schema.RootKey)
	}

	kept := make([]map[string]any, 0, len(list))
	for i, el := range list {
		if f.Schema.MaxElements > 0 && len(kept) >= f.Schema.MaxElements {
			break
		}
		if verr := f.Schema.ValidateElement(el); verr != nil {
			r.log.Debug("resolver element_dropped",
				applogger.String("feature", f.ID),
				applogger.Int("index", i),
				applogger.Error(verr))
			continue
		}
		kept = append(kept, el)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no element passed validation for %q", ErrNoValidResults, f.ID)
	}
	return kept, nil
}

// ResolveText validates a narrative completion. A marker anywhere in the
// text rejects it; models bury refusals mid-answer as often as they lead
// with them.
func (r *Resolver) ResolveText(f *Feature, raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion for %q", ErrNoValidResults, f.ID)
	}
	lower := strings.ToLower(text)
	for _, marker := range f.ErrorMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return "", fmt.Errorf("%w: refusal for %q", ErrNoValidResults, f.ID)
		}
	}
	return text, nil
}

func parseRoot(s string) (map[string]any, error) {
	var root map[string]any
	if err := json.Unmarshal([]byte(s), &root); err != nil {
		return nil, err
	}
	return root, nil
}

// extractElements reads the root key as either a list of objects or, for
// single-object payloads, a lone object wrapped into a one-element list.
func extractElements(root map[string]any, key string) ([]map[string]any, bool) {
	v, ok := root[key]
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out, true
	case map[string]any:
		return []map[string]any{t}, true
	default:
		return nil, false
	}
}
