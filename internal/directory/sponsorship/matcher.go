// Package sponsorship resolves which captured lawyers are sponsored
// listings and carries the tier pricing catalog.
package sponsorship

import (
	"encoding/json"
	"os"
	"strings"

	"smartdivorce_backend/internal/directory/domain"
	"smartdivorce_backend/platform/logger"
)

// Config is one externally managed sponsor rule. A rule is keyed either
// by place ID (exact) or by a keyword set that must all appear in the
// candidate's name.
type Config struct {
	PlaceID       string      `json:"placeId,omitempty"`
	Name          string      `json:"name"`
	MatchKeywords []string    `json:"matchKeywords,omitempty"`
	Tier          domain.Tier `json:"tier"`
	Badge         string      `json:"badge,omitempty"`
	Description   string      `json:"description,omitempty"`
}

// Match is the resolved sponsorship state for a candidate.
type Match struct {
	Tier        domain.Tier
	Badge       string
	Description string
}

// Matcher resolves candidates against an ordered sponsor config list.
type Matcher struct {
	configs []Config
	log     *logger.Logger
}

// NewMatcher builds a matcher over the given configs. Duplicate place IDs
// in the config data are tolerated: the first rule wins and a warning is
// logged once at construction.
func NewMatcher(configs []Config, log *logger.Logger) *Matcher {
	seen := make(map[string]bool, len(configs))
	for _, cfg := range configs {
		if cfg.PlaceID == "" {
			continue
		}
		if seen[cfg.PlaceID] && log != nil {
			log.Warn("duplicate sponsor config for place id, first rule wins",
				"place_id", cfg.PlaceID,
				"name", cfg.Name,
			)
		}
		seen[cfg.PlaceID] = true
	}

	return &Matcher{configs: configs, log: log}
}

// Match returns the first matching sponsor config for the candidate.
// Place-ID matches are checked across the whole list before any keyword
// matching happens, so an ID rule always beats a keyword rule.
func (m *Matcher) Match(cand domain.Candidate) (Match, bool) {
	for _, cfg := range m.configs {
		if cfg.PlaceID != "" && cfg.PlaceID == cand.PlaceID {
			return toMatch(cfg), true
		}
	}

	name := strings.ToLower(cand.Name)
	for _, cfg := range m.configs {
		if len(cfg.MatchKeywords) == 0 {
			continue
		}
		if matchesAllKeywords(name, cfg.MatchKeywords) {
			return toMatch(cfg), true
		}
	}

	return Match{}, false
}

func matchesAllKeywords(lowerName string, keywords []string) bool {
	for _, keyword := range keywords {
		if !strings.Contains(lowerName, strings.ToLower(keyword)) {
			return false
		}
	}
	return true
}

func toMatch(cfg Config) Match {
	return Match{
		Tier:        cfg.Tier,
		Badge:       cfg.Badge,
		Description: cfg.Description,
	}
}

// LoadConfigs reads sponsor rules from a JSON file. An empty path yields
// an empty rule set, not an error.
func LoadConfigs(path string) ([]Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var configs []Config
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}
