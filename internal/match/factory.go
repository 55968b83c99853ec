package match

import (
	"github.com/patternfirst/patternctl/internal/config"
	"github.com/patternfirst/patternctl/internal/index"
	"github.com/patternfirst/patternctl/internal/store"
)

// ForConfig builds the matcher the configuration asks for. The simhash
// strategy needs the derived index; when it is unavailable (nil), the
// substring matcher is used so search keeps working against the files.
func ForConfig(cfg *config.Config, s store.Store, ix *index.Index) Matcher {
	if cfg.Strategy == config.StrategySimhash && ix != nil {
		return NewSimhash(s, ix, cfg.SimhashCutoff)
	}
	return NewSubstring(s)
}
