package gigya

import (
	"errors"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultBaseURL is the socialize API root used when Config.BaseURL is empty.
const DefaultBaseURL = "https://socialize.gigya.com"

// Config holds the static settings of the bridge.
// It is loaded once at startup (see pkg/config) and never mutated afterwards.
type Config struct {
	APIKey      string        `env:"GIGYA_API_KEY,required"`
	Secret      string        `env:"GIGYA_SECRET"`
	Providers   []string      `env:"GIGYA_PROVIDERS" envSeparator:","`
	BaseURL     string        `env:"GIGYA_BASE_URL" envDefault:"https://socialize.gigya.com"`
	RedirectURL string        `env:"GIGYA_REDIRECT_URL"`
	Timeout     time.Duration `env:"GIGYA_TIMEOUT" envDefault:"10s"`
}

// normalizeProvider lower-cases a provider name so "Facebook" and "facebook" compare equal.
// A Caser keeps state, so each call gets its own.
func normalizeProvider(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// normalized returns a copy of the config with provider names lower-cased,
// de-duplicated and the base URL defaulted.
func (c Config) normalized() Config {
	out := c
	out.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}

	out.Providers = make([]string, 0, len(c.Providers))
	for _, p := range c.Providers {
		p = normalizeProvider(p)
		if p == "" || slices.Contains(out.Providers, p) {
			continue
		}
		out.Providers = append(out.Providers, p)
	}
	return out
}

// validate checks the fields every request needs.
func (c Config) validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.Join(ErrConfiguration, errors.New("api key is required"))
	}
	return nil
}

// accepts reports whether the provider is allowed by the configured set.
// An empty set accepts any provider.
func (c Config) accepts(provider string) bool {
	if len(c.Providers) == 0 {
		return true
	}
	return slices.Contains(c.Providers, normalizeProvider(provider))
}
