package chipotle

import (
	"fmt"
	"strings"
)

// Default upstream endpoints. All of them can be overridden through the
// endpoint config, mostly so tests can point the client at a local server.
const (
	DefaultAPIKeySourceURL = "https://orderweb-cdn.chipotle.com/js/app.js"

	DefaultLocationsURL = "https://services.chipotle.com/restaurant/v3/restaurant/"

	DefaultMenuURLFormat    = "https://services.chipotle.com/menuinnovation/v1/restaurants/$store_id/onlinemenu?channelId=web&includeUnavailableItems=true"
	DefaultMenuReplaceToken = "$store_id"

	// APIKeyHeader carries the subscription key on every authenticated request.
	APIKeyHeader = "Ocp-Apim-Subscription-Key"
)

// Endpoint is a URL, optionally with a literal token that gets replaced at
// render time. Rendering is plain substring replacement, not templating: a
// value that itself contains the token would make a second pass ambiguous,
// so callers must not pass one. That is a documented limitation.
type Endpoint struct {
	URL          string
	ReplaceToken string
}

// NewEndpoint builds an endpoint with no replace token.
func NewEndpoint(url string) (*Endpoint, error) {
	if url == "" {
		return nil, ErrMissingEndpoint
	}
	return &Endpoint{URL: url}, nil
}

// NewTemplateEndpoint builds an endpoint whose URL contains token.
func NewTemplateEndpoint(url, token string) (*Endpoint, error) {
	if url == "" {
		return nil, ErrMissingEndpoint
	}
	if token == "" {
		return nil, ErrMissingReplaceToken
	}
	if !strings.Contains(url, token) {
		return nil, ErrTokenNotInEndpoint
	}
	return &Endpoint{URL: url, ReplaceToken: token}, nil
}

// Render substitutes every occurrence of the replace token with value.
// Endpoints without a token render to their URL unchanged.
func (e *Endpoint) Render(value string) string {
	if e.ReplaceToken == "" {
		return e.URL
	}
	return strings.ReplaceAll(e.URL, e.ReplaceToken, value)
}

// EndpointConfig holds the overridable endpoints for a client. A nil entry
// means the default upstream endpoint is used.
type EndpointConfig struct {
	APIKey    *Endpoint
	Locations *Endpoint
	Menu      *Endpoint
}

// Validate enforces the per-service token rules: the api-key and locations
// endpoints never take a token, the menu endpoint always needs one.
func (c *EndpointConfig) Validate() error {
	if c.APIKey != nil && c.APIKey.ReplaceToken != "" {
		return fmt.Errorf("api_key endpoint %q: %w", c.APIKey.URL, ErrUnnecessaryReplaceToken)
	}
	if c.Locations != nil && c.Locations.ReplaceToken != "" {
		return fmt.Errorf("locations endpoint %q: %w", c.Locations.URL, ErrUnnecessaryReplaceToken)
	}
	if c.Menu != nil {
		if c.Menu.ReplaceToken == "" {
			return fmt.Errorf("menu endpoint %q: %w", c.Menu.URL, ErrMissingReplaceToken)
		}
		if !strings.Contains(c.Menu.URL, c.Menu.ReplaceToken) {
			return fmt.Errorf("menu endpoint %q: %w", c.Menu.URL, ErrTokenNotInEndpoint)
		}
	}
	return nil
}
