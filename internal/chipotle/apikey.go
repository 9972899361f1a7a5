package chipotle

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// The subscription key sits inside the minified order-web bundle as a quoted
// argument to an obfuscated helper call.
var apiKeyPattern = regexp.MustCompile(`gatewaySubscriptionKey:Q\("([a-zA-Z0-9-]+)"\)`)

const apiKeyCacheKey = "gateway-subscription-key"

// KeyCache scrapes the gateway subscription key out of the client bundle and
// memoizes it. The key rotates with bundle deployments, so a TTL can be set;
// by default a fetched key lives for the lifetime of the cache.
type KeyCache struct {
	httpClient *http.Client
	endpoint   *Endpoint
	store      *gocache.Cache
	ttl        time.Duration
}

// NewKeyCache builds a key cache fetching from endpoint, or the default
// bundle URL when endpoint is nil. ttl <= 0 means the key never expires.
func NewKeyCache(httpClient *http.Client, endpoint *Endpoint, ttl time.Duration) *KeyCache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &KeyCache{
		httpClient: httpClient,
		endpoint:   endpoint,
		store:      gocache.New(ttl, 10*time.Minute),
		ttl:        ttl,
	}
}

// Seed installs a known key, e.g. one passed on the command line, so Key
// never has to hit the network.
func (k *KeyCache) Seed(key string) {
	k.store.Set(apiKeyCacheKey, key, k.ttl)
}

// Key returns the subscription key. A cached key is returned without any
// network I/O unless forceRefresh is set, in which case the bundle is
// re-fetched and the cached value replaced.
func (k *KeyCache) Key(ctx context.Context, forceRefresh bool) (string, error) {
	if !forceRefresh {
		if cached, ok := k.store.Get(apiKeyCacheKey); ok {
			return cached.(string), nil
		}
	}

	url := DefaultAPIKeySourceURL
	if k.endpoint != nil {
		url = k.endpoint.URL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &RequestError{Err: err}
	}
	resp, err := k.httpClient.Do(req)
	if err != nil {
		return "", &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BodyError{Err: err}
	}

	match := apiKeyPattern.FindSubmatch(body)
	if match == nil {
		return "", ErrAPIKeyNotFound
	}
	key := string(match[1])
	k.store.Set(apiKeyCacheKey, key, k.ttl)
	return key, nil
}
