package userinfo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

// DefaultLegacyURL is the userinfo endpoint of the provider generation
// that answered with form-encoded pairs instead of JSON.
const DefaultLegacyURL = "https://www.googleapis.com/userinfo/email"

var _ Fetcher = (*LegacyFetcher)(nil)

// LegacyFetcher queries a userinfo endpoint whose response body is a
// key=value&key=value string and picks out the email pair.
type LegacyFetcher struct {
	httpClient *resty.Client
	url        string
}

// NewLegacyFetcher builds a fetcher for the given endpoint URL. An empty
// url selects DefaultLegacyURL.
func NewLegacyFetcher(url string) *LegacyFetcher {
	if url == "" {
		url = DefaultLegacyURL
	}
	return &LegacyFetcher{
		httpClient: resty.New(),
		url:        url,
	}
}

func (lf *LegacyFetcher) FetchEmail(ctx context.Context, source oauth2.TokenSource) (string, error) {
	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("userinfo token: %w", err)
	}

	res, err := lf.httpClient.NewRequest().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		Get(lf.url)
	if err != nil {
		return "", fmt.Errorf("userinfo request: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("userinfo request failed: %s (status: %d)", lf.url, res.StatusCode())
	}

	email, ok := parsePairs(string(res.Body()))["email"]
	if !ok || email == "" {
		return "", ErrNoEmail
	}
	return email, nil
}

// parsePairs decodes a key=value&key=value body. Anything before a '?' is
// discarded and malformed or undecodable pairs are skipped.
func parsePairs(body string) map[string]string {
	if i := strings.IndexByte(body, '?'); i >= 0 {
		body = body[i+1:]
	}

	pairs := make(map[string]string)
	for _, pair := range strings.Split(body, "&") {
		keyValue := strings.Split(pair, "=")
		if len(keyValue) != 2 {
			continue
		}
		key, err := url.QueryUnescape(keyValue[0])
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(keyValue[1])
		if err != nil {
			continue
		}
		pairs[key] = value
	}
	return pairs
}
