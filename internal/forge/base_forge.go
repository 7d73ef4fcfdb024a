package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

// BaseForge holds the HTTP plumbing shared by forge API clients.
type BaseForge struct {
	httpClient *http.Client
	apiURL     string
	token      string

	authHeaderPrefix string
	customHeaders    map[string]string
}

// NewBaseForge creates a BaseForge. An empty token sends anonymous requests.
func NewBaseForge(httpClient *http.Client, apiURL, token string) *BaseForge {
	return &BaseForge{
		httpClient:       httpClient,
		apiURL:           apiURL,
		token:            token,
		authHeaderPrefix: "Bearer ",
		customHeaders:    make(map[string]string),
	}
}

// SetCustomHeader sets a header sent with every request.
func (b *BaseForge) SetCustomHeader(key, value string) {
	b.customHeaders[key] = value
}

// NewRequest builds a GET-style request for an endpoint relative to the API URL.
// Query strings in endpoint are kept.
func (b *BaseForge) NewRequest(ctx context.Context, method, endpoint string) (*http.Request, error) {
	cleanEndpoint := strings.TrimPrefix(endpoint, "/")

	var rawQuery string
	if idx := strings.Index(cleanEndpoint, "?"); idx != -1 {
		rawQuery = cleanEndpoint[idx+1:]
		cleanEndpoint = cleanEndpoint[:idx]
	}

	u, err := url.Parse(b.apiURL)
	if err != nil {
		return nil, errors.ConfigError("failed to parse API URL").
			WithCause(err).
			WithContext("api_url", b.apiURL).
			Build()
	}
	u.Path = path.Join(strings.TrimSuffix(u.Path, "/"), cleanEndpoint)
	u.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
	if err != nil {
		return nil, errors.InternalError("failed to create request").
			WithCause(err).
			WithContext("method", method).
			WithContext("url", u.String()).
			Build()
	}

	if b.token != "" {
		req.Header.Set("Authorization", b.authHeaderPrefix+b.token)
	}
	req.Header.Set("User-Agent", "docversions/1.0")
	for key, value := range b.customHeaders {
		req.Header.Set(key, value)
	}
	return req, nil
}

// DoRequest executes req and decodes a JSON body into result.
// Transport failures and non-2xx answers are fatal network errors, except 404
// which is reported as not found.
func (b *BaseForge) DoRequest(req *http.Request, result any) error {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return errors.NetworkError("failed to execute forge request").
			WithCause(err).
			WithContext("method", req.Method).
			WithContext("url", req.URL.String()).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		bodyStr := strings.ReplaceAll(string(limitedBody), "\n", " ")

		builder := errors.NetworkError(fmt.Sprintf("forge API error: %s", resp.Status))
		if resp.StatusCode == http.StatusNotFound {
			builder = errors.NotFoundError(fmt.Sprintf("forge API error: %s", resp.Status)).Fatal()
		}
		return builder.
			WithContext("code", resp.StatusCode).
			WithContext("url", req.URL.String()).
			WithContext("response", bodyStr).
			Build()
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return errors.NetworkError("failed to decode forge response").
				WithCause(err).
				WithContext("url", req.URL.String()).
				Build()
		}
	}
	return nil
}
