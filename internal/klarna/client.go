package klarna

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/ktmcp/klarnacompayments/internal/config"
)

// DefaultRegion is the primary region used when no region is configured
// or the configured code is not recognized.
const DefaultRegion = "eu"

const defaultTimeout = 30 * time.Second

// regionEndpoints is the fixed table of regional API hosts. New regions
// are additive; the fallback policy lives in ResolveBaseEndpoint.
var regionEndpoints = map[string]string{
	"eu": "https://api.klarna.com",
	"na": "https://api-na.klarna.com",
	"oc": "https://api-oc.klarna.com",
}

var validate = validator.New()

// Client issues authenticated calls against the Klarna Payments and
// Order Management APIs. It performs no retries and holds no state
// beyond the resolved endpoint and credentials, so a single instance is
// safe for concurrent use.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client from an explicit configuration value. It
// fails with a PRECONDITION error if credential material is missing or
// incomplete; no network I/O happens here or is attempted later in that
// case.
func NewClient(cfg config.Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	authHeader, err := buildAuthHeader(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    ResolveBaseEndpoint(cfg),
		authHeader: authHeader,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// ResolveBaseEndpoint selects the base URL for a configuration. An
// explicit base_url wins; otherwise the region table decides. Unknown
// region codes deliberately resolve to the primary region instead of
// failing, so a typo in the profile degrades to eu rather than blocking
// every call.
func ResolveBaseEndpoint(cfg config.Config) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	if endpoint, ok := regionEndpoints[cfg.Region]; ok {
		return endpoint
	}
	return regionEndpoints[DefaultRegion]
}

// buildAuthHeader constructs exactly one authentication scheme: Basic
// from a username/password pair, or Bearer from an API key.
func buildAuthHeader(cfg config.Config) (string, error) {
	switch {
	case cfg.Username != "" && cfg.Password != "":
		cred := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.Password))
		return "Basic " + cred, nil
	case cfg.Username != "" || cfg.Password != "":
		return "", newPreconditionError("incomplete credentials: both username and password are required")
	case cfg.APIKey != "":
		return "Bearer " + cfg.APIKey, nil
	default:
		return "", newPreconditionError(
			"credentials not configured, run: klarnacompayments config set --username <user> --password <pass>")
	}
}

// checkInput validates caller-supplied request shapes before any network
// call. Failures are INVALID_INPUT, never conflated with remote errors.
func checkInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return newInvalidInputError("invalid input", err)
	}
	return nil
}

func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return newInvalidInputError(name+" must not be empty", nil)
	}
	return nil
}

// send issues the call and decodes the response into Resp, keeping the
// undecoded body attached when Resp carries an envelope.
func send[Resp any](c *Client, ctx context.Context, method, path string, reqBody any, query url.Values) (*Resp, error) {
	raw, err := c.do(ctx, method, path, reqBody, query)
	if err != nil {
		return nil, err
	}

	var resp Resp
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, &APIError{Kind: KindUnknown, Message: "error decoding json response", Err: err}
		}
	}
	if carrier, ok := any(&resp).(interface{ attach(json.RawMessage) }); ok {
		carrier.attach(raw)
	}

	return &resp, nil
}

// do performs one authenticated request and returns the body untouched.
// Every failure mode maps to exactly one error kind; nothing is
// swallowed and nothing is retried.
func (c *Client) do(ctx context.Context, method, path string, reqBody any, query url.Values) (json.RawMessage, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, &APIError{Kind: KindUnknown, Message: "error marshalling json", Err: err}
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: "error creating request", Err: err}
	}

	httpReq.Header.Set("Authorization", c.authHeader)
	httpReq.Header.Set("Accept", "application/json")
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		httpReq.Header.Set("Idempotency-Key", uuid.NewString())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("klarna api call failed",
			"method", method,
			"path", path,
			"error", err,
		)
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Kind:    KindUnreachable,
			Message: "response from the Klarna API was interrupted",
			Err:     err,
		}
	}

	c.logger.Debug("klarna api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, classifyStatus(resp.StatusCode, respBody)
	}

	return respBody, nil
}

func pathJoin(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}
