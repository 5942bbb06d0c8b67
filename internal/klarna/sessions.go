package klarna

import (
	"context"
	"net/http"
)

// CreateSession opens a new payment session. The response carries the
// session_id and the client token consumed by front-end checkout flows.
func (c *Client) CreateSession(ctx context.Context, params SessionParams) (*Session, error) {
	if err := checkInput(params); err != nil {
		return nil, err
	}
	params.applyDefaults()

	return send[Session](c, ctx, http.MethodPost, pathJoin("payments", "v1", "sessions"), params, nil)
}

// GetSession fetches the current session snapshot. No local cache: every
// read goes to the API.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	if err := requireID("session id", sessionID); err != nil {
		return nil, err
	}

	return send[Session](c, ctx, http.MethodGet, pathJoin("payments", "v1", "sessions", sessionID), nil, nil)
}

// UpdateSession replaces the session's amount and order lines. All other
// session fields are immutable after creation, so only these two are
// sent.
func (c *Client) UpdateSession(ctx context.Context, sessionID string, amount int64, lines []OrderLine) (*Session, error) {
	if err := requireID("session id", sessionID); err != nil {
		return nil, err
	}
	body := amountLinesUpdate{OrderAmount: amount, OrderLines: lines}
	if err := checkInput(body); err != nil {
		return nil, err
	}

	return send[Session](c, ctx, http.MethodPost, pathJoin("payments", "v1", "sessions", sessionID), body, nil)
}
