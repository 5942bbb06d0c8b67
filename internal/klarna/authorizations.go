package klarna

import (
	"context"
	"net/http"
)

// CreateAuthorization places an order against a checkout authorization
// token. The token is opaque and caller-supplied; it is minted by the
// front-end checkout flow, never by this client. auto_capture is forced
// off so that capture stays a separate, explicit step.
func (c *Client) CreateAuthorization(ctx context.Context, authToken string, params SessionParams) (*Authorization, error) {
	if err := requireID("authorization token", authToken); err != nil {
		return nil, err
	}
	if err := checkInput(params); err != nil {
		return nil, err
	}
	params.applyDefaults()

	body := authorizationRequest{SessionParams: params, AutoCapture: false}

	return send[Authorization](c, ctx, http.MethodPost, pathJoin("payments", "v1", "authorizations", authToken), body, nil)
}

// GetAuthorization returns the order-management view keyed by the
// authorization token.
func (c *Client) GetAuthorization(ctx context.Context, authToken string) (*Order, error) {
	if err := requireID("authorization token", authToken); err != nil {
		return nil, err
	}

	return send[Order](c, ctx, http.MethodGet, pathJoin("ordermanagement", "v1", "orders", authToken), nil, nil)
}

// CancelAuthorization releases a pending authorization. Irreversible on
// the remote side, and only valid before any capture; a conversion that
// already happened surfaces as the remote's rejection, untouched.
//
// The order-management contract uses POST /cancel with no body; the
// payments-API DELETE variant is not used here.
func (c *Client) CancelAuthorization(ctx context.Context, authToken string) error {
	if err := requireID("authorization token", authToken); err != nil {
		return err
	}

	_, err := send[struct{}](c, ctx, http.MethodPost, pathJoin("ordermanagement", "v1", "orders", authToken, "cancel"), nil, nil)
	return err
}
