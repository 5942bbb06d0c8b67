package klarna

import (
	"context"
	"net/http"
)

// GetOrder fetches an order with its authoritative running totals.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if err := requireID("order id", orderID); err != nil {
		return nil, err
	}

	return send[Order](c, ctx, http.MethodGet, pathJoin("ordermanagement", "v1", "orders", orderID), nil, nil)
}

// CaptureOrder draws an amount against the order's remaining capturable
// balance. The remote service decides whether the remainder covers the
// request; an over-capture comes back as a REMOTE_REJECTED error, not a
// local one.
func (c *Client) CaptureOrder(ctx context.Context, orderID string, params CaptureParams) (*CaptureResult, error) {
	if err := requireID("order id", orderID); err != nil {
		return nil, err
	}
	if err := checkInput(params); err != nil {
		return nil, err
	}

	return send[CaptureResult](c, ctx, http.MethodPost, pathJoin("ordermanagement", "v1", "orders", orderID, "captures"), params, nil)
}

// UpdateOrderLines patches the order's authorization with a new total
// amount and line set.
func (c *Client) UpdateOrderLines(ctx context.Context, orderID string, amount int64, lines []OrderLine) error {
	if err := requireID("order id", orderID); err != nil {
		return err
	}
	body := amountLinesUpdate{OrderAmount: amount, OrderLines: lines}
	if err := checkInput(body); err != nil {
		return err
	}

	_, err := send[struct{}](c, ctx, http.MethodPatch, pathJoin("ordermanagement", "v1", "orders", orderID, "authorization"), body, nil)
	return err
}

// GetCaptures lists the capture sub-records of an order.
func (c *Client) GetCaptures(ctx context.Context, orderID string) ([]Capture, error) {
	if err := requireID("order id", orderID); err != nil {
		return nil, err
	}

	captures, err := send[[]Capture](c, ctx, http.MethodGet, pathJoin("ordermanagement", "v1", "orders", orderID, "captures"), nil, nil)
	if err != nil {
		return nil, err
	}
	if *captures == nil {
		return []Capture{}, nil
	}
	return *captures, nil
}
