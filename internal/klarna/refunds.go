package klarna

import (
	"context"
	"net/http"
)

// CreateRefund returns previously captured funds, up to the captured
// amount. The remote service tracks the refundable remainder; an
// over-refund surfaces as REMOTE_REJECTED.
func (c *Client) CreateRefund(ctx context.Context, orderID string, params RefundParams) (*RefundResult, error) {
	if err := requireID("order id", orderID); err != nil {
		return nil, err
	}
	if err := checkInput(params); err != nil {
		return nil, err
	}

	return send[RefundResult](c, ctx, http.MethodPost, pathJoin("ordermanagement", "v1", "orders", orderID, "refunds"), params, nil)
}

// GetRefunds projects the refunds of one order. An order with no refunds
// yields an empty slice, never an error.
func (c *Client) GetRefunds(ctx context.Context, orderID string) ([]Refund, error) {
	order, err := c.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Refunds == nil {
		return []Refund{}, nil
	}
	return order.Refunds, nil
}
