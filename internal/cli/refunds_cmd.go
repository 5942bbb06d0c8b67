package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/ktmcp/klarnacompayments/internal/klarna"
)

func (a *App) runRefunds(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return a.unknownSubcommand("refunds", args)
	}
	switch args[0] {
	case "create":
		return a.runRefundsCreate(ctx, args[1:])
	case "list":
		return a.runRefundsList(ctx, args[1:])
	default:
		return a.unknownSubcommand("refunds", args)
	}
}

func (a *App) runRefundsCreate(ctx context.Context, args []string) int {
	orderID, rest, ok := takeID(args)
	if !ok {
		a.printer.Failure("usage: refunds create <order-id> --amount <amount> [--description <desc>] [--json]")
		return 1
	}
	fs := flag.NewFlagSet("refunds create", flag.ContinueOnError)
	amount := fs.String("amount", "", "amount to refund in minor units")
	description := fs.String("description", "", "refund description")
	jsonOut := fs.Bool("json", false, "output as JSON")
	if err := fs.Parse(rest); err != nil {
		return 1
	}

	refundedAmount, err := parseAmount(*amount)
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	client, err := a.newClient()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	stop := a.printer.Spinner("Creating refund...")
	refund, err := client.CreateRefund(ctx, orderID, klarna.RefundParams{
		RefundedAmount: refundedAmount,
		Description:    *description,
	})
	stop()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	if *jsonOut {
		if err := a.printer.JSON(refund); err != nil {
			return a.fail(err, false)
		}
		return 0
	}

	a.printer.Success("Refund created")
	a.printer.Field("Refund ID", a.printer.Highlight(orDefault(refund.RefundID, "N/A")))
	return 0
}

func (a *App) runRefundsList(ctx context.Context, args []string) int {
	orderID, rest, ok := takeID(args)
	if !ok {
		a.printer.Failure("usage: refunds list <order-id> [--json]")
		return 1
	}
	fs := flag.NewFlagSet("refunds list", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "output as JSON")
	if err := fs.Parse(rest); err != nil {
		return 1
	}

	client, err := a.newClient()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	stop := a.printer.Spinner("Fetching refunds...")
	refunds, err := client.GetRefunds(ctx, orderID)
	stop()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	if *jsonOut {
		if err := a.printer.JSON(refunds); err != nil {
			return a.fail(err, false)
		}
		return 0
	}

	if len(refunds) == 0 {
		a.printer.Warn("No refunds found")
		return 0
	}

	a.printer.Header(fmt.Sprintf("%d Refund(s)", len(refunds)))
	for i, refund := range refunds {
		a.printer.Field(fmt.Sprintf("%d. Refund ID", i+1), a.printer.Highlight(orDefault(refund.RefundID, "N/A")))
		a.printer.Field("   Amount", FormatMinorUnits(refund.RefundedAmount, ""))
	}
	return 0
}
