package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/ktmcp/klarnacompayments/internal/klarna"
)

func (a *App) runOrders(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return a.unknownSubcommand("orders", args)
	}
	switch args[0] {
	case "get":
		return a.runOrdersGet(ctx, args[1:])
	case "capture":
		return a.runOrdersCapture(ctx, args[1:])
	case "update":
		return a.runOrdersUpdate(ctx, args[1:])
	case "captures":
		return a.runOrdersCaptures(ctx, args[1:])
	default:
		return a.unknownSubcommand("orders", args)
	}
}

func (a *App) runOrdersGet(ctx context.Context, args []string) int {
	orderID, rest, ok := takeID(args)
	if !ok {
		a.printer.Failure("usage: orders get <order-id> [--json]")
		return 1
	}
	fs := flag.NewFlagSet("orders get", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "output as JSON")
	if err := fs.Parse(rest); err != nil {
		return 1
	}

	client, err := a.newClient()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	stop := a.printer.Spinner("Fetching order...")
	order, err := client.GetOrder(ctx, orderID)
	stop()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	if *jsonOut {
		if err := a.printer.JSON(order); err != nil {
			return a.fail(err, false)
		}
		return 0
	}

	a.printer.Header("Order Details")
	a.printer.Field("Order ID", a.printer.Highlight(orDefault(order.OrderID, orderID)))
	a.printer.Field("Order amount", FormatMinorUnits(order.OrderAmount, order.PurchaseCurrency))
	a.printer.Field("Currency", orDefault(order.PurchaseCurrency, "N/A"))
	a.printer.Field("Status", orDefault(order.Status, "N/A"))
	a.printer.Field("Captured", FormatMinorUnits(order.CapturedAmount, order.PurchaseCurrency))
	a.printer.Field("Refunded", FormatMinorUnits(order.RefundedAmount, order.PurchaseCurrency))
	return 0
}

func (a *App) runOrdersCapture(ctx context.Context, args []string) int {
	orderID, rest, ok := takeID(args)
	if !ok {
		a.printer.Failure("usage: orders capture <order-id> --amount <amount> [--description <desc>] [--json]")
		return 1
	}
	fs := flag.NewFlagSet("orders capture", flag.ContinueOnError)
	amount := fs.String("amount", "", "amount to capture in minor units")
	description := fs.String("description", "", "capture description")
	jsonOut := fs.Bool("json", false, "output as JSON")
	if err := fs.Parse(rest); err != nil {
		return 1
	}

	capturedAmount, err := parseAmount(*amount)
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	client, err := a.newClient()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	stop := a.printer.Spinner("Capturing order...")
	capture, err := client.CaptureOrder(ctx, orderID, klarna.CaptureParams{
		CapturedAmount: capturedAmount,
		Description:    *description,
	})
	stop()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	if *jsonOut {
		if err := a.printer.JSON(capture); err != nil {
			return a.fail(err, false)
		}
		return 0
	}

	a.printer.Success("Order captured")
	a.printer.Field("Capture ID", a.printer.Highlight(orDefault(capture.CaptureID, "N/A")))
	return 0
}

func (a *App) runOrdersUpdate(ctx context.Context, args []string) int {
	orderID, rest, ok := takeID(args)
	if !ok {
		a.printer.Failure("usage: orders update <order-id> --amount <amount> --lines <json> [--json]")
		return 1
	}
	fs := flag.NewFlagSet("orders update", flag.ContinueOnError)
	amount := fs.String("amount", "", "order amount in minor units")
	lines := fs.String("lines", "", "order lines as a JSON array")
	jsonOut := fs.Bool("json", false, "output as JSON")
	if err := fs.Parse(rest); err != nil {
		return 1
	}

	orderAmount, err := parseAmount(*amount)
	if err != nil {
		return a.fail(err, *jsonOut)
	}
	orderLines, err := parseLines(*lines)
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	client, err := a.newClient()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	stop := a.printer.Spinner("Updating order...")
	err = client.UpdateOrderLines(ctx, orderID, orderAmount, orderLines)
	stop()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	if *jsonOut {
		if err := a.printer.JSON(map[string]string{"status": "updated"}); err != nil {
			return a.fail(err, false)
		}
		return 0
	}

	a.printer.Success("Order updated")
	return 0
}

func (a *App) runOrdersCaptures(ctx context.Context, args []string) int {
	orderID, rest, ok := takeID(args)
	if !ok {
		a.printer.Failure("usage: orders captures <order-id> [--json]")
		return 1
	}
	fs := flag.NewFlagSet("orders captures", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "output as JSON")
	if err := fs.Parse(rest); err != nil {
		return 1
	}

	client, err := a.newClient()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	stop := a.printer.Spinner("Fetching captures...")
	captures, err := client.GetCaptures(ctx, orderID)
	stop()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	if *jsonOut {
		if err := a.printer.JSON(captures); err != nil {
			return a.fail(err, false)
		}
		return 0
	}

	if len(captures) == 0 {
		a.printer.Warn("No captures found")
		return 0
	}

	a.printer.Header(fmt.Sprintf("%d Capture(s)", len(captures)))
	for i, capture := range captures {
		a.printer.Field(fmt.Sprintf("%d. Capture ID", i+1), a.printer.Highlight(orDefault(capture.CaptureID, "N/A")))
		a.printer.Field("   Amount", FormatMinorUnits(capture.CapturedAmount, ""))
	}
	return 0
}
