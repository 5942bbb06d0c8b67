package cli

import (
	"context"
	"flag"
)

func (a *App) runAuthorizations(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return a.unknownSubcommand("authorizations", args)
	}
	switch args[0] {
	case "create":
		return a.runAuthorizationsCreate(ctx, args[1:])
	case "get":
		return a.runAuthorizationsGet(ctx, args[1:])
	case "cancel":
		return a.runAuthorizationsCancel(ctx, args[1:])
	default:
		return a.unknownSubcommand("authorizations", args)
	}
}

func (a *App) runAuthorizationsCreate(ctx context.Context, args []string) int {
	authToken, rest, ok := takeID(args)
	if !ok {
		a.printer.Failure("usage: authorizations create <auth-token> --amount <amount> --lines <json> [flags]")
		return 1
	}
	fs := flag.NewFlagSet("authorizations create", flag.ContinueOnError)
	amount := fs.String("amount", "", "order amount in minor units")
	lines := fs.String("lines", "", "order lines as a JSON array")
	country := fs.String("country", "US", "purchase country")
	currency := fs.String("currency", "USD", "purchase currency")
	locale := fs.String("locale", "en-US", "locale")
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

	stop := a.printer.Spinner("Creating authorization...")
	auth, err := client.CreateAuthorization(ctx, authToken, sessionParams(*country, *currency, *locale, orderAmount, orderLines))
	stop()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	if *jsonOut {
		if err := a.printer.JSON(auth); err != nil {
			return a.fail(err, false)
		}
		return 0
	}

	a.printer.Success("Authorization created")
	a.printer.Field("Order ID", a.printer.Highlight(orDefault(auth.OrderID, "N/A")))
	a.printer.Field("Fraud status", orDefault(auth.FraudStatus, "N/A"))
	return 0
}

func (a *App) runAuthorizationsGet(ctx context.Context, args []string) int {
	authToken, rest, ok := takeID(args)
	if !ok {
		a.printer.Failure("usage: authorizations get <auth-token> [--json]")
		return 1
	}
	fs := flag.NewFlagSet("authorizations get", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "output as JSON")
	if err := fs.Parse(rest); err != nil {
		return 1
	}

	client, err := a.newClient()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	stop := a.printer.Spinner("Fetching authorization...")
	order, err := client.GetAuthorization(ctx, authToken)
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

	a.printer.Header("Authorization Details")
	a.printer.Field("Order ID", a.printer.Highlight(orDefault(order.OrderID, authToken)))
	a.printer.Field("Order amount", FormatMinorUnits(order.OrderAmount, order.PurchaseCurrency))
	a.printer.Field("Status", orDefault(order.Status, "N/A"))
	a.printer.Field("Captured", FormatMinorUnits(order.CapturedAmount, order.PurchaseCurrency))
	a.printer.Field("Remaining", FormatMinorUnits(order.RemainingAuthorizedAmount, order.PurchaseCurrency))
	return 0
}

func (a *App) runAuthorizationsCancel(ctx context.Context, args []string) int {
	authToken, rest, ok := takeID(args)
	if !ok {
		a.printer.Failure("usage: authorizations cancel <auth-token> [--json]")
		return 1
	}
	fs := flag.NewFlagSet("authorizations cancel", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "output as JSON")
	if err := fs.Parse(rest); err != nil {
		return 1
	}

	client, err := a.newClient()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	stop := a.printer.Spinner("Cancelling authorization...")
	err = client.CancelAuthorization(ctx, authToken)
	stop()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	if *jsonOut {
		if err := a.printer.JSON(map[string]string{"status": "cancelled"}); err != nil {
			return a.fail(err, false)
		}
		return 0
	}

	a.printer.Success("Authorization cancelled")
	return 0
}
