package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

func (a *App) runSessions(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return a.unknownSubcommand("sessions", args)
	}
	switch args[0] {
	case "create":
		return a.runSessionsCreate(ctx, args[1:])
	case "get":
		return a.runSessionsGet(ctx, args[1:])
	case "update":
		return a.runSessionsUpdate(ctx, args[1:])
	default:
		return a.unknownSubcommand("sessions", args)
	}
}

func (a *App) runSessionsCreate(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("sessions create", flag.ContinueOnError)
	amount := fs.String("amount", "", "order amount in minor units (e.g. 1000 = 10.00)")
	lines := fs.String("lines", "", "order lines as a JSON array")
	country := fs.String("country", "US", "purchase country")
	currency := fs.String("currency", "USD", "purchase currency")
	locale := fs.String("locale", "en-US", "locale")
	jsonOut := fs.Bool("json", false, "output as JSON")
	if err := fs.Parse(args); err != nil {
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

	stop := a.printer.Spinner("Creating session...")
	session, err := client.CreateSession(ctx, sessionParams(*country, *currency, *locale, orderAmount, orderLines))
	stop()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	if *jsonOut {
		if err := a.printer.JSON(session); err != nil {
			return a.fail(err, false)
		}
		return 0
	}

	a.printer.Success("Session created")
	a.printer.Field("Session ID", a.printer.Highlight(orDefault(session.SessionID, "N/A")))
	clientToken := "N/A"
	if session.ClientToken != "" {
		clientToken = "generated"
	}
	a.printer.Field("Client token", clientToken)
	a.printer.Field("Payment methods", fmt.Sprintf("%d", len(session.PaymentMethodCategories)))
	return 0
}

func (a *App) runSessionsGet(ctx context.Context, args []string) int {
	sessionID, rest, ok := takeID(args)
	if !ok {
		a.printer.Failure("usage: sessions get <session-id> [--json]")
		return 1
	}
	fs := flag.NewFlagSet("sessions get", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "output as JSON")
	if err := fs.Parse(rest); err != nil {
		return 1
	}

	client, err := a.newClient()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	stop := a.printer.Spinner("Fetching session...")
	session, err := client.GetSession(ctx, sessionID)
	stop()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	if *jsonOut {
		if err := a.printer.JSON(session); err != nil {
			return a.fail(err, false)
		}
		return 0
	}

	a.printer.Header("Session Details")
	a.printer.Field("Session ID", a.printer.Highlight(orDefault(session.SessionID, sessionID)))
	a.printer.Field("Order amount", FormatMinorUnits(session.OrderAmount, session.PurchaseCurrency))
	a.printer.Field("Currency", orDefault(session.PurchaseCurrency, "N/A"))
	a.printer.Field("Status", orDefault(session.Status, "N/A"))
	return 0
}

func (a *App) runSessionsUpdate(ctx context.Context, args []string) int {
	sessionID, rest, ok := takeID(args)
	if !ok {
		a.printer.Failure("usage: sessions update <session-id> --amount <amount> --lines <json> [--json]")
		return 1
	}
	fs := flag.NewFlagSet("sessions update", flag.ContinueOnError)
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

	stop := a.printer.Spinner("Updating session...")
	session, err := client.UpdateSession(ctx, sessionID, orderAmount, orderLines)
	stop()
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	if *jsonOut {
		if err := a.printer.JSON(session); err != nil {
			return a.fail(err, false)
		}
		return 0
	}

	a.printer.Success("Session updated")
	return 0
}

// takeID pops the required leading positional argument of a subcommand.
func takeID(args []string) (string, []string, bool) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", nil, false
	}
	return args[0], args[1:], true
}
