package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/ktmcp/klarnacompayments/internal/config"
)

func (a *App) runConfig(args []string) int {
	if len(args) == 0 {
		return a.unknownSubcommand("config", args)
	}
	switch args[0] {
	case "set":
		return a.runConfigSet(args[1:])
	case "show":
		return a.runConfigShow(args[1:])
	case "clear":
		return a.runConfigClear(args[1:])
	default:
		return a.unknownSubcommand("config", args)
	}
}

func (a *App) runConfigSet(args []string) int {
	fs := flag.NewFlagSet("config set", flag.ContinueOnError)
	username := fs.String("username", "", "Klarna API username")
	password := fs.String("password", "", "Klarna API password")
	apiKey := fs.String("api-key", "", "Klarna API key (bearer token)")
	region := fs.String("region", "", "region: eu, na, or oc")
	baseURL := fs.String("base-url", "", "explicit API base URL override")
	timeout := fs.String("timeout", "", "request timeout, e.g. 30s")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	store, err := config.OpenStore(a.configPath)
	if err != nil {
		return a.fail(err, false)
	}

	updates := []struct {
		key   string
		value string
		label string
	}{
		{config.KeyUsername, *username, "Username set"},
		{config.KeyPassword, *password, "Password set"},
		{config.KeyAPIKey, *apiKey, "API key set"},
		{config.KeyRegion, *region, "Region set to: " + *region},
		{config.KeyBaseURL, *baseURL, "Base URL set to: " + *baseURL},
		{config.KeyTimeout, *timeout, "Timeout set to: " + *timeout},
	}

	wrote := false
	for _, u := range updates {
		if u.value == "" {
			continue
		}
		if err := store.Set(u.key, u.value); err != nil {
			return a.fail(err, false)
		}
		a.printer.Success(u.label)
		wrote = true
	}

	if !wrote {
		a.printer.Failure("no options provided, use --username, --password, --api-key, --region, --base-url or --timeout")
		return 1
	}
	return 0
}

func (a *App) runConfigShow(args []string) int {
	fs := flag.NewFlagSet("config show", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "output as JSON")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	store, err := config.OpenStore(a.configPath)
	if err != nil {
		return a.fail(err, *jsonOut)
	}

	if *jsonOut {
		view := map[string]string{}
		for _, key := range store.Keys() {
			view[key] = maskValue(key, store.Get(key))
		}
		if err := a.printer.JSON(view); err != nil {
			return a.fail(err, false)
		}
		return 0
	}

	a.printer.Header("Klarna Payments CLI Configuration")
	a.printer.Field("Profile", store.Path())
	a.printer.Field("Username", orDefault(store.Get(config.KeyUsername), "not set"))
	a.printer.Field("Password", orDefault(maskValue(config.KeyPassword, store.Get(config.KeyPassword)), "not set"))
	a.printer.Field("API key", orDefault(maskValue(config.KeyAPIKey, store.Get(config.KeyAPIKey)), "not set"))
	a.printer.Field("Region", orDefault(store.Get(config.KeyRegion), "eu"))
	if baseURL := store.Get(config.KeyBaseURL); baseURL != "" {
		a.printer.Field("Base URL", baseURL)
	}
	if timeout := store.Get(config.KeyTimeout); timeout != "" {
		a.printer.Field("Timeout", timeout)
	}
	if !store.IsConfigured() {
		fmt.Fprintln(a.printer.out)
		a.printer.Warn("No usable credentials configured yet.")
	}
	return 0
}

func (a *App) runConfigClear(args []string) int {
	store, err := config.OpenStore(a.configPath)
	if err != nil {
		return a.fail(err, false)
	}
	if err := store.Clear(); err != nil {
		return a.fail(err, false)
	}
	a.printer.Success("Configuration cleared")
	return 0
}

func maskValue(key, value string) string {
	if value == "" {
		return ""
	}
	if key == config.KeyPassword || key == config.KeyAPIKey {
		return strings.Repeat("*", 8)
	}
	return value
}
