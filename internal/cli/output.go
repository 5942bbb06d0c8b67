package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ktmcp/klarnacompayments/internal/klarna"
	"github.com/shopspring/decimal"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

// Printer renders command output. Human output goes colored to stdout
// when it is a terminal; machine output is plain JSON. Errors always go
// to stderr.
type Printer struct {
	out   io.Writer
	errW  io.Writer
	color bool
	spin  bool
}

func NewPrinter(out, errW io.Writer) *Printer {
	return &Printer{
		out:   out,
		errW:  errW,
		color: useColor(out),
		spin:  useColor(errW),
	}
}

func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func (p *Printer) paint(color, s string) string {
	if !p.color {
		return s
	}
	return color + s + ansiReset
}

func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, p.paint(ansiGreen, "✓")+" "+msg)
}

func (p *Printer) Failure(msg string) {
	fmt.Fprintln(p.errW, p.paint(ansiRed, "✗")+" "+msg)
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.out, p.paint(ansiYellow, msg))
}

func (p *Printer) Header(title string) {
	fmt.Fprintln(p.out, "\n"+p.paint(ansiBold, title)+"\n")
}

// Field prints one aligned key/value detail line.
func (p *Printer) Field(label, value string) {
	fmt.Fprintf(p.out, "%-18s %s\n", label+":", value)
}

// Highlight renders an identifier the way the eye should land on it.
func (p *Printer) Highlight(s string) string {
	return p.paint(ansiCyan, s)
}

// JSON prints the machine-readable view of v. Values carrying the raw
// API payload are reproduced byte for byte; everything else is
// marshalled.
func (p *Printer) JSON(v any) error {
	if carrier, ok := v.(interface{ Raw() json.RawMessage }); ok {
		if raw := carrier.Raw(); len(raw) > 0 {
			var buf bytes.Buffer
			if err := json.Indent(&buf, raw, "", "  "); err == nil {
				fmt.Fprintln(p.out, buf.String())
				return nil
			}
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, string(data))
	return nil
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

type errorResponse struct {
	Success bool        `json:"success"`
	Error   errorDetail `json:"error"`
}

// Error surfaces a failure: one human-readable line, or in machine mode
// a structured error object. Either way the caller exits non-zero.
func (p *Printer) Error(err error, jsonMode bool) {
	if jsonMode {
		detail := errorDetail{Code: string(klarna.KindOf(err)), Message: err.Error()}
		if apiErr, ok := klarna.IsAPIError(err); ok {
			detail.Status = apiErr.Status
		}
		data, mErr := json.MarshalIndent(errorResponse{Success: false, Error: detail}, "", "  ")
		if mErr == nil {
			fmt.Fprintln(p.errW, string(data))
			return
		}
	}
	p.Failure(err.Error())
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows progress on stderr while a call is in flight. It is a
// no-op when stderr is not a terminal. The returned func stops it and
// clears the line.
func (p *Printer) Spinner(msg string) func() {
	if !p.spin {
		return func() {}
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-done:
				fmt.Fprintf(p.errW, "\r\x1b[2K")
				return
			case <-ticker.C:
				fmt.Fprintf(p.errW, "\r%s %s", spinnerFrames[i%len(spinnerFrames)], msg)
				i++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}

// FormatMinorUnits renders an integer minor-unit amount as a decimal
// major-unit string for human output, e.g. 1000, "USD" → "1000 (10.00
// USD)". A two-digit exponent is assumed for display only; the wire
// value is always the integer.
func FormatMinorUnits(amount int64, currency string) string {
	major := decimal.NewFromInt(amount).Shift(-2).StringFixed(2)
	if currency == "" {
		return fmt.Sprintf("%d (%s)", amount, major)
	}
	return fmt.Sprintf("%d (%s %s)", amount, major, currency)
}
