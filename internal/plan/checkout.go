package plan

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/theirongolddev/energipro/internal/model"
)

// DefaultCheckoutURL is the hosted payment page for the Pro tier.
const DefaultCheckoutURL = "https://pay.kirvano.com/60a70fd0-4eb2-46ba-bf0d-bbec1be208ee"

// Checkout is an opaque redirect to a third-party payment page. Nothing
// about the payment's outcome ever flows back.
type Checkout struct {
	Tier model.Tier
	URL  string
}

// RequiresCheckout reports whether selecting tier goes through the external
// payment page instead of taking effect immediately.
func RequiresCheckout(tier model.Tier) bool {
	return tier == model.TierPro
}

// Opener hands a URL to something that can show it to the user.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, url string) error

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

// BrowserOpener launches the platform's default URL handler.
type BrowserOpener struct{}

// Open starts the handler and does not wait for it to exit.
func (BrowserOpener) Open(ctx context.Context, url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // url comes from config
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
