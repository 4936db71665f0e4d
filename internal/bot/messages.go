package bot

import (
	"fmt"
	"strings"

	"detailing-bot/internal/catalog"
	"detailing-bot/internal/config"
	"detailing-bot/internal/estimator"
)

const (
	estimateHeader = "🚗 Build your detailing estimate"
	estimatePrompt = "Tap services or a package below to see your price."

	helpText = `Available commands:
/start - build a price estimate
/prices - full price list
/help - show this help`
)

// estimateText is the body of the estimator message for one frame.
func estimateText(v estimator.View) string {
	body := estimator.Render(v)
	if body == "" {
		body = estimatePrompt
	}
	return estimateHeader + "\n\n" + body
}

func priceListText(c *catalog.Catalog) string {
	var b strings.Builder

	b.WriteString("💰 Services\n")
	for _, s := range c.Services() {
		fmt.Fprintf(&b, "• %s: %s\n", s.Name, estimator.FormatPrice(s.Price))
	}

	b.WriteString("\n📦 Packages\n")
	for _, p := range c.Packages() {
		fmt.Fprintf(&b, "• %s: %s", p.Name, estimator.FormatPrice(p.Price))
		if p.Popular {
			b.WriteString(" ★ most popular")
		}
		b.WriteString("\n")
		if p.Description != "" {
			fmt.Fprintf(&b, "  %s\n", p.Description)
		}
		for _, f := range p.Features {
			fmt.Fprintf(&b, "  – %s\n", f)
		}
		if s := c.ListedSavings(p); s > 0 {
			fmt.Fprintf(&b, "  Save %s\n", estimator.FormatPrice(s))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// bookingText stands in for a booking flow: it repeats the estimate and shows how to get in touch.
func bookingText(contact config.Contact, q estimator.Quote) string {
	var b strings.Builder

	b.WriteString("📅 Ready to book?\n\n")
	if q.Visible {
		fmt.Fprintf(&b, "Your estimate: %s", estimator.FormatPrice(q.Target))
		if q.PackageSelected {
			fmt.Fprintf(&b, " (%s)", q.PackageName)
		}
		b.WriteString("\n\n")
	}

	if contact.Phone != "" {
		fmt.Fprintf(&b, "📞 %s\n", contact.Phone)
	}
	if contact.Email != "" {
		fmt.Fprintf(&b, "✉️ %s\n", contact.Email)
	}
	if contact.BookingURL != "" {
		fmt.Fprintf(&b, "🌐 %s\n", contact.BookingURL)
	}

	return strings.TrimRight(b.String(), "\n")
}
