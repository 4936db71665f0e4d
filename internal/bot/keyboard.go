package bot

import (
	"fmt"
	"strings"

	"detailing-bot/internal/catalog"
	"detailing-bot/internal/estimator"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data prefixes for the estimator keyboard.
const (
	callbackService = "svc"
	callbackPackage = "pkg"
	callbackClear   = "clear"
	callbackBook    = "book"
)

func serviceData(id string) string { return callbackService + ":" + id }
func packageData(id string) string { return callbackPackage + ":" + id }

// parseCallback splits "kind:id". Clear and book carry no id.
func parseCallback(data string) (kind, id string, ok bool) {
	switch data {
	case callbackClear, callbackBook:
		return data, "", true
	}

	kind, id, found := strings.Cut(data, ":")
	if !found || id == "" {
		return "", "", false
	}
	switch kind {
	case callbackService, callbackPackage:
		return kind, id, true
	}
	return "", "", false
}

// estimatorKeyboard lists every service and package, ticking the selected ones.
func estimatorKeyboard(c *catalog.Catalog, sel estimator.Selection) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, s := range c.Services() {
		label := fmt.Sprintf("%s %s · %s", checkbox(sel.Has(s.ID)), s.Name, estimator.FormatPrice(s.Price))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, serviceData(s.ID)),
		))
	}

	for _, p := range c.Packages() {
		label := fmt.Sprintf("%s 📦 %s · %s", checkbox(sel.Package == p.ID), p.Name, estimator.FormatPrice(p.Price))
		if p.Popular {
			label += " ★"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, packageData(p.ID)),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🧹 Clear", callbackClear),
		tgbotapi.NewInlineKeyboardButtonData("📅 Book now", callbackBook),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func checkbox(on bool) string {
	if on {
		return "✅"
	}
	return "▫️"
}
