package dispatcher

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chative-ordering/orderbot/internal/agent/model"
)

const (
	maxListRows     = 10
	maxRowTitle     = 24
	maxRowDesc      = 72
	maxMatchRowDesc = 50
	divider         = "━━━━━━━━━━━━━━━"
)

var categoryEmojis = map[string]string{
	"momos":     "🥟",
	"noodles":   "🍜",
	"rice":      "🍚",
	"beverages": "☕",
}

var statusEmojis = map[string]string{
	"created":   "🆕",
	"confirmed": "✅",
	"preparing": "👨‍🍳",
	"delivered": "📦",
	"completed": "✔️",
	"cancelled": "❌",
}

func categoryEmoji(category string) string {
	if e, ok := categoryEmojis[category]; ok {
		return e
	}
	return "🍽️"
}

func (d *Dispatcher) money(v float64) string {
	return d.config.Currency + strconv.FormatFloat(v, 'f', -1, 64)
}

func (d *Dispatcher) fallbackOrderID() string {
	return fmt.Sprintf("%s%06d", d.config.OrderIDPrefix, d.now().UnixMilli()%1_000_000)
}

func (d *Dispatcher) lineText(l model.CartLine) string {
	return fmt.Sprintf("• %s x%d - %s", l.Name, l.Quantity, d.money(l.Subtotal()))
}

func (d *Dispatcher) linesText(lines []model.CartLine) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, d.lineText(l))
	}
	return strings.Join(out, "\n")
}

func bullets(names []string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, "• "+n)
	}
	return strings.Join(out, "\n")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func truncate(s string, max int) string {
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	return string(rs[:max])
}
