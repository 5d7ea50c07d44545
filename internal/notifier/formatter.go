package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/matt-tibbett/market-dashboard/internal/model"
)

// FormatSignalAlert summarizes the directional signals of a run into a
// Telegram message. Returns the empty string when no instrument signaled.
func FormatSignalAlert(groups []model.GroupResult) string {
	var shorts, longs []string
	for _, g := range groups {
		for _, r := range g.Rows {
			entry := fmt.Sprintf("%s (%s)", r.Asset, r.Symbol)
			switch r.Signal {
			case model.SignalShort:
				shorts = append(shorts, entry)
			case model.SignalLong:
				longs = append(longs, entry)
			}
		}
	}
	if len(shorts) == 0 && len(longs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Market signals</b> | %s\n", time.Now().UTC().Format("2006-01-02")))
	if len(shorts) > 0 {
		b.WriteString("\n🔴 <b>SHORT</b>\n")
		for _, s := range shorts {
			b.WriteString("  • " + s + "\n")
		}
	}
	if len(longs) > 0 {
		b.WriteString("\n🟢 <b>LONG</b>\n")
		for _, s := range longs {
			b.WriteString("  • " + s + "\n")
		}
	}
	return b.String()
}
