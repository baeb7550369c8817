package leads

import (
	"fmt"
	"html"
	"strings"
)

// ParseMode is the Telegram formatting mode FormatNotification produces.
const ParseMode = "HTML"

// FormatNotification renders the operator message. Every user-supplied value is
// HTML-escaped so it cannot open or close markup in the chat message.
func FormatNotification(lead *Lead) string {
	var b strings.Builder

	b.WriteString("🚀 NEW LEAD")
	if lead.IsSpam {
		b.WriteString(" ⚠️ SPAM")
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "👤 First name: <code>%s</code>\n", esc(lead.FirstName))
	fmt.Fprintf(&b, "👤 Last name: <code>%s</code>\n", esc(lead.LastName))
	fmt.Fprintf(&b, "📧 Email: <code>%s</code>\n", esc(lead.Email))
	fmt.Fprintf(&b, "📱 Phone: +<code>%s</code>\n", esc(lead.DisplayPhone()))
	fmt.Fprintf(&b, "🌍 Country: %s (%s)\n", esc(lead.CountryName), esc(lead.CountryCode))
	fmt.Fprintf(&b, "🌐 IP: <code>%s</code>\n", esc(lead.IPAddress))
	fmt.Fprintf(&b, "🌐 Platform: %s", esc(lead.Platform))

	if lead.Experience != "" {
		fmt.Fprintf(&b, "\n💼 Experience: %s", esc(lead.Experience))
	}
	if lead.Message != "" {
		fmt.Fprintf(&b, "\n💬 Message: %s", esc(lead.Message))
	}
	if lead.IsSpam && lead.SpamReason != "" {
		fmt.Fprintf(&b, "\n\n🚨 Spam reason: %s", esc(lead.SpamReason))
	}
	return b.String()
}

func esc(s string) string {
	return html.EscapeString(s)
}
