package leads

import (
	"strings"
	"testing"
)

func TestFormatNotificationContainsFields(t *testing.T) {
	lead := &Lead{
		FirstName:   "Ivan",
		LastName:    "Petrov",
		Email:       "ivan@example.com",
		Phone:       "++66812345678",
		CountryCode: "TH",
		CountryName: "Thailand",
		IPAddress:   "198.51.100.7",
		Platform:    "web",
	}
	msg := FormatNotification(lead)

	for _, want := range []string{
		"NEW LEAD",
		"<code>Ivan</code>",
		"<code>Petrov</code>",
		"<code>ivan@example.com</code>",
		"+<code>66812345678</code>",
		"Thailand (TH)",
		"<code>198.51.100.7</code>",
		"Platform: web",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "SPAM") {
		t.Errorf("clean lead should not be marked spam:\n%s", msg)
	}
	if strings.Contains(msg, "Experience") || strings.Contains(msg, "Message:") {
		t.Errorf("empty optional fields should be omitted:\n%s", msg)
	}
}

func TestFormatNotificationSpamAndOptionalFields(t *testing.T) {
	lead := &Lead{
		FirstName:  "Bot",
		LastName:   "Bot",
		Email:      "b@example.com",
		Phone:      "1",
		Experience: "3 years",
		Message:    "call me",
		IsSpam:     true,
		SpamReason: "Honeypot filled",
	}
	msg := FormatNotification(lead)

	for _, want := range []string{"⚠️ SPAM", "Experience: 3 years", "Message: call me", "Spam reason: Honeypot filled"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q:\n%s", want, msg)
		}
	}
}

func TestFormatNotificationSpamWithoutReason(t *testing.T) {
	msg := FormatNotification(&Lead{FirstName: "a", LastName: "b", Email: "c", Phone: "1", IsSpam: true})
	if !strings.Contains(msg, "SPAM") {
		t.Fatalf("expected spam marker:\n%s", msg)
	}
	if strings.Contains(msg, "Spam reason") {
		t.Fatalf("reason line should be omitted when empty:\n%s", msg)
	}
}

func TestFormatNotificationEscapesMarkup(t *testing.T) {
	lead := &Lead{
		FirstName:  `</code><a href="https://evil.example">click</a>`,
		LastName:   "O'Neil & Sons",
		Email:      "x@example.com",
		Phone:      "1",
		Platform:   "<b>web</b>",
		Message:    "*bold* _italic_ `code`",
		IPAddress:  UnknownAddress,
		SpamReason: "",
	}
	msg := FormatNotification(lead)

	if strings.Contains(msg, "<a ") || strings.Contains(msg, "<b>") || strings.Contains(msg, "</code><") {
		t.Fatalf("user input leaked markup:\n%s", msg)
	}
	if !strings.Contains(msg, "&lt;/code&gt;&lt;a href=") {
		t.Fatalf("expected escaped anchor:\n%s", msg)
	}
	if !strings.Contains(msg, "O&#39;Neil &amp; Sons") {
		t.Fatalf("expected escaped ampersand and quote:\n%s", msg)
	}
	if strings.Count(msg, "<code>") != strings.Count(msg, "</code>") {
		t.Fatalf("unbalanced code tags:\n%s", msg)
	}
}
