package leads

import (
	"strings"
)

const honeypotReason = "Honeypot filled"

// addressHeaders are consulted in order; the first non-empty value wins.
var addressHeaders = []string{
	"Ddg-Connecting-Ip",
	"X-Real-Ip",
	"Cf-Connecting-Ip",
}

var countryNames = map[string]string{
	"TH": "Thailand",
	"RU": "Russia",
	"US": "United States",
	"GB": "United Kingdom",
	"EN": "United States",
	"DE": "Germany",
	"FR": "France",
	"IT": "Italy",
	"ES": "Spain",
	"JP": "Japan",
	"CN": "China",
	"KR": "South Korea",
	"BR": "Brazil",
	"MX": "Mexico",
	"AR": "Argentina",
	"IN": "India",
	"AU": "Australia",
	"CA": "Canada",
}

// ExtractLead normalizes a decoded body and the request headers into a Lead.
// It does not validate; call Lead.Validate afterwards.
func ExtractLead(req SubmitRequest, headers map[string]string) *Lead {
	lead := &Lead{
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Experience: strings.TrimSpace(req.Experience),
		Message:    strings.TrimSpace(req.Message),
		Platform:   strings.TrimSpace(req.Platform),
		IPAddress:  ResolveAddress(headers),
	}
	if lead.Platform == "" {
		lead.Platform = "unknown"
	}
	lead.CountryCode, lead.CountryName = ResolveCountry(req.CountryCode, req.CountryName, headerValue(headers, "Accept-Language"))
	lead.IsSpam, lead.SpamReason = ClassifySpam(req.IsSpam, req.SpamReason, req.Honeypot)
	return lead
}

// ResolveAddress picks the caller address from proxy headers, falling back to UnknownAddress.
func ResolveAddress(headers map[string]string) string {
	for _, name := range addressHeaders {
		if v := strings.TrimSpace(headerValue(headers, name)); v != "" {
			return v
		}
	}
	if xff := headerValue(headers, "X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	return UnknownAddress
}

// ResolveCountry returns the country code and display name. An explicit code from the
// form wins and takes its name from the form or the table; otherwise the first
// Accept-Language tag is used ("th-TH" -> TH, "ru" -> RU).
func ResolveCountry(code, name, acceptLanguage string) (string, string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code != "" {
		if name == "" {
			name = CountryName(code)
		}
		return code, name
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return code, name
	}

	tag := strings.TrimSpace(strings.Split(acceptLanguage, ",")[0])
	if i := strings.IndexByte(tag, ';'); i >= 0 {
		tag = strings.TrimSpace(tag[:i])
	}
	parts := strings.Split(tag, "-")
	switch len(parts) {
	case 2:
		code = strings.ToUpper(strings.TrimSpace(parts[1]))
	case 1:
		code = strings.ToUpper(strings.TrimSpace(parts[0]))
	}
	return code, CountryName(code)
}

// CountryName maps a code to its display name; unmapped codes are returned as-is.
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}

// ClassifySpam combines the client-declared flag with the honeypot field.
func ClassifySpam(isSpam bool, reason, honeypot string) (bool, string) {
	reason = strings.TrimSpace(reason)
	if honeypot == "" {
		return isSpam, reason
	}
	return true, joinReasons(reason, honeypotReason)
}

func joinReasons(reasons ...string) string {
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if r != "" {
			parts = append(parts, r)
		}
	}
	return strings.Join(parts, ", ")
}

// headerValue looks a header up case-insensitively; proxies disagree on casing.
func headerValue(headers map[string]string, key string) string {
	if v, ok := headers[key]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
