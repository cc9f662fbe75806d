package helpers

import (
	"errors"
	"net/url"
	"path"
	"strings"
)

var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"utm_id":       {},
	"gclid":        {},
	"dclid":        {},
	"fbclid":       {},
	"msclkid":      {},
	"igshid":       {},
}

// CanonicalURL normalises a URL for use as a deduplication key: lowercased
// scheme and host, https default for schemeless input, default ports and
// fragments removed, path cleaned, tracking parameters stripped and the
// remaining query re-encoded deterministically.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" && parsed.Host == "" {
		if strings.HasPrefix(raw, "//") {
			parsed, err = url.Parse("https:" + raw)
		} else {
			parsed, err = url.Parse("https://" + raw)
		}
		if err != nil {
			return "", err
		}
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)

	host := strings.ToLower(parsed.Host)
	if host == "" {
		return "", errors.New("url missing host")
	}
	switch parsed.Scheme {
	case "http":
		host = strings.TrimSuffix(host, ":80")
	case "https":
		host = strings.TrimSuffix(host, ":443")
	}
	parsed.Host = host

	hadTrailingSlash := strings.HasSuffix(parsed.Path, "/") && parsed.Path != "/"
	cleaned := path.Clean(parsed.Path)
	if cleaned == "." || cleaned == "" {
		cleaned = "/"
	}
	if hadTrailingSlash && cleaned != "/" {
		cleaned += "/"
	}
	parsed.Path = cleaned

	parsed.Fragment = ""
	query := parsed.Query()
	for key := range query {
		if _, drop := trackingParams[strings.ToLower(key)]; drop {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

// Hostname extracts the host from a URL for source attribution, tolerating
// malformed input by returning it unchanged.
func Hostname(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return raw
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}
