package ingestion

import (
	"net/url"
	"strings"
)

// Query parameters that only carry click-tracking state. They never change
// which story a URL identifies, so they are excluded from the dedup key.
var trackingParams = map[string]bool{
	"fbclid":       true,
	"gclid":        true,
	"mc_cid":       true,
	"mc_eid":       true,
	"utm_campaign": true,
	"utm_content":  true,
	"utm_medium":   true,
	"utm_source":   true,
	"utm_term":     true,
}

// CanonicalizeSourceURL reduces a feed item link to the canonical form used as
// the dedup key: lowercased scheme and host, default ports and trailing
// slashes stripped, tracking parameters removed. The same canonicalization is
// applied before storage and before every existence check, so trivially
// different spellings of the same link cannot produce duplicate imports.
// Unparseable input is returned unchanged.
func CanonicalizeSourceURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return trimmed
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) ||
		(u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Host[:strings.LastIndex(u.Host, ":")]
	}

	u.Path = strings.TrimRight(u.Path, "/")

	if u.RawQuery != "" {
		query := u.Query()
		for param := range query {
			if trackingParams[strings.ToLower(param)] {
				query.Del(param)
			}
		}
		u.RawQuery = query.Encode()
	}

	u.Fragment = ""
	return u.String()
}
