package twitter

import (
	"net/url"
	"strings"

	"tagtally/pkg/config"
)

// NormalizeHashtag trims surrounding whitespace and one leading '#'
func NormalizeHashtag(tag string) string {
	tag = strings.TrimSpace(tag)
	return strings.TrimPrefix(tag, "#")
}

// SearchURL substitutes the normalized, query-escaped hashtag into template
// wherever config.HashtagPlaceholder appears.
func SearchURL(template, hashtag string) string {
	escaped := url.QueryEscape(NormalizeHashtag(hashtag))
	return strings.ReplaceAll(template, config.HashtagPlaceholder, escaped)
}
