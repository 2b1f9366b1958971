package ingestion

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"
	"github.com/newslinemedia/technews/models"
)

const excerptMaxLength = 200

var (
	imgSrcPattern       = regexp.MustCompile(`(?i)<img[^>]+src=["']?([^"'\s>]+)`)
	nonAlphanumericRuns = regexp.MustCompile(`[^a-z0-9]+`)
)

// Normalizer converts raw feed items into import-ready articles. Feed-supplied
// markup is untrusted and is sanitized before it ever reaches the store.
type Normalizer struct {
	htmlPolicy      *bluemonday.Policy
	stripTagsPolicy *bluemonday.Policy
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		htmlPolicy:      bluemonday.UGCPolicy(),
		stripTagsPolicy: bluemonday.StripTagsPolicy(),
	}
}

// ExtractImage picks the best image URL for an item. Explicitly tagged media
// references win over scraping img tags out of the markup, which is a last
// resort. Returns "" when the item carries no usable image reference.
func (n *Normalizer) ExtractImage(item RawFeedItem) string {
	if item.MediaContent != "" {
		return item.MediaContent
	}
	if item.MediaThumbnail != "" {
		return item.MediaThumbnail
	}
	if item.EnclosureURL != "" {
		return item.EnclosureURL
	}
	if src := firstImgSrc(item.Content); src != "" {
		return src
	}
	return firstImgSrc(item.Description)
}

func firstImgSrc(markup string) string {
	if markup == "" {
		return ""
	}
	match := imgSrcPattern.FindStringSubmatch(markup)
	if match == nil {
		return ""
	}
	return match[1]
}

// GenerateSlug derives a URL-safe slug from a title: lowercase, every run of
// non-alphanumeric characters collapsed to a single hyphen, outer hyphens
// trimmed. Uniqueness is not enforced for aggregated articles.
func (n *Normalizer) GenerateSlug(title string) string {
	slug := nonAlphanumericRuns.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// BuildExcerpt strips all markup from content and hard-truncates the plain
// text to 200 characters.
func (n *Normalizer) BuildExcerpt(content string) string {
	text := n.stripTagsPolicy.Sanitize(content)
	text = strings.TrimSpace(html.UnescapeString(text))
	runes := []rune(text)
	if len(runes) > excerptMaxLength {
		return string(runes[:excerptMaxLength])
	}
	return text
}

// Normalize composes a pre-persistence article from one raw feed item. The ID
// and server-assigned timestamps are filled in at persistence time.
func (n *Normalizer) Normalize(item RawFeedItem, feedName string, category models.Category) models.Article {
	content := item.Content
	if content == "" {
		content = item.Description
	}
	sanitized := n.htmlPolicy.Sanitize(content)

	return models.Article{
		Title:         strings.TrimSpace(item.Title),
		Slug:          n.GenerateSlug(item.Title),
		Content:       sanitized,
		Excerpt:       n.BuildExcerpt(content),
		Category:      category,
		Author:        feedName + " (Aggregated)",
		FeaturedImage: n.ExtractImage(item),
		Status:        models.ArticleStatusPublished,
		Featured:      false,
		SourceURL:     CanonicalizeSourceURL(item.Link),
		SourceName:    feedName,
		IsAggregated:  true,
		PublishedAt:   n.publishedAt(item),
		Views:         0,
	}
}

// publishedAt resolves the publication time, falling back to a permissive
// parse of the raw date string and finally to the import time. News feeds are
// notoriously loose about date formats.
func (n *Normalizer) publishedAt(item RawFeedItem) time.Time {
	if item.PublishedAt != nil {
		return item.PublishedAt.UTC()
	}
	if item.Published != "" {
		if parsed, err := dateparse.ParseAny(item.Published); err == nil {
			return parsed.UTC()
		}
	}
	return time.Now().UTC()
}
