package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
     xmlns:media="http://search.yahoo.com/mrss/"
     xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Example</title>
    <link>http://example.com</link>
    <description>Example feed</description>
    <item>
      <title>A</title>
      <link>http://x/1</link>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
      <description>Summary text</description>
      <content:encoded><![CDATA[<p>Full <img src="https://img.example.com/body.jpg"> story</p>]]></content:encoded>
      <media:content url="https://img.example.com/media.jpg" medium="image"/>
      <media:thumbnail url="https://img.example.com/thumb.jpg"/>
      <enclosure url="https://img.example.com/enclosure.jpg" type="image/jpeg" length="1"/>
    </item>
    <item>
      <title>B</title>
      <link>http://x/2</link>
      <description>Second item</description>
    </item>
  </channel>
</rss>`

func newFeedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchFeedParsesExtensionFields(t *testing.T) {
	server := newFeedServer(t, http.StatusOK, sampleRSS)

	fetcher := NewFeedFetcher(5 * time.Second)
	items, err := fetcher.FetchFeed(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "A", first.Title)
	assert.Equal(t, "http://x/1", first.Link)
	assert.Equal(t, "Summary text", first.Description)
	assert.Contains(t, first.Content, "Full")
	assert.Equal(t, "https://img.example.com/media.jpg", first.MediaContent)
	assert.Equal(t, "https://img.example.com/thumb.jpg", first.MediaThumbnail)
	assert.Equal(t, "https://img.example.com/enclosure.jpg", first.EnclosureURL)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, 2006, first.PublishedAt.Year())

	second := items[1]
	assert.Equal(t, "B", second.Title)
	assert.Empty(t, second.MediaContent)
	assert.Nil(t, second.PublishedAt)
}

func TestFetchFeedHTTPFailure(t *testing.T) {
	server := newFeedServer(t, http.StatusNotFound, "gone")

	fetcher := NewFeedFetcher(5 * time.Second)
	_, err := fetcher.FetchFeed(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestFetchFeedUnreachableHost(t *testing.T) {
	fetcher := NewFeedFetcher(time.Second)
	_, err := fetcher.FetchFeed(context.Background(), "http://127.0.0.1:1/feed")
	require.Error(t, err)

	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestFetchFeedParseFailure(t *testing.T) {
	server := newFeedServer(t, http.StatusOK, "this is not a feed document")

	fetcher := NewFeedFetcher(5 * time.Second)
	_, err := fetcher.FetchFeed(context.Background(), server.URL)
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
