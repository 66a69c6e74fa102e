package nebula

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/handiism/nebula-downloader/internal/http"
	"github.com/handiism/nebula-downloader/internal/model"
	"github.com/handiism/nebula-downloader/internal/nebula/dto"
)

// API errors.
var (
	// ErrUnauthorized is returned when the API rejects the credentials.
	ErrUnauthorized = errors.New("nebula: unauthorized")

	// ErrNotFound is returned when a channel or episode does not exist.
	ErrNotFound = errors.New("nebula: not found")

	// ErrTooManyPages is returned when a listing keeps paginating past maxListingPages.
	ErrTooManyPages = errors.New("nebula: listing did not terminate")
)

// maxListingPages bounds a channel's episode listing.
const maxListingPages = 500

// Client talks to the Nebula content API.
//
// Client provides the catalog operations of the downloader:
//   - ChannelContent: a channel's details and complete episode list
//   - ChannelSlugs: channel discovery from the video feed
//   - StreamingInfo: an episode's manifest and subtitles
type Client struct {
	http    *http.Client
	auth    *Authorizer
	content string
	logger  zerolog.Logger
}

// NewClient creates a Client for the content API at contentBase.
func NewClient(httpClient *http.Client, auth *Authorizer, contentBase string, logger zerolog.Logger) *Client {
	return &Client{
		http:    httpClient,
		auth:    auth,
		content: strings.TrimRight(contentBase, "/"),
		logger:  logger,
	}
}

// ChannelContent fetches a channel's details and every episode, following
// pagination until the listing is exhausted. Episodes keep API order.
func (c *Client) ChannelContent(ctx context.Context, channelSlug string) (*model.ChannelContent, error) {
	var channel dto.JSONChannel
	if err := c.getJSON(ctx, c.content+"/video_channels/"+url.PathEscape(channelSlug)+"/", &channel); err != nil {
		return nil, fmt.Errorf("channel %s: %w", channelSlug, err)
	}

	content := &model.ChannelContent{Details: toChannelDetails(channel)}

	next := c.content + "/video_channels/" + url.PathEscape(channelSlug) + "/video_episodes/"
	seen := make(map[string]bool)
	for pages := 0; next != ""; pages++ {
		if pages >= maxListingPages || seen[next] {
			return nil, fmt.Errorf("channel %s episodes: %w", channelSlug, ErrTooManyPages)
		}
		seen[next] = true

		var page dto.JSONEpisodePage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("channel %s episodes: %w", channelSlug, err)
		}
		for _, ep := range page.Results {
			content.Episodes = append(content.Episodes, toEpisode(ep))
		}
		next = deref(page.Next)
	}

	c.logger.Debug().
		Str("channel", channelSlug).
		Int("episodes", len(content.Episodes)).
		Msg("fetched channel content")

	return content, nil
}

// ChannelSlugs discovers channels from the episode feed, optionally
// restricted to a category. At most maxPages pages are read. Slugs are
// returned once each, in first-seen order.
func (c *Client) ChannelSlugs(ctx context.Context, category string, maxPages int) ([]string, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	next := c.content + "/video_episodes/"
	if category != "" {
		next += "?" + url.Values{"category": {category}}.Encode()
	}

	var slugs []string
	seen := make(map[string]bool)
	for pages := 0; next != "" && pages < maxPages; pages++ {
		var page dto.JSONEpisodePage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("video feed: %w", err)
		}
		for _, ep := range page.Results {
			if ep.ChannelSlug == "" || seen[ep.ChannelSlug] {
				continue
			}
			seen[ep.ChannelSlug] = true
			slugs = append(slugs, ep.ChannelSlug)
		}
		next = deref(page.Next)
	}

	c.logger.Debug().Str("category", category).Strs("channels", slugs).Msg("discovered channels")
	return slugs, nil
}

// StreamingInfo resolves the manifest and subtitles of one episode.
func (c *Client) StreamingInfo(ctx context.Context, episodeSlug string) (*model.StreamingInfo, error) {
	var stream dto.JSONStream
	if err := c.getJSON(ctx, c.content+"/video_episodes/"+url.PathEscape(episodeSlug)+"/stream/", &stream); err != nil {
		return nil, fmt.Errorf("stream %s: %w", episodeSlug, err)
	}
	if stream.Manifest == "" {
		return nil, fmt.Errorf("stream %s: empty manifest", episodeSlug)
	}
	return toStreamingInfo(stream), nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	header, err := c.auth.Header(ctx)
	if err != nil {
		return err
	}
	c.logger.Debug().Str("url", rawURL).Msg("GET")
	return classify(c.http.GetJSON(ctx, rawURL, header, out))
}

// classify maps HTTP status errors onto the package sentinels, keeping the
// original error in the chain.
func classify(err error) error {
	var se *http.StatusError
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code {
	case nethttp.StatusUnauthorized, nethttp.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case nethttp.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
