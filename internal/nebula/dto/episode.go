package dto

// JSONEpisode is a video episode as returned by the content API.
//
// Attributes is nil when the API omits the field entirely; that is how an
// unclassified episode is told apart from a regular one.
type JSONEpisode struct {
	ID           string            `json:"id"`
	Slug         string            `json:"slug"`
	Title        *string           `json:"title"`
	Description  string            `json:"description"`
	ChannelSlug  string            `json:"channel_slug"`
	ChannelTitle string            `json:"channel_title"`
	PublishedAt  string            `json:"published_at"`
	Duration     int               `json:"duration"`
	ShareURL     string            `json:"share_url"`
	Attributes   []string          `json:"attributes"`
	Images       JSONEpisodeImages `json:"images"`
}

// JSONEpisodeImages holds the image variants of an episode.
type JSONEpisodeImages struct {
	Thumbnail JSONImage `json:"thumbnail"`
}

// JSONImage is a single image reference.
type JSONImage struct {
	Src    string `json:"src"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// JSONEpisodePage is one page of a paginated episode listing.
type JSONEpisodePage struct {
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  []JSONEpisode `json:"results"`
}

// Episode attribute values that map to filter facets.
const (
	AttributeNebulaFirst    = "is_nebula_first"
	AttributeNebulaPlus     = "is_nebula_plus"
	AttributeNebulaOriginal = "is_nebula_original"
)
