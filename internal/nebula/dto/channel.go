package dto

// JSONChannel is a video channel as returned by the content API.
type JSONChannel struct {
	ID          string            `json:"id"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Website     string            `json:"website"`
	ShareURL    string            `json:"share_url"`
	Images      JSONChannelImages `json:"images"`
}

// JSONChannelImages holds the image variants of a channel.
type JSONChannelImages struct {
	Avatar JSONImage `json:"avatar"`
	Banner JSONImage `json:"banner"`
}
