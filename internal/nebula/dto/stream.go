package dto

// JSONStream is the streaming information of one episode.
type JSONStream struct {
	Manifest  string         `json:"manifest"`
	Subtitles []JSONSubtitle `json:"subtitles"`
}

// JSONSubtitle is one subtitle track of a stream.
type JSONSubtitle struct {
	LanguageCode string `json:"language_code"`
	URL          string `json:"url"`
}

// JSONAuthorization is the response of the authorization exchange.
type JSONAuthorization struct {
	Token string `json:"token"`
}
