package nebula

import (
	"slices"
	"time"

	"github.com/araddon/dateparse"

	"github.com/handiism/nebula-downloader/internal/model"
	"github.com/handiism/nebula-downloader/internal/nebula/dto"
)

// toEpisode converts the API representation into the model.
//
// A missing title becomes the empty string. Facets are derived from the
// attribute list: each premium attribute sets its facet, and an attribute
// list without any premium attribute marks the episode as regular. An
// episode without an attribute list is left unclassified.
func toEpisode(j dto.JSONEpisode) *model.Episode {
	ep := &model.Episode{
		ID:           j.ID,
		Slug:         j.Slug,
		Description:  j.Description,
		ChannelSlug:  j.ChannelSlug,
		ChannelTitle: j.ChannelTitle,
		PublishedAt:  parseTime(j.PublishedAt),
		Duration:     j.Duration,
		ShareURL:     j.ShareURL,
		ThumbnailURL: j.Images.Thumbnail.Src,
	}
	if j.Title != nil {
		ep.Title = *j.Title
	}

	if j.Attributes != nil {
		ep.Facets = model.Facets{
			First:    slices.Contains(j.Attributes, dto.AttributeNebulaFirst),
			Plus:     slices.Contains(j.Attributes, dto.AttributeNebulaPlus),
			Original: slices.Contains(j.Attributes, dto.AttributeNebulaOriginal),
		}
		ep.Facets.Regular = !ep.Facets.First && !ep.Facets.Plus && !ep.Facets.Original
	}

	return ep
}

func toChannelDetails(j dto.JSONChannel) model.ChannelDetails {
	return model.ChannelDetails{
		ID:          j.ID,
		Slug:        j.Slug,
		Title:       j.Title,
		Description: j.Description,
		Website:     j.Website,
		ShareURL:    j.ShareURL,
		AvatarURL:   j.Images.Avatar.Src,
		BannerURL:   j.Images.Banner.Src,
	}
}

func toStreamingInfo(j dto.JSONStream) *model.StreamingInfo {
	info := &model.StreamingInfo{
		Manifest:  j.Manifest,
		Subtitles: make([]model.Subtitle, 0, len(j.Subtitles)),
	}
	for _, s := range j.Subtitles {
		if s.URL == "" {
			continue
		}
		info.Subtitles = append(info.Subtitles, model.Subtitle{
			LanguageCode: s.LanguageCode,
			URL:          s.URL,
		})
	}
	return info
}

// parseTime accepts the API's RFC 3339 timestamps as well as the looser
// formats seen in older listings. Unparseable values yield the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
