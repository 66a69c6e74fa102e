// Package nebula provides a client for the Nebula content and users APIs.
//
// The package handles:
//
//  1. Exchanging a user API token for an Authorization header (Authorizer)
//  2. Listing a channel's details and all of its episodes
//  3. Discovering channels from the episode feed
//  4. Resolving an episode's streaming manifest and subtitles
//
// # Usage
//
//	httpClient := http.NewClient(settings.API.UserAgent, settings.API.Timeout)
//	auth := nebula.NewAuthorizer(httpClient, usersURL, token, "", logger)
//	client := nebula.NewClient(httpClient, auth, contentURL, logger)
//
//	content, err := client.ChannelContent(ctx, "my-channel")
//	if errors.Is(err, nebula.ErrNotFound) {
//	    fmt.Println("no such channel")
//	}
//
// # Episode facets
//
// Episodes carry an "attributes" list. is_nebula_first, is_nebula_plus and
// is_nebula_original map to the corresponding facets; a list with none of
// them marks a regular upload. Episodes without the list are unclassified.
package nebula
