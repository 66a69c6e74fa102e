package nebula

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/handiism/nebula-downloader/internal/http"
	"github.com/handiism/nebula-downloader/internal/nebula/dto"
)

// Authorizer supplies the Authorization header for content API calls.
//
// When a pre-resolved header is configured it is used as-is. Otherwise the
// user API token is exchanged once for a bearer token and the resulting
// header is cached for the rest of the run.
type Authorizer struct {
	client    *http.Client
	usersBase string
	userToken string
	logger    zerolog.Logger

	mu     sync.Mutex
	header string
}

// NewAuthorizer creates an Authorizer. header may be empty, in which case
// userToken is exchanged against usersBase on first use.
func NewAuthorizer(client *http.Client, usersBase, userToken, header string, logger zerolog.Logger) *Authorizer {
	return &Authorizer{
		client:    client,
		usersBase: strings.TrimRight(usersBase, "/"),
		userToken: userToken,
		header:    strings.TrimSpace(header),
		logger:    logger,
	}
}

// Header returns the full Authorization header value, e.g. "Bearer eyJ...".
func (a *Authorizer) Header(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.header != "" {
		return a.header, nil
	}
	if a.userToken == "" {
		return "", ErrUnauthorized
	}

	a.logger.Debug().Msg("exchanging user token for authorization header")

	var out dto.JSONAuthorization
	url := a.usersBase + "/api/v1/authorization/"
	if err := a.client.PostJSON(ctx, url, "Token "+a.userToken, struct{}{}, &out); err != nil {
		return "", fmt.Errorf("authorize: %w", classify(err))
	}
	if out.Token == "" {
		return "", fmt.Errorf("authorize: %w", errors.New("empty token in response"))
	}

	a.header = "Bearer " + out.Token
	return a.header, nil
}
