package blogger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogbot/config"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	bloggerapi "google.golang.org/api/blogger/v3"
)

// ErrNoAccessToken means the token endpoint answered without an access_token
var ErrNoAccessToken = errors.New("token response missing access_token")

// NewTokenSource exchanges the configured refresh token for access tokens.
// Tokens are cached and refreshed only once they expire.
func NewTokenSource(ctx context.Context, cfg config.BlogConfig, logger *logrus.Logger) oauth2.TokenSource {
	endpoint := google.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       []string{bloggerapi.BloggerScope},
	}

	src := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	return &checkedTokenSource{src: src, logger: logger}
}

// checkedTokenSource classifies token failures and logs the raw endpoint response
type checkedTokenSource struct {
	src    oauth2.TokenSource
	logger *logrus.Logger
}

func (s *checkedTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			fields := logrus.Fields{"body": string(rerr.Body)}
			if rerr.Response != nil {
				fields["status"] = rerr.Response.StatusCode
			}
			s.logger.WithFields(fields).Error("Token endpoint rejected the refresh token")
			return nil, fmt.Errorf("token refresh failed: %w", err)
		}
		if strings.Contains(err.Error(), "missing access_token") {
			s.logger.WithError(err).Error("Token endpoint response had no access_token")
			return nil, fmt.Errorf("%w: %v", ErrNoAccessToken, err)
		}
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}

	if tok == nil || tok.AccessToken == "" {
		s.logger.Error("Token endpoint response had no access_token")
		return nil, ErrNoAccessToken
	}
	return tok, nil
}
