package locate

import (
	"context"
	"strings"

	"github.com/google/go-github/v29/github"
	"golang.org/x/oauth2"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/internal/httpclient"
)

// NewClient returns a GitHub client authenticating with token. apiURL
// overrides the API endpoint (GitHub Enterprise or tests); empty keeps
// api.github.com.
func NewClient(ctx context.Context, token, apiURL, userAgent string) (*github.Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.ErrMissingToken
	}
	base := httpclient.New(httpclient.Options{AllowedSchemes: []string{"https", "http"}})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	client := github.NewClient(
		oauth2.NewClient(ctx,
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		),
	)
	if userAgent != "" {
		client.UserAgent = userAgent
	}
	if apiURL != "" {
		u, err := httpclient.ParseBase(apiURL)
		if err != nil {
			return nil, errors.Wrap(err, "sources.github.api_url")
		}
		client.BaseURL = u
	}
	return client, nil
}
