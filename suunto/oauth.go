package suunto

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

const authorizePath = "/oauth/authorize"

// OAuthConfig builds the authorization-code configuration for this client.
// Suunto expects client credentials in a basic auth header.
func (c *Client) OAuthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.oauthURL + authorizePath,
			TokenURL:  c.oauthURL + tokenPath,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// AuthCodeURL returns the consent page the user has to visit.
func (c *Client) AuthCodeURL(redirectURL, state string) string {
	return c.OAuthConfig(redirectURL).AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for the first token pair.
func (c *Client) ExchangeCode(ctx context.Context, redirectURL, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.OAuthConfig(redirectURL).Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			msg := providerMessage(re.Response.Header.Get("Content-Type"), re.Body)
			return nil, fmt.Errorf("code exchange: %w", &APIError{StatusCode: re.Response.StatusCode, Message: msg})
		}
		return nil, fmt.Errorf("code exchange: %w: %v", ErrNetwork, err)
	}

	c.logger.Info("authorization code exchanged", "refresh_token_present", tok.RefreshToken != "")
	return tok, nil
}
