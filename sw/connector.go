package sw

import (
	"context"
	"time"
)

// Connector bundles the Suunto services of one configured account. The
// hosting application builds it during startup and drives it through Open,
// List and the downloader.
type Connector struct {
	Tokens     *TokenStore
	Auth       *AuthService
	Lister     *ActivityLister
	Downloader *ActivityDownloader
}

// NewConnector wires the services around client and settings. Entry names
// are rendered in loc, time.Local if nil.
func NewConnector(client SuuntoClient, settings Settings, logger Logger, loc *time.Location) *Connector {
	tokens := NewTokenStore(settings)
	return &Connector{
		Tokens:     tokens,
		Auth:       NewAuthService(client, tokens, logger),
		Lister:     NewActivityLister(client, tokens, logger, loc),
		Downloader: NewActivityDownloader(client, tokens, logger),
	}
}

// Open refreshes the access token for this session
func (c *Connector) Open(ctx context.Context) error {
	return c.Auth.Open(ctx)
}

// Close ends the session
func (c *Connector) Close() error {
	return c.Auth.Close()
}
