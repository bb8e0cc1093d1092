package sw

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/roessland/syncwich/suunto"
)

// AuthService handles authentication and session management
type AuthService struct {
	client SuuntoClient
	tokens *TokenStore
	logger Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(client SuuntoClient, tokens *TokenStore, logger Logger) *AuthService {
	return &AuthService{
		client: client,
		tokens: tokens,
		logger: logger,
	}
}

// Open gets an access token for this session by exchanging the stored
// refresh token. The new tokens are persisted before Open returns; on any
// error the stored pair is left as it was.
func (a *AuthService) Open(ctx context.Context) error {
	refreshToken := a.tokens.RefreshToken()
	if refreshToken == "" {
		return fmt.Errorf("%w: no authorisation token configured", suunto.ErrUnauthenticated)
	}

	a.logger.Debug("getting access token for this session")

	tok, err := a.client.RefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	if err := a.StoreToken(tok); err != nil {
		return err
	}

	a.logger.Info("opened Suunto session", "user", a.tokens.User())
	return nil
}

// StoreToken saves the non-empty parts of tok and persists them. On a
// failed save the stored pair is left as it was.
func (a *AuthService) StoreToken(tok *oauth2.Token) error {
	user, _ := tok.Extra("user").(string)

	changed, err := a.tokens.Update(TokenPair{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}, user)
	if err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}

	if !changed {
		a.logger.Warn("token response carried no tokens, keeping previous values")
	}
	return nil
}

// Close ends the session. Suunto has nothing to tear down.
func (a *AuthService) Close() error {
	a.logger.Debug("closing Suunto session")
	return nil
}
