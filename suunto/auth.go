package suunto

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const tokenPath = "/oauth/token"

// tokenResponse is the body of a token endpoint answer. Every field is
// optional; Suunto does not always rotate the refresh token.
type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    json.Number `json:"expires_in"`
	User         string      `json:"user"`
}

// RefreshToken exchanges a refresh token for a new token pair.
//
// The returned token may have an empty AccessToken or RefreshToken when the
// service omitted it; callers keep their previous value in that case.
// The Suunto user name, when present, is available as tok.Extra("user").
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	data := url.Values{}
	data.Set("refresh_token", refreshToken)
	data.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthURL+tokenPath, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, body, err := c.doRequest(req)
	if err != nil {
		return nil, fmt.Errorf("token refresh: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("token refresh: %w: %v", ErrParse, err)
	}

	c.logger.Debug("token refreshed",
		"status", resp.StatusCode,
		"access_token_present", tr.AccessToken != "",
		"refresh_token_rotated", tr.RefreshToken != "")

	return tr.token(time.Now()), nil
}

func (tr tokenResponse) token(now time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
	}
	if secs, err := tr.ExpiresIn.Int64(); err == nil && secs > 0 {
		tok.Expiry = now.Add(time.Duration(secs) * time.Second)
	}
	if tr.User != "" {
		tok = tok.WithExtra(map[string]any{"user": tr.User})
	}
	return tok
}
