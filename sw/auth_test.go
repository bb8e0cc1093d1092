package sw

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/roessland/syncwich/suunto"
)

func TestAuthService_Open_NoRefreshToken(t *testing.T) {
	// Arrange - nothing stored yet
	mockClient := &MockSuuntoClient{}
	settings := NewMockSettings(nil)
	authService := NewAuthService(mockClient, NewTokenStore(settings), &MockLogger{})

	// Act
	err := authService.Open(context.Background())

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, suunto.ErrUnauthenticated)
	assert.Empty(t, mockClient.RefreshCalls, "no request may be issued without a refresh token")
	assert.Zero(t, settings.SaveCalls)
}

func TestAuthService_Open_StoresAndPersistsBothTokens(t *testing.T) {
	// Arrange
	mockClient := &MockSuuntoClient{
		Token: (&oauth2.Token{AccessToken: "access-2", RefreshToken: "refresh-2"}).
			WithExtra(map[string]any{"user": "runner42"}),
	}
	settings := NewMockSettings(map[string]string{SettingRefreshToken: "refresh-1"})
	tokens := NewTokenStore(settings)
	authService := NewAuthService(mockClient, tokens, &MockLogger{})

	// Act
	err := authService.Open(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"refresh-1"}, mockClient.RefreshCalls)
	assert.Equal(t, TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, tokens.Get())
	assert.Equal(t, "runner42", tokens.User())

	// Persisted before Open returned
	require.Equal(t, 1, settings.SaveCalls)
	assert.Equal(t, "access-2", settings.Saved[SettingAccessToken])
	assert.Equal(t, "refresh-2", settings.Saved[SettingRefreshToken])
}

func TestAuthService_Open_AccessTokenOnlyKeepsRefreshToken(t *testing.T) {
	// Arrange - service does not rotate the refresh token
	mockClient := &MockSuuntoClient{Token: &oauth2.Token{AccessToken: "access-2"}}
	settings := NewMockSettings(map[string]string{
		SettingAccessToken:  "access-1",
		SettingRefreshToken: "refresh-1",
	})
	tokens := NewTokenStore(settings)
	authService := NewAuthService(mockClient, tokens, &MockLogger{})

	// Act
	err := authService.Open(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, TokenPair{AccessToken: "access-2", RefreshToken: "refresh-1"}, tokens.Get())
	assert.Equal(t, "refresh-1", settings.Saved[SettingRefreshToken])
}

func TestAuthService_Open_EmptyResponseKeepsPair(t *testing.T) {
	// Arrange - well-formed JSON without any token
	mockClient := &MockSuuntoClient{Token: &oauth2.Token{}}
	settings := NewMockSettings(map[string]string{
		SettingAccessToken:  "access-1",
		SettingRefreshToken: "refresh-1",
	})
	tokens := NewTokenStore(settings)
	mockLogger := &MockLogger{}
	authService := NewAuthService(mockClient, tokens, mockLogger)

	// Act
	err := authService.Open(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}, tokens.Get())
	assert.Len(t, mockLogger.WarnCalls, 1)
}

func TestAuthService_Open_ErrorsLeavePairUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "malformed token response",
			err:     fmt.Errorf("token refresh: %w: unexpected end of JSON input", suunto.ErrParse),
			wantErr: suunto.ErrParse,
		},
		{
			name:    "transport failure",
			err:     fmt.Errorf("%w: POST /oauth/token: connection refused", suunto.ErrNetwork),
			wantErr: suunto.ErrNetwork,
		},
		{
			name:    "rejected refresh token",
			err:     &suunto.APIError{StatusCode: 400, Message: "invalid_grant: Invalid refresh token"},
			wantErr: suunto.ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mockClient := &MockSuuntoClient{RefreshError: tt.err}
			settings := NewMockSettings(map[string]string{
				SettingAccessToken:  "access-1",
				SettingRefreshToken: "refresh-1",
			})
			tokens := NewTokenStore(settings)
			authService := NewAuthService(mockClient, tokens, &MockLogger{})

			// Act
			err := authService.Open(context.Background())

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}, tokens.Get())
			assert.Zero(t, settings.SaveCalls)
		})
	}
}

func TestAuthService_Open_SaveFailure(t *testing.T) {
	// Arrange - tokens arrive but cannot be persisted
	mockClient := &MockSuuntoClient{Token: &oauth2.Token{AccessToken: "a", RefreshToken: "r"}}
	settings := NewMockSettings(map[string]string{SettingRefreshToken: "refresh-1"})
	settings.SaveError = errors.New("read-only file system")
	tokens := NewTokenStore(settings)
	authService := NewAuthService(mockClient, tokens, &MockLogger{})

	// Act
	err := authService.Open(context.Background())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist tokens")
	assert.Equal(t, TokenPair{RefreshToken: "refresh-1"}, tokens.Get(), "memory must match what is on disk")
}
