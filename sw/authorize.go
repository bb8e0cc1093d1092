package sw

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Authorize runs the interactive authorization-code flow: it shows the
// consent URL, reads the code the user pastes and stores the first token
// pair.
func (a *App) Authorize(ctx context.Context, in io.Reader, redirectURL string) error {
	state, err := randomState()
	if err != nil {
		return err
	}

	a.Presentation.ShowStatus("Open this URL in a browser and allow access:")
	a.Presentation.ShowProgress(a.Client.AuthCodeURL(redirectURL, state))
	a.Presentation.ShowProgress("Paste the code parameter of the page you are redirected to:")

	code, err := readCode(in)
	if err != nil {
		a.Presentation.ShowError(err, "Failed to read authorization code")
		return err
	}

	tok, err := a.Client.ExchangeCode(ctx, redirectURL, code)
	if err != nil {
		a.Presentation.ShowError(err, "Failed to exchange authorization code")
		return err
	}

	if err := a.Connector.Auth.StoreToken(tok); err != nil {
		a.Presentation.ShowError(err, "Failed to store Suunto tokens")
		return err
	}

	a.Presentation.ShowStatus("Authorised with Suunto")
	return nil
}

// readCode reads one line holding the authorization code
func readCode(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return "", fmt.Errorf("no authorization code given")
	}
	return code, nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
