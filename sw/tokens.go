package sw

import "sync"

// Setting keys the Suunto tokens are stored under
const (
	SettingAccessToken  = "suunto_token"
	SettingRefreshToken = "suunto_refresh_token"
	SettingUser         = "suunto_user"
)

// TokenPair is the access token of the current session plus the long-lived
// refresh token it was obtained with.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenStore holds the current token pair. Persistence is delegated to the
// Settings it wraps.
type TokenStore struct {
	mu       sync.RWMutex
	settings Settings
}

// NewTokenStore creates a token store on top of settings
func NewTokenStore(settings Settings) *TokenStore {
	return &TokenStore{settings: settings}
}

// Get returns the stored token pair
func (s *TokenStore) Get() TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return TokenPair{
		AccessToken:  s.settings.GetSetting(SettingAccessToken, ""),
		RefreshToken: s.settings.GetSetting(SettingRefreshToken, ""),
	}
}

// AccessToken returns the stored access token, empty if none
func (s *TokenStore) AccessToken() string {
	return s.Get().AccessToken
}

// RefreshToken returns the stored refresh token, empty if none
func (s *TokenStore) RefreshToken() string {
	return s.Get().RefreshToken
}

// Set updates the pair in memory. Empty values keep the previous value.
// It reports whether anything changed.
func (s *TokenStore) Set(pair TokenPair) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(pair)
}

func (s *TokenStore) set(pair TokenPair) bool {
	changed := false
	if pair.AccessToken != "" {
		s.settings.SetSetting(SettingAccessToken, pair.AccessToken)
		changed = true
	}
	if pair.RefreshToken != "" {
		s.settings.SetSetting(SettingRefreshToken, pair.RefreshToken)
		changed = true
	}
	return changed
}

// User returns the remembered Suunto user name
func (s *TokenStore) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.GetSetting(SettingUser, "")
}

// Update stores the non-empty parts of pair and the user name, then persists
// them. If persisting fails the previous values are put back, so the pair in
// memory always matches the pair on disk.
func (s *TokenStore) Update(pair TokenPair, user string) (changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := []string{SettingAccessToken, SettingRefreshToken, SettingUser}
	previous := make(map[string]string, len(keys))
	for _, k := range keys {
		previous[k] = s.settings.GetSetting(k, "")
	}

	changed = s.set(pair)
	if user != "" {
		s.settings.SetSetting(SettingUser, user)
	}

	if err := s.settings.Save(); err != nil {
		for _, k := range keys {
			s.settings.SetSetting(k, previous[k])
		}
		return changed, err
	}
	return changed, nil
}
