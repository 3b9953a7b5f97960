package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// OAuth provider wiring. Google and GitHub are the two identity sources the
// back office accepts; both are normalized into OAuthUserInfo so the callback
// handler never branches on provider-specific payloads.

// OAuthUserInfo is the provider-independent identity extracted after a
// successful code exchange.
type OAuthUserInfo struct {
	ProviderID  string
	Email       string
	DisplayName string
}

// ProviderConfig carries the client credentials for one provider. A provider
// with empty credentials is simply left unregistered.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
}

// OAuthConfig holds the registered provider configurations.
type OAuthConfig struct {
	configs map[Provider]*oauth2.Config
}

// NewOAuthConfig registers every provider that has credentials. Callback URLs
// are derived from the base URL and the provider name.
func NewOAuthConfig(googleCfg, githubCfg ProviderConfig, callbackBaseURL string) *OAuthConfig {
	c := &OAuthConfig{configs: map[Provider]*oauth2.Config{}}

	if googleCfg.ClientID != "" && googleCfg.ClientSecret != "" {
		c.configs[ProviderGoogle] = &oauth2.Config{
			ClientID:     googleCfg.ClientID,
			ClientSecret: googleCfg.ClientSecret,
			RedirectURL:  callbackBaseURL + "/api/auth/callback/" + string(ProviderGoogle),
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}

	if githubCfg.ClientID != "" && githubCfg.ClientSecret != "" {
		c.configs[ProviderGitHub] = &oauth2.Config{
			ClientID:     githubCfg.ClientID,
			ClientSecret: githubCfg.ClientSecret,
			RedirectURL:  callbackBaseURL + "/api/auth/callback/" + string(ProviderGitHub),
			Scopes:       []string{"user:email", "read:user"},
			Endpoint:     github.Endpoint,
		}
	}

	return c
}

func (c *OAuthConfig) config(provider Provider) (*oauth2.Config, error) {
	cfg, ok := c.configs[provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", provider)
	}
	return cfg, nil
}

// IsProviderConfigured reports whether credentials were registered for the
// provider.
func (c *OAuthConfig) IsProviderConfigured(provider Provider) bool {
	_, ok := c.configs[provider]
	return ok
}

// GetAuthURL builds the provider's authorization URL carrying the CSRF state.
func (c *OAuthConfig) GetAuthURL(provider Provider, state string) (string, error) {
	cfg, err := c.config(provider)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// ExchangeCode trades the callback's authorization code for a token.
func (c *OAuthConfig) ExchangeCode(ctx context.Context, provider Provider, code string) (*oauth2.Token, error) {
	cfg, err := c.config(provider)
	if err != nil {
		return nil, err
	}
	return cfg.Exchange(ctx, code)
}

// GetUserInfo fetches and normalizes the identity behind the token.
func (c *OAuthConfig) GetUserInfo(ctx context.Context, provider Provider, token *oauth2.Token) (*OAuthUserInfo, error) {
	cfg, err := c.config(provider)
	if err != nil {
		return nil, err
	}
	client := cfg.Client(ctx, token)

	switch provider {
	case ProviderGoogle:
		return fetchGoogleIdentity(client)
	case ProviderGitHub:
		return fetchGitHubIdentity(client)
	default:
		return nil, fmt.Errorf("provider %s not configured", provider)
	}
}

// getJSON performs an authenticated GET and decodes the JSON body, surfacing
// non-200 responses with a truncated body for the log.
func getJSON(client *http.Client, url string, out interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func fetchGoogleIdentity(client *http.Client) (*OAuthUserInfo, error) {
	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := getJSON(client, "https://www.googleapis.com/oauth2/v2/userinfo", &payload); err != nil {
		return nil, err
	}
	if payload.Email == "" {
		return nil, fmt.Errorf("google userinfo carried no email")
	}

	name := payload.Name
	if name == "" {
		name = payload.Email
	}
	return &OAuthUserInfo{ProviderID: payload.ID, Email: payload.Email, DisplayName: name}, nil
}

func fetchGitHubIdentity(client *http.Client) (*OAuthUserInfo, error) {
	var payload struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(client, "https://api.github.com/user", &payload); err != nil {
		return nil, err
	}

	// The profile email is often private; fall back to the emails endpoint
	email := payload.Email
	if email == "" {
		var err error
		email, err = fetchGitHubEmail(client)
		if err != nil {
			return nil, err
		}
	}

	name := payload.Name
	if name == "" {
		name = payload.Login
	}
	return &OAuthUserInfo{ProviderID: fmt.Sprintf("%d", payload.ID), Email: email, DisplayName: name}, nil
}

// fetchGitHubEmail picks the primary verified address, then any verified one.
func fetchGitHubEmail(client *http.Client) (string, error) {
	var addresses []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(client, "https://api.github.com/user/emails", &addresses); err != nil {
		return "", err
	}

	for _, a := range addresses {
		if a.Primary && a.Verified {
			return a.Email, nil
		}
	}
	for _, a := range addresses {
		if a.Verified {
			return a.Email, nil
		}
	}
	return "", fmt.Errorf("no verified github email")
}
