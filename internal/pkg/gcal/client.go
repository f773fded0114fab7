// Package gcal pushes events to and pulls events from a Google Calendar
// account authorized with an OAuth code.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarID is the calendar every sync talks to.
const CalendarID = "primary"

type clientSecrets map[string]creds

type creds struct {
	ClientId                string   `json:"client_id"`
	ProjectId               string   `json:"project_id"`
	AuthUri                 string   `json:"auth_uri"`
	TokenUri                string   `json:"token_uri"`
	AuthProviderX509CertUrl string   `json:"auth_provider_x509_cert_url"`
	ClientSecret            string   `json:"client_secret"`
	RedirectUris            []string `json:"redirect_uris"`
}

type Client struct {
	conf *oauth2.Config
	loc  *time.Location
}

// NewClient reads the OAuth client of the given type ("web", "installed")
// from the client secret file downloaded from the Google console.
func NewClient(secretPath, clientType, redirectURL string, loc *time.Location) (*Client, error) {
	file, err := os.Open(secretPath)
	if err != nil {
		return nil, fmt.Errorf("can't open client secret: %w", err)
	}
	defer file.Close()

	cs := make(clientSecrets)
	if err := json.NewDecoder(file).Decode(&cs); err != nil {
		return nil, fmt.Errorf("can't parse secrets: %w", err)
	}

	secret, ok := cs[clientType]
	if !ok {
		return nil, fmt.Errorf("no %q client in secrets", clientType)
	}

	if loc == nil {
		loc = time.Local
	}

	return &Client{
		conf: &oauth2.Config{
			ClientID:     secret.ClientId,
			ClientSecret: secret.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{calendar.CalendarScope},
		},
		loc: loc,
	}, nil
}

// AuthCodeURL is where the user grants calendar access and obtains the code.
func (c *Client) AuthCodeURL(state string) string {
	return c.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Authenticate exchanges authCode for a token and opens a calendar session.
func (c *Client) Authenticate(ctx context.Context, authCode string) (*Session, error) {
	token, err := c.conf.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}

	return NewSession(ctx, c.loc, option.WithTokenSource(c.conf.TokenSource(ctx, token)))
}

// Session is an authorized connection to one account's calendars.
type Session struct {
	service *calendar.Service
	loc     *time.Location
	now     func() time.Time
}

func NewSession(ctx context.Context, loc *time.Location, opts ...option.ClientOption) (*Session, error) {
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Calendar API: %w", err)
	}

	return &Session{service: service, loc: loc, now: time.Now}, nil
}
