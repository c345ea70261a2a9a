package gcalendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	DefaultCalendarID = "primary"

	// Scope is requested by the service and by scripts/gcal-auth.
	Scope = calendar.CalendarEventsScope

	// TokenFileName is the OAuth token written by scripts/gcal-auth.
	TokenFileName = "token.json"

	sourceTitle = "Notion"
)

// ErrNoToken means OAuth client credentials were given without a stored token.
var ErrNoToken = errors.New("gcalendar: OAuth client credentials need a token, run scripts/gcal-auth")

// Client creates events in Google Calendar.
type Client struct {
	service *calendar.Service
}

// NewClientFromCredentialsFile reads a service account key or an OAuth client
// file. For OAuth clients the token is read from token.json in the same
// directory.
func NewClientFromCredentialsFile(ctx context.Context, credentialsPath string) (*Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("gcalendar: read credentials: %w", err)
	}
	tokenPath := filepath.Join(filepath.Dir(credentialsPath), TokenFileName)
	return NewClientFromCredentialsJSON(ctx, data, tokenPath)
}

// NewClientFromCredentialsJSON is NewClientFromCredentialsFile for in-memory
// credentials. tokenPath is ignored for service accounts.
func NewClientFromCredentialsJSON(ctx context.Context, credentialsJSON []byte, tokenPath string) (*Client, error) {
	ts, err := tokenSource(ctx, credentialsJSON, tokenPath)
	if err != nil {
		return nil, err
	}
	return newClient(ctx, option.WithTokenSource(ts))
}

// NewClientFromHTTP uses httpClient as is. Authentication is up to the caller.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client) (*Client, error) {
	return newClient(ctx, option.WithHTTPClient(httpClient))
}

func newClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcalendar: create service: %w", err)
	}
	return &Client{service: svc}, nil
}

func tokenSource(ctx context.Context, data []byte, tokenPath string) (oauth2.TokenSource, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("gcalendar: parse credentials: %w", err)
	}

	if probe.Type == "service_account" {
		jwt, err := google.JWTConfigFromJSON(data, Scope)
		if err != nil {
			return nil, fmt.Errorf("gcalendar: service account: %w", err)
		}
		return jwt.TokenSource(ctx), nil
	}

	oauthCfg, err := google.ConfigFromJSON(data, Scope)
	if err != nil {
		return nil, fmt.Errorf("gcalendar: unsupported credentials: %w", err)
	}
	tok, err := readToken(tokenPath)
	if err != nil {
		return nil, err
	}
	return oauthCfg.TokenSource(ctx, tok), nil
}

func readToken(path string) (*oauth2.Token, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w (looked for %s)", ErrNoToken, path)
	}
	if err != nil {
		return nil, fmt.Errorf("gcalendar: read token: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("gcalendar: parse token %s: %w", path, err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("%w (%s holds no token)", ErrNoToken, path)
	}
	return &tok, nil
}

// CreateEvent inserts one timed event.
func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	calendarID := req.CalendarID
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}

	created, err := c.service.Events.Insert(calendarID, toCalendarEvent(req)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gcalendar: insert event: %w", err)
	}

	ev := &Event{
		ID:          created.Id,
		Summary:     created.Summary,
		Description: created.Description,
		HtmlLink:    created.HtmlLink,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	if created.ExtendedProperties != nil {
		ev.PageID = created.ExtendedProperties.Private[PagePropertyKey]
	}
	return ev, nil
}

func toCalendarEvent(req CreateEventRequest) *calendar.Event {
	ev := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		// RFC3339 carries the offset; TimeZone only labels the event.
		Start: &calendar.EventDateTime{DateTime: req.StartTime.Format(time.RFC3339), TimeZone: req.Timezone},
		End:   &calendar.EventDateTime{DateTime: req.EndTime.Format(time.RFC3339), TimeZone: req.Timezone},
	}
	if req.PageURL != "" {
		ev.Source = &calendar.EventSource{Title: sourceTitle, Url: req.PageURL}
	}
	if req.PageID != "" {
		ev.ExtendedProperties = &calendar.EventExtendedProperties{
			Private: map[string]string{PagePropertyKey: req.PageID},
		}
	}
	return ev
}
