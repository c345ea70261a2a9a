package notion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Config holds Notion client configuration
type Config struct {
	APIKey     string
	APIURL     string
	Version    string
	HTTPClient *http.Client
}

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("notion: APIKey is required")
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// notionImpl is the internal implementation of INotion
type notionImpl struct {
	apiKey     string
	apiURL     string
	version    string
	httpClient *http.Client
}

// Database is the Notion database object, reduced to what the service reads.
type Database struct {
	ID         string          `json:"id"`
	URL        string          `json:"url,omitempty"`
	Title      []RichText      `json:"title,omitempty"`
	Properties PropertySchemas `json:"properties"`
}

// PlainTitle joins the title fragments into plain text.
func (d *Database) PlainTitle() string {
	var sb strings.Builder
	for _, t := range d.Title {
		switch {
		case t.PlainText != "":
			sb.WriteString(t.PlainText)
		case t.Text != nil:
			sb.WriteString(t.Text.Content)
		}
	}
	return sb.String()
}

// RichText is one fragment of a Notion rich text array.
type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

type TextContent struct {
	Content string `json:"content"`
}

// Option is a named choice of a select, multi_select or status property.
type Option struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// PropertySchema describes one database property.
type PropertySchema struct {
	ID      string
	Name    string
	Type    string
	Options []Option // select, multi_select and status only
}

// IsChoice reports whether values of the property come from a named option set.
func (p PropertySchema) IsChoice() bool {
	return p.Type == TypeSelect || p.Type == TypeMultiSelect || p.Type == TypeStatus
}

// FindOption looks an option up by name, ignoring case.
func (p PropertySchema) FindOption(name string) (Option, bool) {
	for _, o := range p.Options {
		if strings.EqualFold(o.Name, name) {
			return o, true
		}
	}
	return Option{}, false
}

// PropertySchemas keeps the properties in the order the API declared them.
type PropertySchemas []PropertySchema

type optionList struct {
	Options []Option `json:"options"`
}

type rawPropertySchema struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name,omitempty"`
	Type        string      `json:"type"`
	Select      *optionList `json:"select,omitempty"`
	MultiSelect *optionList `json:"multi_select,omitempty"`
	Status      *optionList `json:"status,omitempty"`
}

// UnmarshalJSON decodes the properties object token by token so that the
// declared order survives.
func (p *PropertySchemas) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("notion: properties: expected object, got %v", tok)
	}

	out := make(PropertySchemas, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw rawPropertySchema
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("notion: property %q: %w", key, err)
		}

		schema := PropertySchema{ID: raw.ID, Name: raw.Name, Type: raw.Type}
		if schema.Name == "" {
			schema.Name = key
		}
		switch {
		case raw.Select != nil:
			schema.Options = raw.Select.Options
		case raw.MultiSelect != nil:
			schema.Options = raw.MultiSelect.Options
		case raw.Status != nil:
			schema.Options = raw.Status.Options
		}
		out = append(out, schema)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

// MarshalJSON writes the properties back as an ordered object.
func (p PropertySchemas) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		raw := rawPropertySchema{ID: s.ID, Name: s.Name, Type: s.Type}
		opts := &optionList{Options: s.Options}
		if opts.Options == nil {
			opts.Options = []Option{}
		}
		switch s.Type {
		case TypeSelect:
			raw.Select = opts
		case TypeMultiSelect:
			raw.MultiSelect = opts
		case TypeStatus:
			raw.Status = opts
		}
		val, err := json.Marshal(raw)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UpdateDatabaseRequest is the body of PATCH /databases/{id}.
type UpdateDatabaseRequest struct {
	Properties map[string]PropertySchemaUpdate `json:"properties"`
}

// PropertySchemaUpdate replaces the option list of a select or multi_select
// property. Options left out of the list are removed by the API.
type PropertySchemaUpdate struct {
	Select      *OptionsUpdate `json:"select,omitempty"`
	MultiSelect *OptionsUpdate `json:"multi_select,omitempty"`
}

type OptionsUpdate struct {
	Options []Option `json:"options"`
}

// CreatePageRequest is the body of POST /pages.
type CreatePageRequest struct {
	Parent     Parent     `json:"parent"`
	Properties Properties `json:"properties"`
}

// Parent places a page inside a database.
type Parent struct {
	DatabaseID string `json:"database_id"`
}

// Page is the subset of the page object returned on creation.
type Page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// APIError is a non-2xx answer from the Notion API.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("notion: API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}
