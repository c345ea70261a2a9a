package notion

import "context"

// INotion is the subset of the Notion API the service talks to.
// Implementations are safe for concurrent use.
type INotion interface {
	// RetrieveDatabase fetches a database with its property schema.
	RetrieveDatabase(ctx context.Context, databaseID string) (*Database, error)

	// UpdateDatabase patches property schemas and returns the updated database.
	UpdateDatabase(ctx context.Context, databaseID string, req UpdateDatabaseRequest) (*Database, error)

	// CreatePage creates a page and returns its id and url.
	CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error)
}

// New creates a new Notion client with the given configuration
func New(cfg Config) (INotion, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newNotionImpl(cfg), nil
}
