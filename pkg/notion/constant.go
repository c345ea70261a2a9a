package notion

import "time"

const (
	// DefaultAPIURL is the public Notion REST endpoint
	DefaultAPIURL = "https://api.notion.com/v1"

	// DefaultVersion is the Notion-Version header sent with every call
	DefaultVersion = "2022-06-28"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second
)

// Property types known to the mapper.
const (
	TypeTitle       = "title"
	TypeRichText    = "rich_text"
	TypeDate        = "date"
	TypeSelect      = "select"
	TypeMultiSelect = "multi_select"
	TypeStatus      = "status"
	TypeRelation    = "relation"
)
