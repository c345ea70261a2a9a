package gcalendar

import "time"

// PagePropertyKey is the private extended property holding the Notion page id.
const PagePropertyKey = "notion_page_id"

// CreateEventRequest is the input for creating a Google Calendar event.
type CreateEventRequest struct {
	CalendarID  string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Timezone    string // IANA name, e.g. "Europe/Berlin"

	// Optional back-reference to the page the event mirrors.
	PageID  string
	PageURL string
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	StartTime   time.Time
	EndTime     time.Time
	PageID      string
}
