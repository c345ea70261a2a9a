package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// UntitledSubtask replaces missing or blank titles on any node.
	UntitledSubtask = "Untitled subtask"

	maxDerivedTitleRunes = 200
)

// ParsedTaskInput is a task node as returned by the LLM, before defaults are applied.
// Empty strings mean "absent".
type ParsedTaskInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	DueDate     string            `json:"dueDate,omitempty"`
	Priority    string            `json:"priority,omitempty"`
	Status      string            `json:"status,omitempty"`
	Effort      string            `json:"effort,omitempty"`
	TaskType    string            `json:"taskType,omitempty"`
	Subtasks    []ParsedTaskInput `json:"subtasks,omitempty"`
}

// rawTaskInput mirrors ParsedTaskInput with lenient scalar fields.
type rawTaskInput struct {
	Title       looseString     `json:"title"`
	Description looseString     `json:"description"`
	DueDate     looseString     `json:"dueDate"`
	Priority    looseString     `json:"priority"`
	Status      looseString     `json:"status"`
	Effort      looseString     `json:"effort"`
	TaskType    looseString     `json:"taskType"`
	Subtasks    json.RawMessage `json:"subtasks"`
}

// UnmarshalJSON accepts either a bare string (a title-only task) or an object.
// Objects without a usable title get one derived from the object itself.
func (p *ParsedTaskInput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = ParsedTaskInput{Title: UntitledSubtask}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*p = ParsedTaskInput{Title: titleOrPlaceholder(s)}
		return nil
	case '{':
		var raw rawTaskInput
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		title := strings.TrimSpace(string(raw.Title))
		if title == "" {
			*p = ParsedTaskInput{Title: stringifyTitle(trimmed)}
			return nil
		}
		subtasks, err := decodeSubtasks(raw.Subtasks)
		if err != nil {
			return err
		}
		*p = ParsedTaskInput{
			Title:       title,
			Description: strings.TrimSpace(string(raw.Description)),
			DueDate:     strings.TrimSpace(string(raw.DueDate)),
			Priority:    strings.TrimSpace(string(raw.Priority)),
			Status:      strings.TrimSpace(string(raw.Status)),
			Effort:      strings.TrimSpace(string(raw.Effort)),
			TaskType:    strings.TrimSpace(string(raw.TaskType)),
			Subtasks:    subtasks,
		}
		return nil
	default:
		// numbers, booleans, arrays: keep their literal text as the title
		*p = ParsedTaskInput{Title: stringifyTitle(trimmed)}
		return nil
	}
}

// decodeSubtasks decodes a subtask list; anything that is not an array is ignored.
func decodeSubtasks(raw json.RawMessage) ([]ParsedTaskInput, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil
	}
	var subtasks []ParsedTaskInput
	if err := json.Unmarshal(trimmed, &subtasks); err != nil {
		return nil, fmt.Errorf("invalid subtasks: %w", err)
	}
	return subtasks, nil
}

// stringifyTitle derives a title from a raw JSON value that carries no title field.
func stringifyTitle(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return UntitledSubtask
	}
	s := buf.String()
	if s == "{}" || s == "[]" || s == `""` {
		return UntitledSubtask
	}
	return titleOrPlaceholder(truncateRunes(s, maxDerivedTitleRunes))
}

func titleOrPlaceholder(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UntitledSubtask
	}
	return s
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// looseString decodes any JSON scalar into its string form; null becomes "".
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}

	switch trimmed[0] {
	case '"':
		var v string
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case 't', 'f':
		b, err := strconv.ParseBool(string(trimmed))
		if err != nil {
			return fmt.Errorf("invalid boolean %s: %w", trimmed, err)
		}
		*s = looseString(strconv.FormatBool(b))
	case '{', '[':
		// structured values are not usable as scalar fields
		*s = ""
	default:
		*s = looseString(trimmed)
	}
	return nil
}

// ParsedTask is the normalized, fully defaulted task tree.
// Only Description and DueDate may be empty.
type ParsedTask struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	DueDate     string       `json:"dueDate,omitempty"` // ISO-8601 instant
	Priority    Priority     `json:"priority"`
	Status      Status       `json:"status"`
	Effort      Effort       `json:"effort"`
	TaskType    string       `json:"taskType"`
	Subtasks    []ParsedTask `json:"subtasks"`
}

// Text returns title and description joined by a space, skipping empty parts.
func (t ParsedTask) Text() string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(t.Title); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(t.Description); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// CreatedTask is a task node persisted in the document database.
type CreatedTask struct {
	ID           string        `json:"id"`
	URL          string        `json:"url"`
	Task         ParsedTask    `json:"task"`
	Subtasks     []CreatedTask `json:"subtasks"`
	CalendarLink string        `json:"calendarLink,omitempty"`
}

// Database describes the target document database.
type Database struct {
	ID         string
	Title      string
	Properties []string // property names in the database's declared order
}
