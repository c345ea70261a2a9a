package model

import "strings"

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Status of a task.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusBlocked    Status = "Blocked"
	StatusDone       Status = "Done"
)

// Effort is a t-shirt size estimate.
type Effort string

const (
	EffortS Effort = "S"
	EffortM Effort = "M"
	EffortL Effort = "L"
)

// DefaultTaskType is used when the model does not classify a task.
const DefaultTaskType = "Task"

// NormalizePriority maps free-form priority text onto Priority; unknown values become Low.
func NormalizePriority(v string) Priority {
	switch normalizeToken(v) {
	case "urgent":
		return PriorityUrgent
	case "high":
		return PriorityHigh
	case "medium", "med":
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// NormalizeStatus maps free-form status text onto Status; unknown values become Not Started.
func NormalizeStatus(v string) Status {
	switch normalizeToken(v) {
	case "in progress", "doing", "working":
		return StatusInProgress
	case "blocked":
		return StatusBlocked
	case "done", "completed", "complete":
		return StatusDone
	default:
		return StatusNotStarted
	}
}

// NormalizeEffort maps free-form effort text onto Effort; unknown values become S.
func NormalizeEffort(v string) Effort {
	switch normalizeToken(v) {
	case "m", "medium", "med":
		return EffortM
	case "l", "large", "high", "big":
		return EffortL
	default:
		return EffortS
	}
}

// NormalizeTaskType passes the type through, defaulting to "Task".
func NormalizeTaskType(v string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return DefaultTaskType
}

// ApplyDefaults converts a raw task tree into its canonical form.
// DueDate is passed through untouched; resolving it is a separate step.
func ApplyDefaults(in ParsedTaskInput) ParsedTask {
	subtasks := make([]ParsedTask, 0, len(in.Subtasks))
	for _, st := range in.Subtasks {
		subtasks = append(subtasks, ApplyDefaults(st))
	}

	return ParsedTask{
		Title:       titleOrPlaceholder(in.Title),
		Description: strings.TrimSpace(in.Description),
		DueDate:     strings.TrimSpace(in.DueDate),
		Priority:    NormalizePriority(in.Priority),
		Status:      NormalizeStatus(in.Status),
		Effort:      NormalizeEffort(in.Effort),
		TaskType:    NormalizeTaskType(in.TaskType),
		Subtasks:    subtasks,
	}
}

// ToInput converts a canonical task back into model-output form.
func (t ParsedTask) ToInput() ParsedTaskInput {
	subtasks := make([]ParsedTaskInput, 0, len(t.Subtasks))
	for _, st := range t.Subtasks {
		subtasks = append(subtasks, st.ToInput())
	}
	return ParsedTaskInput{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		Effort:      string(t.Effort),
		TaskType:    t.TaskType,
		Subtasks:    subtasks,
	}
}

func normalizeToken(v string) string {
	return strings.Join(strings.Fields(strings.ToLower(v)), " ")
}
