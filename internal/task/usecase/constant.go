package usecase

import "time"

const (
	// fallbackTitleLength caps the synthetic title used when the model returns no task.
	fallbackTitleLength = 200
	untitledTask        = "Untitled task"

	calendarEventDuration = time.Hour
)

const extractionPrompt = `Extract the tasks described in the text below.

Rules:
- Answer with a JSON object {"tasks": [...]}. Always return at least one task.
- Each task has a concise "title" and an optional "description".
- A task may have "subtasks", an array of tasks with the same shape.
- Infer due dates from relative temporal language such as "tomorrow", "next week" or "by Friday" and write them as ISO dates (YYYY-MM-DD) in "dueDate". Today is %s.
- Set "priority" (Low, Medium, High, Urgent), "status" (Not Started, In Progress, Blocked, Done) and "effort" (S, M, L) only when the text states them. Otherwise leave them out.
- "taskType" is an optional short label such as Bug, Feature or Meeting.

Text:
%s`

const dueDatePrompt = `Today is %s. Extract the explicit or implied due date of the task below.
Answer with {"dueDate": "<ISO-8601 date>"}, or {"dueDate": null} when the task has no due date.

Task:
%s`
