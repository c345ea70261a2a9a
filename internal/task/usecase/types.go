package usecase

import (
	"bytes"
	"encoding/json"

	"notion-task-intake/internal/model"
)

// extractionResult is the model answer to the extraction prompt. A bare
// array of tasks is accepted as well.
type extractionResult struct {
	Tasks []model.ParsedTaskInput `json:"tasks"`
}

func (r *extractionResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &r.Tasks)
	}

	type plain extractionResult
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*r = extractionResult(p)
	return nil
}

type dueDateResult struct {
	DueDate *string `json:"dueDate"`
}

func extractionSchema() map[string]interface{} {
	stringField := map[string]interface{}{"type": "string"}
	taskRef := map[string]interface{}{"$ref": "#/definitions/task"}

	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"tasks": map[string]interface{}{
				"type":     "array",
				"minItems": 1,
				"items":    taskRef,
			},
		},
		"required": []string{"tasks"},
		"definitions": map[string]interface{}{
			"task": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title":       stringField,
					"description": stringField,
					"dueDate":     stringField,
					"priority":    map[string]interface{}{"type": "string", "enum": []string{"Low", "Medium", "High", "Urgent"}},
					"status":      map[string]interface{}{"type": "string", "enum": []string{"Not Started", "In Progress", "Blocked", "Done"}},
					"effort":      map[string]interface{}{"type": "string", "enum": []string{"S", "M", "L"}},
					"taskType":    stringField,
					"subtasks":    map[string]interface{}{"type": "array", "items": taskRef},
				},
				"required": []string{"title"},
			},
		},
	}
}

func dueDateSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"dueDate": map[string]interface{}{"type": []string{"string", "null"}},
		},
		"required": []string{"dueDate"},
	}
}
