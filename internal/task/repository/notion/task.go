package notion

import (
	"context"

	"notion-task-intake/internal/model"
	pkgNotion "notion-task-intake/pkg/notion"
)

const (
	maxTextLength = 2000

	defaultTitleProperty = "Name"
)

// choiceField pairs a logical property with the type assumed when the
// schema has no matching property.
type choiceField struct {
	logical     string
	defaultType string
	value       func(model.ParsedTask) string
}

var choiceFields = []choiceField{
	{"Status", pkgNotion.TypeStatus, func(t model.ParsedTask) string { return string(t.Status) }},
	{"Priority", pkgNotion.TypeSelect, func(t model.ParsedTask) string { return string(t.Priority) }},
	{"Task type", pkgNotion.TypeMultiSelect, func(t model.ParsedTask) string { return t.TaskType }},
	{"Effort level", pkgNotion.TypeSelect, func(t model.ParsedTask) string { return string(t.Effort) }},
}

func (r *implRepository) CreateTasks(ctx context.Context, tasks []model.ParsedTask) ([]model.CreatedTask, error) {
	if err := r.cache.Ensure(ctx); err != nil {
		r.l.Errorf(ctx, "notion repository: failed to load schema: %v", err)
		return nil, err
	}

	created := make([]model.CreatedTask, 0, len(tasks))
	for _, t := range tasks {
		c, err := r.createTask(ctx, t, "")
		if err != nil {
			return nil, err
		}
		created = append(created, c)
	}
	return created, nil
}

func (r *implRepository) GetDatabase(ctx context.Context) (model.Database, error) {
	if err := r.cache.Refresh(ctx); err != nil {
		r.l.Errorf(ctx, "notion repository: failed to retrieve database: %v", err)
		return model.Database{}, err
	}
	return r.cache.Database(), nil
}

// createTask creates the page for t and then its subtasks, one at a time.
func (r *implRepository) createTask(ctx context.Context, t model.ParsedTask, parentID string) (model.CreatedTask, error) {
	props, err := r.buildProperties(ctx, t, parentID)
	if err != nil {
		return model.CreatedTask{}, err
	}

	page, err := r.client.CreatePage(ctx, pkgNotion.CreatePageRequest{
		Parent:     pkgNotion.Parent{DatabaseID: r.cache.DatabaseID()},
		Properties: props,
	})
	if err != nil {
		r.l.Errorf(ctx, "notion repository: failed to create page %q: %v", t.Title, err)
		return model.CreatedTask{}, err
	}
	r.l.Debugf(ctx, "notion repository: created page %s for %q", page.ID, t.Title)

	subtasks := make([]model.CreatedTask, 0, len(t.Subtasks))
	for _, st := range t.Subtasks {
		child, err := r.createTask(ctx, st, page.ID)
		if err != nil {
			return model.CreatedTask{}, err
		}
		subtasks = append(subtasks, child)
	}

	return model.CreatedTask{
		ID:       page.ID,
		URL:      page.URL,
		Task:     t,
		Subtasks: subtasks,
	}, nil
}

func (r *implRepository) buildProperties(ctx context.Context, t model.ParsedTask, parentID string) (pkgNotion.Properties, error) {
	props := pkgNotion.Properties{}

	titleName := defaultTitleProperty
	if p, ok := r.cache.FirstOfType(pkgNotion.TypeTitle); ok {
		titleName = p.Name
	}
	props[titleName] = pkgNotion.Title(truncate(t.Title, maxTextLength))

	if t.Description != "" {
		if p, ok := r.typedProperty("Description", pkgNotion.TypeRichText); ok {
			props[p.Name] = pkgNotion.Text(truncate(t.Description, maxTextLength))
		}
	}

	if t.DueDate != "" {
		if p, ok := r.typedProperty("Due date", pkgNotion.TypeDate); ok {
			props[p.Name] = pkgNotion.Date(t.DueDate)
		}
	}

	for _, f := range choiceFields {
		res, ok, err := r.EnsureOption(ctx, f.logical, f.value(t))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		name, typ := res.Property, res.Type
		if name == "" {
			name, typ = f.logical, f.defaultType
		}
		if name == titleName {
			continue
		}

		switch typ {
		case pkgNotion.TypeSelect, pkgNotion.TypeMultiSelect, pkgNotion.TypeStatus:
			props[name] = pkgNotion.ChoiceValue(typ, res.Option)
		case pkgNotion.TypeRichText:
			props[name] = pkgNotion.Text(res.Option)
		default:
			r.l.Debugf(ctx, "notion repository: skipping %q, property %q has type %s", f.logical, name, typ)
		}
	}

	if parentID != "" {
		if rel := r.cache.ParentRelation(); rel != "" {
			props[rel] = pkgNotion.Relation(parentID)
		}
	}

	return props, nil
}

// typedProperty resolves logical when it has the wanted type, else takes the
// first property of that type.
func (r *implRepository) typedProperty(logical, propertyType string) (pkgNotion.PropertySchema, bool) {
	if p, ok := r.cache.Resolve(logical); ok && p.Type == propertyType {
		return p, true
	}
	return r.cache.FirstOfType(propertyType)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

