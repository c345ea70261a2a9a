package notion

import (
	"context"
	"fmt"
	"strings"

	pkgNotion "notion-task-intake/pkg/notion"
)

// OptionResolution is where a desired option value ended up. Property is
// empty when no schema property could be bound; the caller then guesses.
type OptionResolution struct {
	Option   string
	Property string
	Type     string
}

// EnsureOption makes sure desired is a valid option of the property that
// logical resolves to, adding it to select and multi_select properties when
// missing. Status options are never added; the API refuses to. The bool is
// false when desired is empty.
func (r *implRepository) EnsureOption(ctx context.Context, logical, desired string) (OptionResolution, bool, error) {
	desired = strings.TrimSpace(desired)
	if desired == "" {
		return OptionResolution{}, false, nil
	}

	prop, ok := r.resolveChoiceProperty(logical)
	if !ok {
		return OptionResolution{Option: desired}, true, nil
	}

	res := OptionResolution{Option: desired, Property: prop.Name, Type: prop.Type}
	if !prop.IsChoice() {
		return res, true, nil
	}

	r.optionMu.Lock()
	defer r.optionMu.Unlock()

	// Re-read under the lock; another request may have added it already.
	if fresh, ok := r.cache.Lookup(prop.Name); ok {
		prop = fresh
	}
	if opt, ok := prop.FindOption(desired); ok {
		res.Option = opt.Name
		return res, true, nil
	}
	if prop.Type == pkgNotion.TypeStatus {
		return res, true, nil
	}

	options := make([]pkgNotion.Option, 0, len(prop.Options)+1)
	options = append(options, prop.Options...)
	options = append(options, pkgNotion.Option{Name: desired})

	update := pkgNotion.PropertySchemaUpdate{}
	if prop.Type == pkgNotion.TypeMultiSelect {
		update.MultiSelect = &pkgNotion.OptionsUpdate{Options: options}
	} else {
		update.Select = &pkgNotion.OptionsUpdate{Options: options}
	}

	db, err := r.client.UpdateDatabase(ctx, r.cache.DatabaseID(), pkgNotion.UpdateDatabaseRequest{
		Properties: map[string]pkgNotion.PropertySchemaUpdate{prop.Name: update},
	})
	if err != nil {
		return OptionResolution{}, false, fmt.Errorf("add option %q to %q: %w", desired, prop.Name, err)
	}
	r.cache.Apply(db)

	r.l.Infof(ctx, "notion repository: added option %q to property %q", desired, prop.Name)
	return res, true, nil
}

// resolveChoiceProperty resolves logical by name, then by type for the
// status and task-type properties.
func (r *implRepository) resolveChoiceProperty(logical string) (pkgNotion.PropertySchema, bool) {
	if prop, ok := r.cache.Resolve(logical); ok {
		return prop, true
	}

	lower := strings.ToLower(logical)
	switch {
	case strings.Contains(lower, "status"):
		return r.cache.FindByType(pkgNotion.TypeStatus)
	case strings.Contains(lower, "type"):
		return r.cache.FindByType(pkgNotion.TypeMultiSelect)
	}
	return pkgNotion.PropertySchema{}, false
}
