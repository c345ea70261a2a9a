package notion

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"notion-task-intake/internal/model"
	pkgNotion "notion-task-intake/pkg/notion"
)

// parentRelationCandidates are tried in order; the first relation-typed match wins.
var parentRelationCandidates = []string{"Parent task", "Parent Task", "Parent"}

type schemaData struct {
	id             string
	title          string
	properties     []pkgNotion.PropertySchema // declared order
	byKey          map[string]int             // normalized name -> index into properties
	parentRelation string
}

// SchemaCache holds the property schema of one database. It is filled on first
// use and replaced whenever the API hands back a fresher copy.
type SchemaCache struct {
	client     pkgNotion.INotion
	databaseID string

	group singleflight.Group

	mu        sync.RWMutex
	populated bool
	data      schemaData
}

// NewSchemaCache creates an empty cache for databaseID.
func NewSchemaCache(client pkgNotion.INotion, databaseID string) *SchemaCache {
	return &SchemaCache{client: client, databaseID: databaseID}
}

// DatabaseID returns the database the cache describes.
func (c *SchemaCache) DatabaseID() string {
	return c.databaseID
}

// Populated reports whether the schema has been loaded.
func (c *SchemaCache) Populated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.populated
}

// Ensure loads the schema once. Concurrent callers share one fetch.
func (c *SchemaCache) Ensure(ctx context.Context) error {
	if c.Populated() {
		return nil
	}
	_, err, _ := c.group.Do("schema", func() (interface{}, error) {
		if c.Populated() {
			return nil, nil
		}
		return nil, c.Refresh(ctx)
	})
	return err
}

// Refresh fetches the schema unconditionally.
func (c *SchemaCache) Refresh(ctx context.Context) error {
	db, err := c.client.RetrieveDatabase(ctx, c.databaseID)
	if err != nil {
		return err
	}
	c.Apply(db)
	return nil
}

// Apply replaces the cached schema with db.
func (c *SchemaCache) Apply(db *pkgNotion.Database) {
	data := schemaData{
		id:         db.ID,
		title:      db.PlainTitle(),
		properties: append([]pkgNotion.PropertySchema(nil), db.Properties...),
		byKey:      make(map[string]int, len(db.Properties)),
	}
	for i, p := range data.properties {
		key := NormalizeKey(p.Name)
		if _, dup := data.byKey[key]; !dup {
			data.byKey[key] = i
		}
	}
	for _, candidate := range parentRelationCandidates {
		if p, ok := lookup(data.properties, candidate); ok && p.Type == pkgNotion.TypeRelation {
			data.parentRelation = p.Name
			break
		}
	}

	c.mu.Lock()
	c.data = data
	c.populated = true
	c.mu.Unlock()
}

// Lookup finds a property by its exact name.
func (c *SchemaCache) Lookup(name string) (pkgNotion.PropertySchema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookup(c.data.properties, name)
}

// Resolve maps a logical name such as "Task type" to a schema property:
// exact normalized match first, then the first property in declared order
// whose key contains, or is contained in, the wanted key.
func (c *SchemaCache) Resolve(logical string) (pkgNotion.PropertySchema, bool) {
	want := NormalizeKey(logical)
	if want == "" {
		return pkgNotion.PropertySchema{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if i, ok := c.data.byKey[want]; ok {
		return c.data.properties[i], true
	}
	for _, p := range c.data.properties {
		key := NormalizeKey(p.Name)
		if key == "" {
			continue
		}
		if strings.Contains(key, want) || strings.Contains(want, key) {
			return p, true
		}
	}
	return pkgNotion.PropertySchema{}, false
}

// FindByType returns the property of the given type when exactly one exists.
func (c *SchemaCache) FindByType(propertyType string) (pkgNotion.PropertySchema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var found pkgNotion.PropertySchema
	count := 0
	for _, p := range c.data.properties {
		if p.Type == propertyType {
			found = p
			count++
		}
	}
	return found, count == 1
}

// FirstOfType returns the first property of the given type in declared order.
func (c *SchemaCache) FirstOfType(propertyType string) (pkgNotion.PropertySchema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.data.properties {
		if p.Type == propertyType {
			return p, true
		}
	}
	return pkgNotion.PropertySchema{}, false
}

// ParentRelation returns the relation property linking subtasks to parents, or "".
func (c *SchemaCache) ParentRelation() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.parentRelation
}

// Database describes the cached database.
func (c *SchemaCache) Database() model.Database {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id := c.data.id
	if id == "" {
		id = c.databaseID
	}
	names := make([]string, 0, len(c.data.properties))
	for _, p := range c.data.properties {
		names = append(names, p.Name)
	}
	return model.Database{ID: id, Title: c.data.title, Properties: names}
}

func lookup(properties []pkgNotion.PropertySchema, name string) (pkgNotion.PropertySchema, bool) {
	for _, p := range properties {
		if p.Name == name {
			return p, true
		}
	}
	return pkgNotion.PropertySchema{}, false
}
