package notion

import (
	"sync"

	"notion-task-intake/internal/task/repository"
	pkgLog "notion-task-intake/pkg/log"
	pkgNotion "notion-task-intake/pkg/notion"
)

type implRepository struct {
	client pkgNotion.INotion
	cache  *SchemaCache
	l      pkgLog.Logger

	// optionMu serializes check-then-update of option lists.
	optionMu sync.Mutex
}

// New creates a Notion-backed task repository. The cache decides which
// database pages are created in.
func New(client pkgNotion.INotion, cache *SchemaCache, l pkgLog.Logger) repository.TaskRepository {
	return newRepository(client, cache, l)
}

func newRepository(client pkgNotion.INotion, cache *SchemaCache, l pkgLog.Logger) *implRepository {
	return &implRepository{
		client: client,
		cache:  cache,
		l:      l,
	}
}
