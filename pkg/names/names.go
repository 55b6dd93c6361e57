package names

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"

	"github.com/arnavshah/roster-assign-go/pkg/models"
)

// ErrNoMappings is returned when the name-mapping dataset has no rows
var ErrNoMappings = errors.New("names: no name mappings loaded")

// Key normalizes a name or character id for case-insensitive lookup
func Key(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Resolver maps display names to character ids and back
type Resolver struct {
	ids     map[string]string
	display map[string]string
}

// New builds a resolver from the mapping rows
func New(rows []models.NameMapping) (*Resolver, error) {
	if len(rows) == 0 {
		return nil, ErrNoMappings
	}
	r := &Resolver{
		ids:     make(map[string]string, len(rows)),
		display: make(map[string]string, len(rows)),
	}
	for _, row := range rows {
		name, id := Key(row.CleanName), Key(row.CharacterID)
		if name == "" || id == "" {
			continue
		}
		r.ids[name] = id
		if _, ok := r.display[id]; !ok {
			r.display[id] = strings.TrimSpace(row.CleanName)
		}
	}
	return r, nil
}

// Lookup returns the character id for a display name
func (r *Resolver) Lookup(name string) (string, bool) {
	id, ok := r.ids[Key(name)]
	return id, ok
}

// Resolve returns the character id for a display name, or the input when unmapped
func (r *Resolver) Resolve(name string) string {
	if id, ok := r.Lookup(name); ok {
		return id
	}
	return name
}

// DisplayName returns the clean name for a character id, or the id itself
func (r *Resolver) DisplayName(id string) string {
	if name, ok := r.display[Key(id)]; ok {
		return name
	}
	return id
}

// Len returns the number of mapped names
func (r *Resolver) Len() int {
	return len(r.ids)
}
