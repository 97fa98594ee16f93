// Package objects implements the locator repository: a JSON-backed map
// from human-readable object names to selector expressions.
package objects

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/stepdriver-dev/stepdriver/pkg/core"
	"github.com/stepdriver-dev/stepdriver/pkg/logger"
)

// Repository maps object names to locator strings. Lookups run through
// three tiers: exact match, case-insensitive match, then substring
// containment in either direction. All mutations are written back to
// the backing file immediately.
type Repository struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
	log     *logger.Logger
}

// New creates an empty repository bound to a path. The file is written
// on the first Upsert.
func New(path string, log *logger.Logger) *Repository {
	if log == nil {
		log = logger.Discard()
	}
	return &Repository{
		path:    path,
		entries: make(map[string]string),
		log:     log,
	}
}

// Load reads the repository from a JSON file. A missing or unreadable
// file is a persistence error; a run cannot resolve objects out of a
// repository that does not exist.
func Load(path string, log *logger.Logger) (*Repository, error) {
	r := New(path, log)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.ErrRepositoryStore.WithCause(err)
	}
	if err := json.Unmarshal(data, &r.entries); err != nil {
		return nil, core.ErrRepositoryStore.WithCause(
			fmt.Errorf("parse %s: %w", path, err))
	}
	return r, nil
}

// Len returns the number of stored objects.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Names returns all object names in sorted order.
func (r *Repository) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the raw locator for an exact name, without fuzzy tiers.
func (r *Repository) Get(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.entries[name]
	return loc, ok
}

// Resolve looks up an object name through the three tiers. Fuzzy hits
// are logged as warnings so repository drift shows up in test logs.
// When several entries tie on a substring match, whichever the map
// iteration yields first wins; repositories are expected to keep names
// distinct enough that this never matters.
func (r *Repository) Resolve(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if loc, ok := r.entries[name]; ok {
		return loc, nil
	}

	lower := strings.ToLower(name)
	for key, loc := range r.entries {
		if strings.ToLower(key) == lower {
			r.log.Warn("object %q matched %q case-insensitively", name, key)
			return loc, nil
		}
	}

	for key, loc := range r.entries {
		keyLower := strings.ToLower(key)
		if strings.Contains(keyLower, lower) || strings.Contains(lower, keyLower) {
			r.log.Warn("object %q fuzzy-matched %q", name, key)
			return loc, nil
		}
	}

	return "", core.ErrObjectNotFound.WithMessage(
		fmt.Sprintf("object %q not found in repository", name))
}

// ResolveWithParams resolves a name and substitutes {key} placeholders
// in the locator from params. Missing parameters and leftover
// placeholders are logged, never fatal: the raw locator still goes to
// the page, where it fails visibly if it was truly broken.
func (r *Repository) ResolveWithParams(name string, params map[string]string) (string, error) {
	loc, err := r.Resolve(name)
	if err != nil {
		return "", err
	}

	for key, value := range params {
		placeholder := "{" + key + "}"
		if !strings.Contains(loc, placeholder) {
			r.log.Warn("locator for %q has no placeholder %s", name, placeholder)
			continue
		}
		loc = strings.ReplaceAll(loc, placeholder, value)
	}

	if open := strings.Index(loc, "{"); open >= 0 && strings.Index(loc[open:], "}") > 0 {
		r.log.Warn("locator for %q still contains placeholders: %s", name, loc)
	}
	return loc, nil
}

// Upsert adds or replaces an object and writes the file through.
func (r *Repository) Upsert(name, locator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = locator
	return r.save()
}

// Remove deletes an object and writes the file through. Removing an
// unknown name is not an error.
func (r *Repository) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return nil
	}
	delete(r.entries, name)
	return r.save()
}

// save writes the entries as indented JSON. Callers hold the lock.
func (r *Repository) save() error {
	data, err := json.MarshalIndent(r.entries, "", "    ")
	if err != nil {
		return core.ErrRepositoryStore.WithCause(err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return core.ErrRepositoryStore.WithCause(err)
		}
	}
	if err := os.WriteFile(r.path, append(data, '\n'), 0644); err != nil {
		return core.ErrRepositoryStore.WithCause(err)
	}
	return nil
}
