// Package likeguard tracks which prompts this client has already liked so
// the UI can suppress duplicate like calls. The set is persisted as a JSON
// file and survives restarts; it is per-installation, not per-account, so a
// user with two devices can still like a prompt once from each.
package likeguard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Guard is a persistent set of liked prompt IDs. Safe for concurrent use.
type Guard struct {
	mu    sync.Mutex
	path  string
	liked map[uint]struct{}
}

// Open loads the guard state from path, starting empty when the file does
// not exist yet.
func Open(path string) (*Guard, error) {
	g := &Guard{path: path, liked: make(map[uint]struct{})}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return g, nil
		}
		return nil, fmt.Errorf("failed to read like state: %w", err)
	}

	var ids []uint
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode like state: %w", err)
	}
	for _, id := range ids {
		g.liked[id] = struct{}{}
	}

	return g, nil
}

// Seen reports whether this client already liked the prompt.
func (g *Guard) Seen(promptID uint) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.liked[promptID]
	return ok
}

// Mark records the prompt as liked before the request goes out, so a second
// tap during the request window is suppressed too.
func (g *Guard) Mark(promptID uint) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.liked[promptID]; ok {
		return nil
	}
	g.liked[promptID] = struct{}{}
	return g.persist()
}

// Unmark rolls the optimistic Mark back after a failed request.
func (g *Guard) Unmark(promptID uint) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.liked[promptID]; !ok {
		return nil
	}
	delete(g.liked, promptID)
	return g.persist()
}

// persist writes the set atomically. Callers hold the mutex.
func (g *Guard) persist() error {
	ids := make([]uint, 0, len(g.liked))
	for id := range g.liked {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode like state: %w", err)
	}

	tmp := g.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write like state: %w", err)
	}
	if err := os.Rename(tmp, g.path); err != nil {
		return fmt.Errorf("failed to replace like state: %w", err)
	}
	return nil
}
