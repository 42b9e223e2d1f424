// Package registry keeps the playable game modes. Mode packages register a
// factory from init(), and the CLI, menus and servers discover them here.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/nimbus-block/internal/core"
)

// Game is the interface between a game mode and the platform.
// Implementations hold pure logic; the platform owns input, timing and drawing.
type Game interface {
	// ID returns the mode identifier used for CLI arguments and score storage.
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Reset initializes or restarts the game for the given runtime.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into dst. The screen is pre-cleared.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// GameInfo describes a registered mode.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory creates a new game instance.
type Factory func() Game

type entry struct {
	info    GameInfo
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = make(map[string]entry)
)

// Register adds a mode. Panics on duplicate IDs or a nil factory.
func Register(info GameInfo, f Factory) {
	if f == nil {
		panic(fmt.Sprintf("registry: nil factory for %q", info.ID))
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[info.ID]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", info.ID))
	}
	entries[info.ID] = entry{info: info, factory: f}
}

// List returns all registered modes sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Info returns the metadata of a registered mode.
func Info(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	return e.info, ok
}

// Create instantiates a mode by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists reports whether a mode with the given ID is registered.
func Exists(id string) bool {
	_, ok := Info(id)
	return ok
}
