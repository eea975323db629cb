// Package selection tracks which messages of a conversation go into an export.
package selection

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"

	"chatmd/internal/chat"
)

// Preset is a named bulk selection.
type Preset string

const (
	All           Preset = "all"
	AssistantOnly Preset = "assistant"
	None          Preset = "none"
	// Custom labels a selection that no preset describes.
	Custom Preset = "custom"
)

// ParsePreset accepts all, assistant (or ai) and none.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "":
		return All, nil
	case "assistant", "ai":
		return AssistantOnly, nil
	case "none":
		return None, nil
	}
	return "", fmt.Errorf("unknown selection preset: %s", s)
}

// Key addresses one message: a role within a 0-based turn.
type Key struct {
	Index int
	Role  chat.Role
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Role, k.Index+1)
}

// ParseKey reads "role:N" with a 1-based message number, e.g. "user:3".
func ParseKey(s string) (Key, error) {
	role, num, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Key{}, fmt.Errorf("invalid message key %q, want role:N", s)
	}
	r, err := chat.ParseRole(role)
	if err != nil {
		return Key{}, err
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return Key{}, fmt.Errorf("invalid message number in %q", s)
	}
	return Key{Index: n - 1, Role: r}, nil
}

// Model is the selection state. It is safe for concurrent use.
type Model struct {
	mu     sync.Mutex
	flags  map[Key]bool
	order  []Key
	preset Preset
}

// New returns an empty selection with the All preset.
func New() *Model {
	return &Model{flags: make(map[Key]bool), preset: All}
}

// Observe registers keys. Keys seen for the first time follow the current
// preset; known keys keep their state.
func (m *Model) Observe(keys ...Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		if _, ok := m.flags[k]; ok {
			continue
		}
		m.flags[k] = m.presetValue(k)
		m.order = append(m.order, k)
	}
}

// Apply sets every known key according to p.
func (m *Model) Apply(p Preset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == Custom {
		return
	}
	m.preset = p
	for k := range m.flags {
		m.flags[k] = m.presetValue(k)
	}
}

// Set changes one observed key and reports whether k was known. Unknown keys
// name no message and are ignored. When the result no longer matches the
// active preset, the preset becomes Custom.
func (m *Model) Set(k Key, included bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flags[k]; !ok {
		return false
	}
	m.flags[k] = included
	if m.preset != Custom && m.presetValue(k) != included {
		m.preset = Custom
	}
	return true
}

// Toggle flips one observed key and reports whether k was known.
func (m *Model) Toggle(k Key) bool {
	return m.Set(k, !m.Included(k))
}

// Included reports whether k is selected. Unknown keys follow the preset.
func (m *Model) Included(k Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.flags[k]; ok {
		return v
	}
	return m.presetValue(k)
}

// IncludedCount counts selected keys at or after the 0-based turn from.
func (m *Model) IncludedCount(from int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.CountBy(m.order, func(k Key) bool {
		return k.Index >= from && m.flags[k]
	})
}

// Keys returns known keys in observation order.
func (m *Model) Keys() []Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Key(nil), m.order...)
}

// Preset returns the active preset label.
func (m *Model) Preset() Preset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.preset
}

// Reset forgets all keys and returns to the All preset.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags = make(map[Key]bool)
	m.order = nil
	m.preset = All
}

// presetValue is the state the active preset gives k (caller holds the lock).
// Under Custom, new keys start selected.
func (m *Model) presetValue(k Key) bool {
	switch m.preset {
	case None:
		return false
	case AssistantOnly:
		return k.Role == chat.Assistant
	}
	return true
}
