package preset

import "github.com/hpungsan/loom/internal/errors"

// Named pairs a preset name with its bundle.
type Named struct {
	Name   string `json:"name"`
	Bundle Bundle `json:"bundle"`
}

// Manager owns the ordered preset list and its dense name→index map.
// Indices stay stable so select-menu ordering is preserved; deletes
// re-index the remainder.
type Manager struct {
	bundles []Named
	index   map[string]int
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{index: make(map[string]int)}
}

// Load replaces the manager contents with the given list, rebuilding the
// index. Reserved names are skipped defensively: they denote live
// settings and are never stored entries.
func (m *Manager) Load(bundles []Named) {
	m.bundles = m.bundles[:0]
	m.index = make(map[string]int, len(bundles))
	for _, nb := range bundles {
		if IsReservedName(nb.Name) {
			continue
		}
		if _, dup := m.index[nb.Name]; dup {
			continue
		}
		m.index[nb.Name] = len(m.bundles)
		m.bundles = append(m.bundles, nb)
	}
}

// All returns the preset list in stable order.
func (m *Manager) All() []Named {
	out := make([]Named, len(m.bundles))
	copy(out, m.bundles)
	return out
}

// Names returns the preset names in stable order.
func (m *Manager) Names() []string {
	out := make([]string, len(m.bundles))
	for i, nb := range m.bundles {
		out[i] = nb.Name
	}
	return out
}

// Index returns a copy of the dense name→index map.
func (m *Manager) Index() map[string]int {
	out := make(map[string]int, len(m.index))
	for k, v := range m.index {
		out[k] = v
	}
	return out
}

// Get looks up a bundle by name. Absence is an absent-value return.
func (m *Manager) Get(name string) (Bundle, bool) {
	i, ok := m.index[name]
	if !ok {
		return Bundle{}, false
	}
	return m.bundles[i].Bundle, true
}

// Save inserts or replaces the named bundle. Saving over the reserved
// pseudo-presets is a policy violation, never a silent no-op.
func (m *Manager) Save(name string, b Bundle) error {
	if name == "" {
		return errors.NewInvalidRequest("preset name is required")
	}
	if IsReservedName(name) {
		return errors.NewProtectedPreset(name, "saved")
	}
	if i, ok := m.index[name]; ok {
		m.bundles[i].Bundle = b
		return nil
	}
	m.index[name] = len(m.bundles)
	m.bundles = append(m.bundles, Named{Name: name, Bundle: b})
	return nil
}

// Rename changes a preset's name in place, keeping its position. Reserved
// names are protected on both sides; renaming to the unchanged name is a
// distinct violation the UI can explain.
func (m *Manager) Rename(oldName, newName string) error {
	if newName == "" {
		return errors.NewInvalidRequest("new preset name is required")
	}
	if IsReservedName(oldName) {
		return errors.NewProtectedPreset(oldName, "renamed")
	}
	if IsReservedName(newName) {
		return errors.NewProtectedPreset(newName, "used as a rename target")
	}
	if oldName == newName {
		return errors.NewNameUnchanged(newName)
	}
	i, ok := m.index[oldName]
	if !ok {
		return errors.NewNotFound(oldName)
	}
	if _, exists := m.index[newName]; exists {
		return errors.NewNameExists(newName)
	}

	m.bundles[i].Name = newName
	delete(m.index, oldName)
	m.index[newName] = i
	return nil
}

// Delete removes the named preset and re-indexes the remainder so indices
// stay dense.
func (m *Manager) Delete(name string) error {
	if IsReservedName(name) {
		return errors.NewProtectedPreset(name, "deleted")
	}
	i, ok := m.index[name]
	if !ok {
		return errors.NewNotFound(name)
	}

	m.bundles = append(m.bundles[:i], m.bundles[i+1:]...)
	delete(m.index, name)
	for j := i; j < len(m.bundles); j++ {
		m.index[m.bundles[j].Name] = j
	}
	return nil
}

// Len returns the number of stored presets.
func (m *Manager) Len() int {
	return len(m.bundles)
}
