package modifier

import (
	"fmt"

	"sky_mods/internal/domain/entity"
)

// Registry явный упорядоченный список модификаторов. Порядок регистрации
// равен порядку Apply.
type Registry struct {
	modifiers []Modifier
	names     map[string]struct{}
}

func NewRegistry(modifiers ...Modifier) (*Registry, error) {
	r := &Registry{names: make(map[string]struct{}, len(modifiers))}

	for _, m := range modifiers {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Registry) Register(m Modifier) error {
	if _, ok := r.names[m.Name()]; ok {
		return fmt.Errorf("modifier %q registered twice", m.Name())
	}

	r.names[m.Name()] = struct{}{}
	r.modifiers = append(r.modifiers, m)

	return nil
}

// Match модификаторы, подходящие к инвентарю и не выключенные пользователем.
func (r *Registry) Match(kind string, settings entity.Settings) []Modifier {
	matched := make([]Modifier, 0, len(r.modifiers))

	for _, m := range r.modifiers {
		if settings.ModifierEnabled(m.Name()) && m.Match(kind) {
			matched = append(matched, m)
		}
	}

	return matched
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.modifiers))
	for i, m := range r.modifiers {
		names[i] = m.Name()
	}

	return names
}
