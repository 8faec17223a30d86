package modifier

import (
	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/service/pricing"
)

// Scope то, что модификатор видит в Prepare. Представления здесь —
// копия, которая уйдёт оценщику; предметы только для чтения.
type Scope struct {
	kind      string
	accountID string
	settings  entity.Settings
	items     []entity.Item
	reps      []entity.AuctionRepresentation
	needs     pricing.Needs
	tasks     *pricing.Tasks
}

func (s *Scope) Kind() string {
	return s.kind
}

func (s *Scope) AccountID() string {
	return s.accountID
}

func (s *Scope) Settings() entity.Settings {
	return s.settings
}

func (s *Scope) Len() int {
	return len(s.items)
}

func (s *Scope) Item(i int) entity.Item {
	if i < 0 || i >= len(s.items) {
		return entity.Item{}
	}

	return s.items[i]
}

// Representation указатель на представление слота i для правки на месте.
// nil для индекса вне инвентаря.
func (s *Scope) Representation(i int) *entity.AuctionRepresentation {
	if i < 0 || i >= len(s.reps) {
		return nil
	}

	return &s.reps[i]
}

// Need заказывает общие таблицы.
func (s *Scope) Need(n pricing.Needs) {
	s.needs |= n
}

// Go запускает именованную задачу; результат будет в DataContainer.Result.
func (s *Scope) Go(name string, fn pricing.TaskFunc) {
	s.tasks.Go(name, fn)
}
