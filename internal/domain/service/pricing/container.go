package pricing

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"sky_mods/internal/domain/entity"
)

// DataContainer всё, что известно о запросе к моменту Apply.
// Срезы Items, Representations, Lore и Prices выровнены по слотам.
type DataContainer struct {
	Title     string
	Kind      string
	AccountID string
	Now       time.Time

	Items           []entity.Item
	Representations []entity.AuctionRepresentation
	Lore            [][]string
	Prices          []*entity.PriceEstimate
	// PricesAvailable == false — оценщик не ответил, Prices целиком nil.
	PricesAvailable bool

	Bazaar   map[string]entity.BazaarPrice
	Crafts   map[string]entity.CraftCost
	Listings map[string]entity.Listing
	Account  entity.AccountInfo
	Settings entity.Settings

	results map[string]any
}

// Clone копия для одного модификатора: ни срезы, ни таблицы, ни оценки не
// делят память с оригиналом. Результаты задач копируются поверхностно.
func (c *DataContainer) Clone() *DataContainer {
	out := *c

	out.Items = make([]entity.Item, len(c.Items))
	for i, item := range c.Items {
		out.Items[i] = item.Clone()
	}

	out.Representations = make([]entity.AuctionRepresentation, len(c.Representations))
	for i, rep := range c.Representations {
		out.Representations[i] = rep.Clone()
	}

	out.Lore = make([][]string, len(c.Lore))
	for i, lore := range c.Lore {
		out.Lore[i] = slices.Clone(lore)
	}

	out.Prices = make([]*entity.PriceEstimate, len(c.Prices))
	for i, p := range c.Prices {
		if p != nil {
			p := *p
			out.Prices[i] = &p
		}
	}

	out.Bazaar = maps.Clone(c.Bazaar)
	out.Crafts = maps.Clone(c.Crafts)
	out.Listings = maps.Clone(c.Listings)
	out.Settings = entity.Settings{
		Fields:   slices.Clone(c.Settings.Fields),
		Disabled: slices.Clone(c.Settings.Disabled),
		NoTips:   c.Settings.NoTips,
	}
	out.results = maps.Clone(c.results)

	return &out
}

func (c *DataContainer) Len() int {
	return len(c.Items)
}

// Validate проверяет позиционный инвариант.
func (c *DataContainer) Validate() error {
	n := len(c.Items)

	if len(c.Representations) != n || len(c.Lore) != n || len(c.Prices) != n {
		return fmt.Errorf("misaligned container: items=%d representations=%d lore=%d prices=%d",
			n, len(c.Representations), len(c.Lore), len(c.Prices))
	}

	return nil
}

// Price оценка слота i или nil.
func (c *DataContainer) Price(i int) *entity.PriceEstimate {
	if i < 0 || i >= len(c.Prices) {
		return nil
	}

	return c.Prices[i]
}

func (c *DataContainer) Item(i int) entity.Item {
	if i < 0 || i >= len(c.Items) {
		return entity.Item{}
	}

	return c.Items[i]
}

// Listing последний известный лот предмета по его короткому id.
func (c *DataContainer) Listing(item entity.Item) (entity.Listing, bool) {
	uuid := item.UUID()
	if uuid == "" {
		return entity.Listing{}, false
	}

	l, ok := c.Listings[entity.ShortID(uuid)]

	return l, ok
}

// BazaarPrice цены с базара по тегу предмета.
func (c *DataContainer) BazaarPrice(tag string) (entity.BazaarPrice, bool) {
	p, ok := c.Bazaar[tag]

	return p, ok
}

func (c *DataContainer) Result(name string) (any, bool) {
	v, ok := c.results[name]

	return v, ok
}

// ResultAs достаёт результат именованной задачи нужного типа.
func ResultAs[T any](c *DataContainer, name string) (T, bool) {
	var zero T

	v, ok := c.Result(name)
	if !ok {
		return zero, false
	}

	t, ok := v.(T)
	if !ok {
		return zero, false
	}

	return t, true
}
