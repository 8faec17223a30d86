package entity

import (
	"maps"
	"slices"
	"strings"
)

// Tier редкость предмета, порядок совпадает с игровым.
type Tier int

const (
	TierUnknown Tier = iota
	TierCommon
	TierUncommon
	TierRare
	TierEpic
	TierLegendary
	TierMythic
	TierDivine
	TierSpecial
	TierVerySpecial
	TierUltimate
	TierAdmin
)

var tierNames = map[Tier]string{ //nolint:gochecknoglobals
	TierUnknown:     "UNKNOWN",
	TierCommon:      "COMMON",
	TierUncommon:    "UNCOMMON",
	TierRare:        "RARE",
	TierEpic:        "EPIC",
	TierLegendary:   "LEGENDARY",
	TierMythic:      "MYTHIC",
	TierDivine:      "DIVINE",
	TierSpecial:     "SPECIAL",
	TierVerySpecial: "VERY_SPECIAL",
	TierUltimate:    "ULTIMATE",
	TierAdmin:       "ADMIN",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}

	return tierNames[TierUnknown]
}

// MarshalText в JSON редкость уходит строкой: "LEGENDARY".
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	*t = ParseTier(string(b))
	return nil
}

// ParseTier принимает как "VERY_SPECIAL", так и "VERY SPECIAL".
func ParseTier(s string) Tier {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	for tier, name := range tierNames {
		if name == s {
			return tier
		}
	}

	return TierUnknown
}

type Enchantment struct {
	Type  string `json:"type"`
	Level int    `json:"level"`
}

// Item отображаемое представление одного слота инвентаря.
// Tag пуст у пустых слотов и у элементов интерфейса (стекла, кнопки):
// у последних остаются имя и описание, но оценивать их нечего.
type Item struct {
	Tag             string         `json:"tag,omitempty"`
	Name            string         `json:"name,omitempty"`
	Lore            []string       `json:"lore,omitempty"`
	Description     string         `json:"description,omitempty"`
	Count           int            `json:"count"`
	Tier            Tier           `json:"tier"`
	Enchantments    []Enchantment  `json:"enchantments,omitempty"`
	ExtraAttributes map[string]any `json:"extraAttributes,omitempty"`
}

func (i Item) IsEmpty() bool {
	return i.Tag == "" && i.Name == "" && len(i.Lore) == 0
}

// Clone копия без общей памяти со списками и атрибутами оригинала.
// Значения ExtraAttributes копируются поверхностно.
func (i Item) Clone() Item {
	i.Lore = slices.Clone(i.Lore)
	i.Enchantments = slices.Clone(i.Enchantments)
	i.ExtraAttributes = maps.Clone(i.ExtraAttributes)

	return i
}

func (i Item) Priceable() bool {
	return i.Tag != ""
}

// UUID возвращает ExtraAttributes.uuid, если он есть.
func (i Item) UUID() string {
	if uuid, ok := i.ExtraAttributes["uuid"].(string); ok {
		return uuid
	}

	return ""
}

// ShortID последние 12 символов uuid без дефисов; по нему индексируются
// прошлые продажи.
func ShortID(uuid string) string {
	uuid = strings.ReplaceAll(uuid, "-", "")
	if len(uuid) <= 12 {
		return uuid
	}

	return uuid[len(uuid)-12:]
}
