package entity

import "slices"

// Field опциональная строка, которую пользователь включил в описании.
type Field string

const (
	FieldLbin        Field = "LBIN"
	FieldLbinKey     Field = "LBIN_KEY"
	FieldMedian      Field = "MEDIAN"
	FieldMedianKey   Field = "MEDIAN_KEY"
	FieldItemKey     Field = "ITEM_KEY"
	FieldVolume      Field = "VOLUME"
	FieldTag         Field = "TAG"
	FieldBazaarBuy   Field = "BazaarBuy"
	FieldBazaarSell  Field = "BazaarSell"
	FieldEnchantCost Field = "EnchantCost"
	FieldPricePaid   Field = "PRICE_PAID"
	FieldCraftCost   Field = "CRAFT_COST"
)

var AllFields = []Field{ //nolint:gochecknoglobals
	FieldLbin, FieldLbinKey, FieldMedian, FieldMedianKey, FieldItemKey, FieldVolume,
	FieldTag, FieldBazaarBuy, FieldBazaarSell, FieldEnchantCost, FieldPricePaid, FieldCraftCost,
}

func (f Field) Valid() bool {
	return slices.Contains(AllFields, f)
}

// Settings настройки описания для аккаунта. Значение неизменяемое:
// обновление всегда заменяет объект целиком.
type Settings struct {
	// Fields включённые поля в порядке отображения.
	Fields []Field `json:"fields"`
	// Disabled имена модификаторов, которые пользователь выключил.
	Disabled []string `json:"disabled,omitempty"`
	// NoTips не показывать ротацию подсказок.
	NoTips bool `json:"noTips,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		Fields: []Field{FieldLbin, FieldMedian, FieldVolume},
	}
}

func (s Settings) Has(f Field) bool {
	return slices.Contains(s.Fields, f)
}

func (s Settings) HasAny(fields ...Field) bool {
	for _, f := range fields {
		if s.Has(f) {
			return true
		}
	}

	return false
}

func (s Settings) ModifierEnabled(name string) bool {
	return !slices.Contains(s.Disabled, name)
}
