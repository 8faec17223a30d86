package entity

import "strings"

// AuctionRepresentation нормализованное для оценки представление предмета.
// Строится 1:1 из Item и служит ключом запроса к оценщику.
type AuctionRepresentation struct {
	Tag        string            `json:"tag"`
	Count      int               `json:"count"`
	Tier       Tier              `json:"tier"`
	Attributes map[string]string `json:"flatNbt"`
}

func (r AuctionRepresentation) IsEmpty() bool {
	return r.Tag == ""
}

// FamilyTag сворачивает PET_ENDER_DRAGON → PET, RUNE_MUSIC → RUNE,
// POTION_healing → POTION. Остальные теги не меняются.
func FamilyTag(tag string) string {
	for _, family := range []string{"PET", "RUNE", "POTION"} {
		if strings.HasPrefix(tag, family+"_") {
			return family
		}
	}

	return tag
}

// Clone копирует атрибуты, чтобы Prepare-фазы могли менять копию запроса.
func (r AuctionRepresentation) Clone() AuctionRepresentation {
	attrs := make(map[string]string, len(r.Attributes))
	for k, v := range r.Attributes {
		attrs[k] = v
	}

	r.Attributes = attrs

	return r
}
