package entity

import "time"

type AccountTier int

const (
	AccountTierNone AccountTier = iota
	AccountTierStarter
	AccountTierPremium
	AccountTierPremiumPlus
)

func (t AccountTier) String() string {
	switch t {
	case AccountTierStarter:
		return "starter"
	case AccountTierPremium:
		return "premium"
	case AccountTierPremiumPlus:
		return "premium_plus"
	default:
		return "none"
	}
}

func ParseAccountTier(s string) AccountTier {
	switch s {
	case "starter", "STARTER_PREMIUM":
		return AccountTierStarter
	case "premium", "PREMIUM":
		return AccountTierPremium
	case "premium_plus", "PREMIUM_PLUS":
		return AccountTierPremiumPlus
	default:
		return AccountTierNone
	}
}

// AccountInfo уровень подписки аккаунта. Сам гейтинг не здесь,
// модификаторы только читают значение.
type AccountInfo struct {
	Tier      AccountTier `json:"tier"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func (a AccountInfo) ActiveAt(now time.Time) AccountTier {
	if a.ExpiresAt.IsZero() || now.After(a.ExpiresAt) {
		return AccountTierNone
	}

	return a.Tier
}
