package config

import "time"

// Upstream внешние сервисы. Токен общий, лимит запросов у каждого свой.
type Upstream struct {
	Token   string        `env:"UPSTREAM_TOKEN" json:"-"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"5s"`

	PricesURL string  `env:"PRICES_URL,notEmpty"`
	PricesRPS float64 `env:"PRICES_RPS" envDefault:"50"`
	BazaarURL string  `env:"BAZAAR_URL,notEmpty"`
	BazaarRPS float64 `env:"BAZAAR_RPS" envDefault:"5"`
	CraftsURL string  `env:"CRAFTS_URL,notEmpty"`
	CraftsRPS float64 `env:"CRAFTS_RPS" envDefault:"5"`
	TierURL   string  `env:"TIER_URL,notEmpty"`
	TierRPS   float64 `env:"TIER_RPS" envDefault:"20"`
	Burst     int     `env:"UPSTREAM_BURST" envDefault:"10"`
}

type Pricing struct {
	// OptionalTimeout сколько ждать необязательные данные: базар, крафты,
	// лоты, подписку и задачи модификаторов.
	OptionalTimeout time.Duration `env:"PRICING_OPTIONAL_TIMEOUT" envDefault:"2s"`
	SnapshotTTL     time.Duration `env:"PRICING_SNAPSHOT_TTL" envDefault:"5m"`
	SettingsTTL     time.Duration `env:"PRICING_SETTINGS_TTL" envDefault:"1m"`
	// MaxSlots верхняя граница слотов в снимке.
	MaxSlots int `env:"PRICING_MAX_SLOTS" envDefault:"54"`
}

type Worker struct {
	RefreshInterval time.Duration `env:"WORKER_REFRESH_INTERVAL" envDefault:"1m"`
	Concurrency     int           `env:"WORKER_CONCURRENCY" envDefault:"2"`
}
