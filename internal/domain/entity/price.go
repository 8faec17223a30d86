package entity

// PriceEstimate результат внешнего оценщика для одного слота.
type PriceEstimate struct {
	Median      float64 `json:"median"`
	Lbin        float64 `json:"lbin"`
	ItemKey     string  `json:"itemKey"`
	MedianKey   string  `json:"medianKey"`
	LbinKey     string  `json:"lbinKey"`
	Volume      float64 `json:"volume"`
	Volatility  float64 `json:"volatility"`
	AvgSellTime float64 `json:"avgSellTimeSeconds"`
}

// MedianConfident медиана посчитана ровно по тому набору атрибутов,
// что и у предмета.
func (p PriceEstimate) MedianConfident() bool {
	return p.ItemKey == p.MedianKey
}

func (p PriceEstimate) LbinConfident() bool {
	return p.ItemKey == p.LbinKey
}

// Value лучшая доступная оценка: медиана, иначе lbin.
func (p PriceEstimate) Value() float64 {
	if p.Median > 0 {
		return p.Median
	}

	return p.Lbin
}

type BazaarPrice struct {
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

// CraftCost стоимость крафта предмета по текущим ценам ингредиентов.
type CraftCost struct {
	Tag  string  `json:"itemId"`
	Cost float64 `json:"craftCost"`
}
