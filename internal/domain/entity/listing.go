package entity

import "time"

// Listing прошлый лот аукциона с этим предметом или от этого продавца.
type Listing struct {
	UUID       string    `json:"uuid"`
	ItemUID    string    `json:"itemUid"`
	Tag        string    `json:"tag"`
	ItemName   string    `json:"itemName"`
	Seller     string    `json:"seller"`
	Price      int64     `json:"price"`
	HighestBid int64     `json:"highestBid"`
	Bin        bool      `json:"bin"`
	Sold       bool      `json:"sold"`
	End        time.Time `json:"end"`
}

// PaidPrice сколько покупатель заплатил за лот.
func (l Listing) PaidPrice() int64 {
	if l.HighestBid > 0 {
		return l.HighestBid
	}

	return l.Price
}
