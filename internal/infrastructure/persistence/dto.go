package persistence

import (
	"time"

	"sky_mods/internal/domain/entity"
)

// listingSchema строка таблицы listings.
type listingSchema struct {
	UUID       string    `db:"uuid"`
	ItemUID    string    `db:"item_uid"`
	Tag        string    `db:"tag"`
	ItemName   string    `db:"item_name"`
	Seller     string    `db:"seller"`
	Price      int64     `db:"price"`
	HighestBid int64     `db:"highest_bid"`
	Bin        bool      `db:"bin"`
	Sold       bool      `db:"sold"`
	EndAt      time.Time `db:"end_at"`
}

func fromListing(l entity.Listing) listingSchema {
	return listingSchema{
		UUID:       l.UUID,
		ItemUID:    l.ItemUID,
		Tag:        l.Tag,
		ItemName:   l.ItemName,
		Seller:     l.Seller,
		Price:      l.Price,
		HighestBid: l.HighestBid,
		Bin:        l.Bin,
		Sold:       l.Sold,
		EndAt:      l.End,
	}
}

func (s listingSchema) toDomain() entity.Listing {
	return entity.Listing{
		UUID:       s.UUID,
		ItemUID:    s.ItemUID,
		Tag:        s.Tag,
		ItemName:   s.ItemName,
		Seller:     s.Seller,
		Price:      s.Price,
		HighestBid: s.HighestBid,
		Bin:        s.Bin,
		Sold:       s.Sold,
		End:        s.EndAt,
	}
}
