package storage

import "context"

// defaultPrices is the store's list price per item in cents.
var defaultPrices = map[string]int64{
	"bagels":       399,
	"bread":        249,
	"waffles":      429,
	"tortillas":    349,
	"buns":         299,
	"milk":         459,
	"eggs":         399,
	"cheese":       549,
	"yogurt":       129,
	"butter":       499,
	"chicken":      899,
	"beef":         1199,
	"pork":         749,
	"turkey":       949,
	"fish":         1299,
	"tomatoes":     299,
	"onions":       149,
	"apples":       199,
	"oranges":      249,
	"lettuce":      179,
	"soda":         199,
	"paper_plates": 349,
	"napkins":      249,
	"chips":        429,
	"cups":         299,
}

// StaticPriceBook serves unit prices from the built-in list.
type StaticPriceBook struct {
	prices map[string]int64
}

func NewStaticPriceBook() *StaticPriceBook {
	prices := make(map[string]int64, len(defaultPrices))
	for item, cents := range defaultPrices {
		prices[item] = cents
	}
	return &StaticPriceBook{prices: prices}
}

func (b *StaticPriceBook) UnitCents(ctx context.Context, itemID string) (int64, bool, error) {
	cents, ok := b.prices[itemID]
	return cents, ok, nil
}
