package domain

import "github.com/shopspring/decimal"

// DidNumber is a direct-inward-dial number offered for rent.
type DidNumber struct {
	ID           int64
	Value        string
	MonthlyPrice decimal.Decimal
	SetupPrice   decimal.Decimal
	Currency     string
}

// DidNumberPage is one window of the inventory ordered by id.
// Start is the 1-based ordinal of the first item.
type DidNumberPage struct {
	Items   []DidNumber
	Page    int
	PerPage int
	Start   int
	Count   int
}

// HasPrevious reports whether a page precedes this one.
func (p DidNumberPage) HasPrevious() bool {
	return p.Page > 1
}

// HasNext reports whether records remain after this page.
func (p DidNumberPage) HasNext() bool {
	return p.Start-1+p.PerPage < p.Count
}
