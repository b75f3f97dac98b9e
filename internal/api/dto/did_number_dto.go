package dto

import (
	"github.com/shopspring/decimal"

	"github.com/spec-kit/didnumber-service/internal/domain"
)

// DidNumberRequest is the full DID number payload for add and edit.
// Prices accept JSON numbers or numeric strings.
type DidNumberRequest struct {
	Value        string           `json:"value" validate:"required,didvalue"`
	MonthlyPrice *decimal.Decimal `json:"monthlyPrice" validate:"required"`
	SetupPrice   *decimal.Decimal `json:"setupPrice" validate:"required"`
	Currency     string           `json:"currency" validate:"required,max=3"`
}

// DidNumberView is the public projection of a DID number.
type DidNumberView struct {
	ID           int64           `json:"id"`
	Value        string          `json:"value"`
	MonthlyPrice decimal.Decimal `json:"monthlyPrice"`
	SetupPrice   decimal.Decimal `json:"setupPrice"`
	Currency     string          `json:"currency"`
}

// NewDidNumberView projects a DID number.
func NewDidNumberView(did *domain.DidNumber) DidNumberView {
	return DidNumberView{
		ID:           did.ID,
		Value:        did.Value,
		MonthlyPrice: did.MonthlyPrice,
		SetupPrice:   did.SetupPrice,
		Currency:     did.Currency,
	}
}

// DidNumberPageView is one page of the inventory listing.
type DidNumberPageView struct {
	Items        []DidNumberView `json:"items"`
	Start        int             `json:"start"`
	Limit        int             `json:"limit"`
	Count        int             `json:"count"`
	PreviousLink string          `json:"previous_link"`
	NextLink     string          `json:"next_link"`
}
