package billing

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNegativeFee      = errors.New("consultation fee must not be negative")
	ErrNegativeDiscount = errors.New("discount must not be negative")
	ErrNegativePrice    = errors.New("unit price must not be negative")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidGSTRate   = errors.New("gst rate must be between 0 and 100")
	// ErrDiscountTooLarge rejects discounts exceeding subtotal plus tax.
	// A negative payable amount is treated as a data entry mistake, not
	// something to clamp away silently.
	ErrDiscountTooLarge = errors.New("discount exceeds bill total")
)

// round2 rounds to two decimals, half away from zero. Every stored monetary
// value passes through here so the printed bill always adds up.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compute turns a consultation fee, line items and a discount into a GST-split
// payable amount. Each priced item is taxed at its own rate, with the GST
// divided into equal CGST and SGST halves. Unpriced items are carried through
// untouched. The function is pure: calling it twice with the same inputs
// yields the same Computation.
func Compute(consultationFee float64, items []LineItem, discount float64) (*Computation, error) {
	if consultationFee < 0 {
		return nil, ErrNegativeFee
	}
	if discount < 0 {
		return nil, ErrNegativeDiscount
	}

	comp := &Computation{
		ConsultationFee: round2(consultationFee),
		Discount:        round2(discount),
	}

	if consultationFee > 0 {
		comp.Lines = append(comp.Lines, ComputedLine{
			Type:      ItemConsultation,
			Name:      "Consultation",
			Quantity:  1,
			UnitPrice: round2(consultationFee),
			LineTotal: round2(consultationFee),
		})
	}

	subtotal := consultationFee
	var cgstTotal, sgstTotal float64

	for _, item := range items {
		if !item.Priced() {
			comp.Unpriced = append(comp.Unpriced, item)
			continue
		}

		if *item.UnitPrice < 0 {
			return nil, fmt.Errorf("item %q: %w", item.Name, ErrNegativePrice)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("item %q: %w", item.Name, ErrInvalidQuantity)
		}

		var rate float64
		if item.GSTRate != nil {
			rate = *item.GSTRate
			if rate < 0 || rate > 100 {
				return nil, fmt.Errorf("item %q: %w", item.Name, ErrInvalidGSTRate)
			}
		}

		lineTotal := round2(*item.UnitPrice * float64(item.Quantity))
		gst := lineTotal * rate / 100
		cgst := round2(gst / 2)
		sgst := round2(gst / 2)

		itemType := item.Type
		if itemType == "" {
			itemType = ItemOther
		}

		comp.Lines = append(comp.Lines, ComputedLine{
			Type:      itemType,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: round2(*item.UnitPrice),
			GSTRate:   rate,
			LineTotal: lineTotal,
			CGST:      cgst,
			SGST:      sgst,
		})

		subtotal += lineTotal
		cgstTotal += cgst
		sgstTotal += sgst
	}

	comp.Subtotal = round2(subtotal)
	comp.CGSTTotal = round2(cgstTotal)
	comp.SGSTTotal = round2(sgstTotal)
	comp.FinalAmount = round2(comp.Subtotal + comp.CGSTTotal + comp.SGSTTotal - comp.Discount)

	if comp.FinalAmount < 0 {
		return nil, ErrDiscountTooLarge
	}

	return comp, nil
}
