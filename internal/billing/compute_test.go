package billing

import (
	"errors"
	"testing"
)

func priced(name string, itemType ItemType, qty int, price float64, gstRate float64) LineItem {
	return LineItem{Type: itemType, Name: name, Quantity: qty, UnitPrice: &price, GSTRate: &gstRate}
}

func TestComputeWorkedExample(t *testing.T) {
	// Fee 500, one medicine 2 x 100 at 12% GST, discount 50:
	// subtotal 700, CGST 12, SGST 12, final 674.
	items := []LineItem{priced("Paracetamol 500mg", ItemMedicine, 2, 100, 12)}

	comp, err := Compute(500, items, 50)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if comp.Subtotal != 700 {
		t.Errorf("Subtotal = %v, want 700", comp.Subtotal)
	}
	if comp.CGSTTotal != 12 {
		t.Errorf("CGSTTotal = %v, want 12", comp.CGSTTotal)
	}
	if comp.SGSTTotal != 12 {
		t.Errorf("SGSTTotal = %v, want 12", comp.SGSTTotal)
	}
	if comp.FinalAmount != 674 {
		t.Errorf("FinalAmount = %v, want 674", comp.FinalAmount)
	}

	// Two lines: the consultation pseudo-line plus the medicine.
	if len(comp.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(comp.Lines))
	}
	if comp.Lines[0].Type != ItemConsultation || comp.Lines[0].LineTotal != 500 {
		t.Errorf("consultation line = %+v", comp.Lines[0])
	}
	med := comp.Lines[1]
	if med.LineTotal != 200 || med.CGST != 12 || med.SGST != 12 {
		t.Errorf("medicine line = %+v, want total 200 cgst 12 sgst 12", med)
	}
}

func TestComputeGSTSplitsEqually(t *testing.T) {
	// 3 x 33.33 at 18%: line 99.99, GST 17.9982, halves 9.00 each after rounding.
	items := []LineItem{priced("Amoxicillin", ItemMedicine, 3, 33.33, 18)}

	comp, err := Compute(0, items, 0)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	line := comp.Lines[0]
	if line.CGST != line.SGST {
		t.Errorf("CGST %v != SGST %v, halves must be equal", line.CGST, line.SGST)
	}
	if line.CGST != 9.00 {
		t.Errorf("CGST = %v, want 9.00", line.CGST)
	}
}

func TestComputeUnpricedItemsExcluded(t *testing.T) {
	items := []LineItem{
		priced("CBC Panel", ItemLabTest, 1, 300, 0),
		{Type: ItemMedicine, Name: "Rare Import", Quantity: 1}, // no price yet
	}

	comp, err := Compute(0, items, 0)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if comp.Subtotal != 300 {
		t.Errorf("Subtotal = %v, want 300: unpriced items contribute nothing", comp.Subtotal)
	}
	if len(comp.Lines) != 1 {
		t.Errorf("len(Lines) = %d, want 1", len(comp.Lines))
	}
	if len(comp.Unpriced) != 1 || comp.Unpriced[0].Name != "Rare Import" {
		t.Errorf("Unpriced = %+v, want the import carried through", comp.Unpriced)
	}
}

func TestComputeZeroFeeOmitsConsultationLine(t *testing.T) {
	comp, err := Compute(0, nil, 0)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(comp.Lines) != 0 {
		t.Errorf("len(Lines) = %d, want 0 for free consultation", len(comp.Lines))
	}
	if comp.FinalAmount != 0 {
		t.Errorf("FinalAmount = %v, want 0", comp.FinalAmount)
	}
}

func TestComputeDeterministic(t *testing.T) {
	items := []LineItem{
		priced("Dressing", ItemOther, 2, 75.5, 5),
		priced("Physio", ItemTherapy, 4, 250, 18),
	}

	first, err := Compute(300, items, 100)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	second, err := Compute(300, items, 100)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if first.FinalAmount != second.FinalAmount || first.CGSTTotal != second.CGSTTotal {
		t.Errorf("same inputs gave %v/%v then %v/%v",
			first.FinalAmount, first.CGSTTotal, second.FinalAmount, second.CGSTTotal)
	}
}

func TestComputeValidation(t *testing.T) {
	negPrice := -5.0
	badRate := 120.0
	okPrice := 10.0

	tests := []struct {
		name     string
		fee      float64
		items    []LineItem
		discount float64
		wantErr  error
	}{
		{"negative fee", -1, nil, 0, ErrNegativeFee},
		{"negative discount", 0, nil, -10, ErrNegativeDiscount},
		{"negative price", 0, []LineItem{{Name: "x", Quantity: 1, UnitPrice: &negPrice}}, 0, ErrNegativePrice},
		{"zero quantity", 0, []LineItem{{Name: "x", Quantity: 0, UnitPrice: &okPrice}}, 0, ErrInvalidQuantity},
		{"gst rate over 100", 0, []LineItem{{Name: "x", Quantity: 1, UnitPrice: &okPrice, GSTRate: &badRate}}, 0, ErrInvalidGSTRate},
		{"discount exceeds total", 100, nil, 200, ErrDiscountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.fee, tt.items, tt.discount)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComputeDiscountEqualToTotalIsFine(t *testing.T) {
	comp, err := Compute(100, nil, 100)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if comp.FinalAmount != 0 {
		t.Errorf("FinalAmount = %v, want 0", comp.FinalAmount)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.014, 1.01},
		{2.675001, 2.68},
		{2.674999, 2.67},
		{0, 0},
		{99.999, 100},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
