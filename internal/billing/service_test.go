package billing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sandy-Maxx/hospital-sub001/internal/prescription"
)

type mockBillRepo struct {
	bills map[uuid.UUID]*Bill // keyed by prescription ID
	items map[uuid.UUID][]BillItem
}

func newMockBillRepo() *mockBillRepo {
	return &mockBillRepo{
		bills: make(map[uuid.UUID]*Bill),
		items: make(map[uuid.UUID][]BillItem),
	}
}

func (m *mockBillRepo) CreateBill(ctx context.Context, bill *Bill, items []BillItem) (*Bill, error) {
	if _, ok := m.bills[bill.PrescriptionID]; ok {
		return nil, ErrBillExists
	}
	cp := *bill
	cp.ID = uuid.New()
	m.bills[bill.PrescriptionID] = &cp
	m.items[cp.ID] = items
	return &cp, nil
}

func (m *mockBillRepo) GetByID(ctx context.Context, id uuid.UUID) (*Bill, []BillItem, error) {
	for _, b := range m.bills {
		if b.ID == id {
			return b, m.items[id], nil
		}
	}
	return nil, nil, ErrBillNotFound
}

func (m *mockBillRepo) GetByPrescription(ctx context.Context, prescriptionID uuid.UUID) (*Bill, []BillItem, error) {
	b, ok := m.bills[prescriptionID]
	if !ok {
		return nil, nil, ErrBillNotFound
	}
	return b, m.items[b.ID], nil
}

func (m *mockBillRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Bill, error) {
	var result []Bill
	for _, b := range m.bills {
		if b.PatientID == patientID {
			result = append(result, *b)
		}
	}
	return result, nil
}

type mockPrescriptions struct {
	byID map[uuid.UUID]*prescription.Prescription
}

func (m *mockPrescriptions) GetByID(ctx context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, prescription.ErrPrescriptionNotFound
	}
	return p, nil
}

func testPrescription() *prescription.Prescription {
	return &prescription.Prescription{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Medicines: json.RawMessage(`[{"name":"Paracetamol 500mg","quantity":2},{"name":"Cough Syrup"}]`),
		LabTests:  json.RawMessage(`[{"name":"CBC Panel"}]`),
		Therapies: json.RawMessage(`[{"name":"Physiotherapy","sessions":4}]`),
		Status:    prescription.StatusCompleted,
	}
}

func newTestBillingService(p *prescription.Prescription) (*Service, *mockBillRepo) {
	repo := newMockBillRepo()
	src := &mockPrescriptions{byID: map[uuid.UUID]*prescription.Prescription{p.ID: p}}
	return NewService(repo, src, zap.NewNop()), repo
}

func TestDraftLines(t *testing.T) {
	lines, err := DraftLines(testPrescription())
	if err != nil {
		t.Fatalf("DraftLines failed: %v", err)
	}

	if len(lines) != 4 {
		t.Fatalf("len(lines) = %d, want 4", len(lines))
	}

	// Medicines keep their quantity; a missing quantity defaults to 1.
	if lines[0].Type != ItemMedicine || lines[0].Quantity != 2 {
		t.Errorf("line 0 = %+v, want medicine qty 2", lines[0])
	}
	if lines[1].Name != "Cough Syrup" || lines[1].Quantity != 1 {
		t.Errorf("line 1 = %+v, want qty defaulted to 1", lines[1])
	}
	if lines[2].Type != ItemLabTest {
		t.Errorf("line 2 = %+v, want lab test", lines[2])
	}
	// Therapy quantity comes from the session count.
	if lines[3].Type != ItemTherapy || lines[3].Quantity != 4 {
		t.Errorf("line 3 = %+v, want therapy qty 4", lines[3])
	}

	// Everything starts unpriced.
	for i, l := range lines {
		if l.Priced() {
			t.Errorf("line %d should start unpriced", i)
		}
	}
}

func TestApplyPricingMatchesByNameCaseInsensitive(t *testing.T) {
	lines := []LineItem{
		{Type: ItemMedicine, Name: "Paracetamol 500mg", Quantity: 2},
		{Type: ItemLabTest, Name: "CBC Panel", Quantity: 1},
	}
	rate := 12.0

	lines = applyPricing(lines, []PriceResolution{
		{Name: "PARACETAMOL 500MG", UnitPrice: 10, GSTRate: &rate},
	})

	if !lines[0].Priced() || *lines[0].UnitPrice != 10 {
		t.Errorf("line 0 = %+v, want priced at 10", lines[0])
	}
	if lines[1].Priced() {
		t.Errorf("line 1 should stay unpriced")
	}
}

func TestApplyPricingUnmatchedBecomesOtherLine(t *testing.T) {
	lines := applyPricing(nil, []PriceResolution{
		{Name: "Wound Dressing", UnitPrice: 150},
	})

	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
	if lines[0].Type != ItemOther || lines[0].Quantity != 1 || *lines[0].UnitPrice != 150 {
		t.Errorf("ad hoc line = %+v", lines[0])
	}
}

func TestApplyPricingQuantityOverride(t *testing.T) {
	lines := []LineItem{{Type: ItemMedicine, Name: "Ibuprofen", Quantity: 1}}

	lines = applyPricing(lines, []PriceResolution{
		{Name: "Ibuprofen", Quantity: 10, UnitPrice: 5},
	})

	if lines[0].Quantity != 10 {
		t.Errorf("quantity = %d, want override to 10", lines[0].Quantity)
	}
}

func TestCreateBillPersistsOnlyPricedLines(t *testing.T) {
	p := testPrescription()
	svc, repo := newTestBillingService(p)

	rate := 12.0
	bill, items, err := svc.CreateBill(context.Background(), p.ID, 500,
		[]PriceResolution{
			{Name: "Paracetamol 500mg", UnitPrice: 100, GSTRate: &rate},
			{Name: "CBC Panel", UnitPrice: 300},
		}, 50)
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	// Consultation + paracetamol + CBC; syrup and physio stay unpriced.
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}

	// fee 500 + 2x100 + 300 = 1000; GST 24 split 12/12; minus 50.
	if bill.Subtotal != 1000 {
		t.Errorf("Subtotal = %v, want 1000", bill.Subtotal)
	}
	if bill.FinalAmount != 974 {
		t.Errorf("FinalAmount = %v, want 974", bill.FinalAmount)
	}
	if bill.PatientID != p.PatientID {
		t.Errorf("PatientID = %v, want %v", bill.PatientID, p.PatientID)
	}

	stored, _, err := repo.GetByPrescription(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("stored bill missing: %v", err)
	}
	if stored.ID != bill.ID {
		t.Errorf("stored bill ID mismatch")
	}
}

func TestCreateBillRefusesSecondBill(t *testing.T) {
	p := testPrescription()
	svc, _ := newTestBillingService(p)

	if _, _, err := svc.CreateBill(context.Background(), p.ID, 100, nil, 0); err != nil {
		t.Fatalf("first bill failed: %v", err)
	}
	if _, _, err := svc.CreateBill(context.Background(), p.ID, 100, nil, 0); !errors.Is(err, ErrBillExists) {
		t.Errorf("second bill: err = %v, want ErrBillExists", err)
	}
}

func TestCreateBillUnknownPrescription(t *testing.T) {
	svc, _ := newTestBillingService(testPrescription())

	_, _, err := svc.CreateBill(context.Background(), uuid.New(), 100, nil, 0)
	if !errors.Is(err, prescription.ErrPrescriptionNotFound) {
		t.Errorf("err = %v, want ErrPrescriptionNotFound", err)
	}
}

func TestPreviewDoesNotPersist(t *testing.T) {
	p := testPrescription()
	svc, repo := newTestBillingService(p)

	comp, err := svc.Preview(context.Background(), p.ID, 200, nil, 0)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if comp.FinalAmount != 200 {
		t.Errorf("FinalAmount = %v, want 200", comp.FinalAmount)
	}
	// All four prescription lines are still unpriced.
	if len(comp.Unpriced) != 4 {
		t.Errorf("len(Unpriced) = %d, want 4", len(comp.Unpriced))
	}

	if len(repo.bills) != 0 {
		t.Errorf("preview persisted %d bills, want 0", len(repo.bills))
	}
}
