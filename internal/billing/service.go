package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sandy-Maxx/hospital-sub001/internal/prescription"
)

// PrescriptionSource is the slice of the prescription store billing needs.
type PrescriptionSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*prescription.Prescription, error)
}

// PriceResolution attaches a price to a prescription line, matched by name.
// Lines left unresolved stay unpriced and are excluded from the bill.
type PriceResolution struct {
	Name      string
	Quantity  int // 0 keeps the quantity derived from the prescription
	UnitPrice float64
	GSTRate   *float64
}

type Service struct {
	repo          Repository
	prescriptions PrescriptionSource
	logger        *zap.Logger
}

func NewService(repo Repository, prescriptions PrescriptionSource, logger *zap.Logger) *Service {
	return &Service{repo: repo, prescriptions: prescriptions, logger: logger}
}

// DraftLines derives unpriced billable lines from a prescription's medicine,
// lab test and therapy lists.
func DraftLines(p *prescription.Prescription) ([]LineItem, error) {
	var lines []LineItem

	medicines, err := p.MedicineItems()
	if err != nil {
		return nil, fmt.Errorf("decode medicines: %w", err)
	}
	for _, m := range medicines {
		qty := m.Quantity
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, LineItem{Type: ItemMedicine, Name: m.Name, Quantity: qty})
	}

	labTests, err := p.LabTestItems()
	if err != nil {
		return nil, fmt.Errorf("decode lab tests: %w", err)
	}
	for _, lt := range labTests {
		lines = append(lines, LineItem{Type: ItemLabTest, Name: lt.Name, Quantity: 1})
	}

	therapies, err := p.TherapyItems()
	if err != nil {
		return nil, fmt.Errorf("decode therapies: %w", err)
	}
	for _, t := range therapies {
		qty := t.Sessions
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, LineItem{Type: ItemTherapy, Name: t.Name, Quantity: qty})
	}

	return lines, nil
}

// applyPricing overlays resolutions onto draft lines by case-insensitive name.
// Resolutions that match nothing become OTHER lines so ad hoc charges (dressing,
// registration) can still be billed.
func applyPricing(lines []LineItem, pricing []PriceResolution) []LineItem {
	used := make([]bool, len(pricing))

	for i := range lines {
		for j, pr := range pricing {
			if used[j] || !strings.EqualFold(lines[i].Name, pr.Name) {
				continue
			}
			price := pr.UnitPrice
			lines[i].UnitPrice = &price
			lines[i].GSTRate = pr.GSTRate
			if pr.Quantity > 0 {
				lines[i].Quantity = pr.Quantity
			}
			used[j] = true
			break
		}
	}

	for j, pr := range pricing {
		if used[j] {
			continue
		}
		price := pr.UnitPrice
		qty := pr.Quantity
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, LineItem{
			Type:      ItemOther,
			Name:      pr.Name,
			Quantity:  qty,
			UnitPrice: &price,
			GSTRate:   pr.GSTRate,
		})
	}

	return lines
}

// CreateBill computes and persists the bill for a prescription. One bill per
// prescription, immutable once written.
func (s *Service) CreateBill(ctx context.Context, prescriptionID uuid.UUID, consultationFee float64, pricing []PriceResolution, discount float64) (*Bill, []BillItem, error) {
	presc, err := s.prescriptions.GetByID(ctx, prescriptionID)
	if err != nil {
		return nil, nil, err
	}

	lines, err := DraftLines(presc)
	if err != nil {
		return nil, nil, err
	}
	lines = applyPricing(lines, pricing)

	comp, err := Compute(consultationFee, lines, discount)
	if err != nil {
		return nil, nil, err
	}

	bill := &Bill{
		PrescriptionID:  presc.ID,
		PatientID:       presc.PatientID,
		ConsultationFee: comp.ConsultationFee,
		Subtotal:        comp.Subtotal,
		CGSTTotal:       comp.CGSTTotal,
		SGSTTotal:       comp.SGSTTotal,
		Discount:        comp.Discount,
		FinalAmount:     comp.FinalAmount,
	}

	items := make([]BillItem, 0, len(comp.Lines))
	for _, line := range comp.Lines {
		items = append(items, BillItem{
			Type:      line.Type,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			GSTRate:   line.GSTRate,
			LineTotal: line.LineTotal,
			CGST:      line.CGST,
			SGST:      line.SGST,
		})
	}

	created, err := s.repo.CreateBill(ctx, bill, items)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("bill created",
		zap.String("bill_id", created.ID.String()),
		zap.String("prescription_id", prescriptionID.String()),
		zap.Float64("final_amount", created.FinalAmount),
		zap.Int("unpriced_lines", len(comp.Unpriced)))

	return created, items, nil
}

// Preview runs the computation without persisting anything.
func (s *Service) Preview(ctx context.Context, prescriptionID uuid.UUID, consultationFee float64, pricing []PriceResolution, discount float64) (*Computation, error) {
	presc, err := s.prescriptions.GetByID(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}

	lines, err := DraftLines(presc)
	if err != nil {
		return nil, err
	}
	lines = applyPricing(lines, pricing)

	return Compute(consultationFee, lines, discount)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bill, []BillItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByPrescription(ctx context.Context, prescriptionID uuid.UUID) (*Bill, []BillItem, error) {
	return s.repo.GetByPrescription(ctx, prescriptionID)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Bill, error) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}

	bills, err := s.repo.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bills by patient: %w", err)
	}
	return bills, nil
}
