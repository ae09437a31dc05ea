package prescription

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockRepo struct {
	prescriptions map[uuid.UUID]*Prescription
}

func newMockRepo() *mockRepo {
	return &mockRepo{prescriptions: make(map[uuid.UUID]*Prescription)}
}

func (m *mockRepo) Create(ctx context.Context, p *Prescription) (*Prescription, error) {
	cp := *p
	cp.ID = uuid.New()
	cp.Status = StatusDraft
	m.prescriptions[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	p, ok := m.prescriptions[id]
	if !ok {
		return nil, ErrPrescriptionNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, p *Prescription) (*Prescription, error) {
	stored, ok := m.prescriptions[p.ID]
	if !ok {
		return nil, ErrPrescriptionNotFound
	}
	cp := *p
	cp.Status = stored.Status
	m.prescriptions[p.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Prescription, error) {
	p, ok := m.prescriptions[id]
	if !ok || p.Status != from {
		return nil, ErrPrescriptionNotFound
	}
	p.Status = to
	cp := *p
	return &cp, nil
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Prescription, error) {
	var result []Prescription
	for _, p := range m.prescriptions {
		if p.PatientID == patientID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func draft() *Prescription {
	return &Prescription{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Medicines: json.RawMessage(`[{"name":"Paracetamol 500mg","quantity":2}]`),
	}
}

func TestCreateValidatesIdentifiers(t *testing.T) {
	svc := NewService(newMockRepo(), zap.NewNop())

	if _, err := svc.Create(context.Background(), &Prescription{DoctorID: uuid.New()}); !errors.Is(err, ErrPatientRequired) {
		t.Errorf("missing patient: err = %v, want ErrPatientRequired", err)
	}
	if _, err := svc.Create(context.Background(), &Prescription{PatientID: uuid.New()}); !errors.Is(err, ErrDoctorRequired) {
		t.Errorf("missing doctor: err = %v, want ErrDoctorRequired", err)
	}
}

func TestCreateRejectsMalformedItems(t *testing.T) {
	svc := NewService(newMockRepo(), zap.NewNop())

	p := draft()
	p.Medicines = json.RawMessage(`{"not":"a list"}`)

	if _, err := svc.Create(context.Background(), p); err == nil {
		t.Error("malformed medicines payload should be rejected at create time")
	}
}

func TestCreateStartsAsDraft(t *testing.T) {
	svc := NewService(newMockRepo(), zap.NewNop())

	created, err := svc.Create(context.Background(), draft())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != StatusDraft {
		t.Errorf("Status = %s, want DRAFT", created.Status)
	}
}

func TestUpdateAllowedWhileDraft(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, zap.NewNop())

	created, _ := svc.Create(context.Background(), draft())

	diagnosis := "Viral fever"
	created.Diagnosis = &diagnosis

	updated, err := svc.Update(context.Background(), created)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Diagnosis == nil || *updated.Diagnosis != diagnosis {
		t.Errorf("Diagnosis = %v, want %q", updated.Diagnosis, diagnosis)
	}
}

func TestUpdateRefusedAfterCompletion(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, zap.NewNop())

	created, _ := svc.Create(context.Background(), draft())
	if _, err := svc.Complete(context.Background(), created.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	notes := "late addition"
	created.Notes = &notes
	if _, err := svc.Update(context.Background(), created); !errors.Is(err, ErrPrescriptionCompleted) {
		t.Errorf("edit after completion: err = %v, want ErrPrescriptionCompleted", err)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, zap.NewNop())

	created, _ := svc.Create(context.Background(), draft())

	first, err := svc.Complete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("first complete failed: %v", err)
	}
	if first.Status != StatusCompleted {
		t.Errorf("Status = %s, want COMPLETED", first.Status)
	}

	second, err := svc.Complete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("second complete failed: %v", err)
	}
	if second.Status != StatusCompleted {
		t.Errorf("second complete: Status = %s, want COMPLETED", second.Status)
	}
}

func TestCompleteUnknownPrescription(t *testing.T) {
	svc := NewService(newMockRepo(), zap.NewNop())

	if _, err := svc.Complete(context.Background(), uuid.New()); !errors.Is(err, ErrPrescriptionNotFound) {
		t.Errorf("err = %v, want ErrPrescriptionNotFound", err)
	}
}
