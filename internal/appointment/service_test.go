package appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mockRepo implements Repository in memory with the same capacity semantics
// the conditional UPDATE gives the real one.
type mockRepo struct {
	mu            sync.Mutex
	maxTokens     int
	currentTokens int
	prefix        string
	active        bool
	patients      map[uuid.UUID]bool
	appointments  map[uuid.UUID]*Appointment
	events        []EventLog
	releaseCalls  int
}

func newMockRepo(prefix string, maxTokens int) *mockRepo {
	return &mockRepo{
		maxTokens:    maxTokens,
		prefix:       prefix,
		active:       true,
		patients:     make(map[uuid.UUID]bool),
		appointments: make(map[uuid.UUID]*Appointment),
	}
}

func (m *mockRepo) BookToken(ctx context.Context, sessionID, patientID uuid.UUID, details BookingDetails) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return nil, ErrSessionInactive
	}
	if m.currentTokens >= m.maxTokens {
		return nil, ErrCapacityExceeded
	}
	m.currentTokens++

	appt := &Appointment{
		ID:          uuid.New(),
		TokenNumber: m.prefix + strconv.Itoa(m.currentTokens),
		SessionID:   sessionID,
		PatientID:   patientID,
		Status:      StatusScheduled,
		Priority:    details.Priority,
		Type:        details.Type,
		Notes:       details.Notes,
	}
	m.appointments[appt.ID] = appt
	return appt, nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	appt, ok := m.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *appt
	return &cp, nil
}

func (m *mockRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var entries []QueueEntry
	for _, appt := range m.appointments {
		if appt.SessionID == sessionID {
			entries = append(entries, QueueEntry{Appointment: *appt})
		}
	}
	return entries, nil
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	return nil, nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	appt, ok := m.appointments[id]
	if !ok || appt.Status != from {
		return nil, ErrAppointmentNotFound
	}
	appt.Status = to
	cp := *appt
	return &cp, nil
}

func (m *mockRepo) ReleaseSlot(ctx context.Context, sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseCalls++
	if m.currentTokens > 0 {
		m.currentTokens--
	}
	return nil
}

func (m *mockRepo) PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.patients[patientID], nil
}

func (m *mockRepo) InsertEvent(ctx context.Context, ev EventLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

// mutexLocker serializes per session with plain mutexes, standing in for the
// Redis locker.
type mutexLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newMutexLocker() *mutexLocker {
	return &mutexLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *mutexLocker) WithSessionLock(ctx context.Context, sessionID uuid.UUID, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}

func newTestService(repo *mockRepo, policy Policy) *Service {
	return NewService(repo, newMutexLocker(), policy, zap.NewNop())
}

func TestBookTokenAssignsSequentialTokens(t *testing.T) {
	repo := newMockRepo("A", 10)
	svc := newTestService(repo, Policy{})

	sessionID := uuid.New()
	patientID := uuid.New()
	repo.patients[patientID] = true

	for i := 1; i <= 3; i++ {
		appt, err := svc.BookToken(context.Background(), sessionID, patientID, BookingDetails{})
		if err != nil {
			t.Fatalf("booking %d failed: %v", i, err)
		}
		want := fmt.Sprintf("A%d", i)
		if appt.TokenNumber != want {
			t.Errorf("booking %d: token = %s, want %s", i, appt.TokenNumber, want)
		}
		if appt.Status != StatusScheduled {
			t.Errorf("booking %d: status = %s, want SCHEDULED", i, appt.Status)
		}
		if appt.Priority != PriorityNormal {
			t.Errorf("booking %d: priority = %s, want NORMAL default", i, appt.Priority)
		}
	}
}

func TestBookTokenRefusalsAndValidation(t *testing.T) {
	repo := newMockRepo("A", 1)
	svc := newTestService(repo, Policy{})

	sessionID := uuid.New()
	known := uuid.New()
	repo.patients[known] = true

	if _, err := svc.BookToken(context.Background(), sessionID, uuid.New(), BookingDetails{}); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("unknown patient: err = %v, want ErrPatientNotFound", err)
	}

	if _, err := svc.BookToken(context.Background(), sessionID, known, BookingDetails{Priority: "URGENT"}); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("bad priority: err = %v, want ErrInvalidPriority", err)
	}

	if _, err := svc.BookToken(context.Background(), sessionID, known, BookingDetails{}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if _, err := svc.BookToken(context.Background(), sessionID, known, BookingDetails{}); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("full session: err = %v, want ErrCapacityExceeded", err)
	}

	repo.active = false
	repo.currentTokens = 0
	if _, err := svc.BookToken(context.Background(), sessionID, known, BookingDetails{}); !errors.Is(err, ErrSessionInactive) {
		t.Errorf("inactive session: err = %v, want ErrSessionInactive", err)
	}
}

func TestBookTokenNeverOverbooksUnderContention(t *testing.T) {
	const capacity = 25
	const contenders = 100

	repo := newMockRepo("S", capacity)
	svc := newTestService(repo, Policy{})

	sessionID := uuid.New()
	patientID := uuid.New()
	repo.patients[patientID] = true

	var wg sync.WaitGroup
	results := make(chan error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.BookToken(context.Background(), sessionID, patientID, BookingDetails{})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, refused int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrCapacityExceeded):
			refused++
		default:
			t.Fatalf("unexpected booking error: %v", err)
		}
	}

	if succeeded != capacity {
		t.Errorf("successful bookings = %d, want exactly %d", succeeded, capacity)
	}
	if refused != contenders-capacity {
		t.Errorf("refused bookings = %d, want %d", refused, contenders-capacity)
	}
	if repo.currentTokens != capacity {
		t.Errorf("session counter = %d, want %d", repo.currentTokens, capacity)
	}

	// Token numbers must be unique.
	seen := make(map[string]bool)
	for _, appt := range repo.appointments {
		if seen[appt.TokenNumber] {
			t.Errorf("duplicate token number %s", appt.TokenNumber)
		}
		seen[appt.TokenNumber] = true
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	repo := newMockRepo("A", 10)
	svc := newTestService(repo, Policy{})

	sessionID := uuid.New()
	patientID := uuid.New()
	repo.patients[patientID] = true

	appt, err := svc.BookToken(context.Background(), sessionID, patientID, BookingDetails{})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	// SCHEDULED -> ARRIVED -> WAITING -> IN_CONSULTATION -> COMPLETED
	for _, to := range []Status{StatusArrived, StatusWaiting, StatusInConsultation, StatusCompleted} {
		updated, err := svc.UpdateStatus(context.Background(), appt.ID, to)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", to, err)
		}
		if updated.Status != to {
			t.Fatalf("status = %s, want %s", updated.Status, to)
		}
	}

	// COMPLETED is terminal.
	if _, err := svc.UpdateStatus(context.Background(), appt.ID, StatusArrived); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("transition out of COMPLETED: err = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestUpdateStatusRejectsSkips(t *testing.T) {
	repo := newMockRepo("A", 10)
	svc := newTestService(repo, Policy{})

	sessionID := uuid.New()
	patientID := uuid.New()
	repo.patients[patientID] = true

	appt, _ := svc.BookToken(context.Background(), sessionID, patientID, BookingDetails{})

	if _, err := svc.UpdateStatus(context.Background(), appt.ID, StatusCompleted); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("SCHEDULED -> COMPLETED: err = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestCancelKeepsSlotByDefault(t *testing.T) {
	repo := newMockRepo("A", 10)
	svc := newTestService(repo, Policy{RestoreOnCancel: false})

	sessionID := uuid.New()
	patientID := uuid.New()
	repo.patients[patientID] = true

	appt, _ := svc.BookToken(context.Background(), sessionID, patientID, BookingDetails{})

	cancelled, err := svc.Cancel(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}
	if repo.releaseCalls != 0 {
		t.Errorf("slot released %d times, want 0 with restore disabled", repo.releaseCalls)
	}
	if repo.currentTokens != 1 {
		t.Errorf("counter = %d, want 1: cancelled tokens are not reused", repo.currentTokens)
	}
}

func TestCancelRestoresSlotWhenPolicySays(t *testing.T) {
	repo := newMockRepo("A", 10)
	svc := newTestService(repo, Policy{RestoreOnCancel: true})

	sessionID := uuid.New()
	patientID := uuid.New()
	repo.patients[patientID] = true

	appt, _ := svc.BookToken(context.Background(), sessionID, patientID, BookingDetails{})

	if _, err := svc.Cancel(context.Background(), appt.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if repo.releaseCalls != 1 {
		t.Errorf("slot released %d times, want 1", repo.releaseCalls)
	}
}

func TestCancelRefusedForTerminalStates(t *testing.T) {
	repo := newMockRepo("A", 10)
	svc := newTestService(repo, Policy{})

	sessionID := uuid.New()
	patientID := uuid.New()
	repo.patients[patientID] = true

	appt, _ := svc.BookToken(context.Background(), sessionID, patientID, BookingDetails{})
	for _, to := range []Status{StatusArrived, StatusInConsultation, StatusCompleted} {
		if _, err := svc.UpdateStatus(context.Background(), appt.ID, to); err != nil {
			t.Fatalf("transition to %s failed: %v", to, err)
		}
	}

	if _, err := svc.Cancel(context.Background(), appt.ID); !errors.Is(err, ErrNotCancellable) {
		t.Errorf("cancel completed appointment: err = %v, want ErrNotCancellable", err)
	}
}

func TestListQueueOrdersByPriorityThenToken(t *testing.T) {
	repo := newMockRepo("A", 10)
	svc := newTestService(repo, Policy{})

	sessionID := uuid.New()
	patientID := uuid.New()
	repo.patients[patientID] = true

	priorities := []Priority{PriorityNormal, PriorityNormal, PriorityEmergency, PriorityLow, PriorityHigh}
	for _, p := range priorities {
		if _, err := svc.BookToken(context.Background(), sessionID, patientID, BookingDetails{Priority: p}); err != nil {
			t.Fatalf("booking failed: %v", err)
		}
	}

	entries, err := svc.ListQueue(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("list queue failed: %v", err)
	}

	// A3 is the emergency, A5 the high, then normals A1 A2, then low A4.
	want := []string{"A3", "A5", "A1", "A2", "A4"}
	if len(entries) != len(want) {
		t.Fatalf("queue length = %d, want %d", len(entries), len(want))
	}
	for i, token := range want {
		if entries[i].TokenNumber != token {
			t.Errorf("queue position %d: got %s, want %s", i, entries[i].TokenNumber, token)
		}
	}
}

func TestBookTokenWritesEventLog(t *testing.T) {
	repo := newMockRepo("A", 10)
	svc := newTestService(repo, Policy{})

	sessionID := uuid.New()
	patientID := uuid.New()
	repo.patients[patientID] = true

	if _, err := svc.BookToken(context.Background(), sessionID, patientID, BookingDetails{}); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if len(repo.events) != 1 || repo.events[0].EventType != EventTokenIssued {
		t.Fatalf("events = %+v, want one TOKEN_ISSUED", repo.events)
	}
}
