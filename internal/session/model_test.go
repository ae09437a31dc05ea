package session

import "testing"

func TestAvailableSlots(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		current int
		want    int
	}{
		{"empty session", 50, 0, 50},
		{"partially booked", 50, 20, 30},
		{"full", 50, 50, 0},
		{"counter past capacity clamps to zero", 50, 53, 0},
		{"single slot", 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{MaxTokens: tt.max, CurrentTokens: tt.current}
			if got := s.AvailableSlots(); got != tt.want {
				t.Errorf("AvailableSlots() = %d, want %d", got, tt.want)
			}
		})
	}
}
