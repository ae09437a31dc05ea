package appointment

import "testing"

func entry(token string, priority Priority) QueueEntry {
	return QueueEntry{Appointment: Appointment{TokenNumber: token, Priority: priority}}
}

func TestSortQueue(t *testing.T) {
	entries := []QueueEntry{
		entry("A5", PriorityNormal),
		entry("A2", PriorityLow),
		entry("A9", PriorityEmergency),
		entry("A1", PriorityNormal),
		entry("A7", PriorityHigh),
		entry("A3", PriorityEmergency),
	}

	SortQueue(entries)

	want := []string{"A3", "A9", "A7", "A1", "A5", "A2"}
	for i, token := range want {
		if entries[i].TokenNumber != token {
			t.Fatalf("position %d: got %s, want %s", i, entries[i].TokenNumber, token)
		}
	}
}

func TestSortQueueSamePriorityByToken(t *testing.T) {
	entries := []QueueEntry{
		entry("B3", PriorityNormal),
		entry("B1", PriorityNormal),
		entry("B2", PriorityNormal),
	}

	SortQueue(entries)

	want := []string{"B1", "B2", "B3"}
	for i, token := range want {
		if entries[i].TokenNumber != token {
			t.Fatalf("position %d: got %s, want %s", i, entries[i].TokenNumber, token)
		}
	}
}

func TestSortQueueUnknownPrioritySinksLast(t *testing.T) {
	entries := []QueueEntry{
		entry("C1", Priority("URGENTISH")),
		entry("C2", PriorityLow),
	}

	SortQueue(entries)

	if entries[0].TokenNumber != "C2" {
		t.Fatalf("unknown priority should sort after LOW, got %s first", entries[0].TokenNumber)
	}
}

func TestPriorityRank(t *testing.T) {
	order := []Priority{PriorityEmergency, PriorityHigh, PriorityNormal, PriorityLow}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s should rank before %s", order[i-1], order[i])
		}
	}
	if Priority("BOGUS").Rank() <= PriorityLow.Rank() {
		t.Error("unknown priority should rank below LOW")
	}
}

func TestPriorityValid(t *testing.T) {
	for _, p := range []Priority{PriorityEmergency, PriorityHigh, PriorityNormal, PriorityLow} {
		if !p.Valid() {
			t.Errorf("%s should be valid", p)
		}
	}
	if Priority("").Valid() || Priority("URGENT").Valid() {
		t.Error("unknown priorities should be invalid")
	}
}
