package appointment

import "sort"

// SortQueue orders a session's queue for display: priority rank ascending,
// then token number lexicographically ascending. Assignment order is FIFO by
// arrival; this ordering only governs how staff see the queue.
func SortQueue(entries []QueueEntry) {
	sort.Slice(entries, func(i, j int) bool {
		ri, rj := entries[i].Priority.Rank(), entries[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return entries[i].TokenNumber < entries[j].TokenNumber
	})
}
