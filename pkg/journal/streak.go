package journal

// ComputeStreak derives the streak from the set of calendar days that have
// at least one entry. It is pure: identical inputs always produce identical
// output, and there is no error channel.
//
// previousLongest carries the historical maximum forward, so deleting old
// entries never erases a record that was already achieved.
//
// A streak counts consecutive days ending today. When today has no entry yet
// but yesterday does, the streak is still alive: the run ending yesterday is
// counted in full, so a reload of persisted state on the following morning
// reports the same streak the user went to bed with.
//
// Future-dated days are passed through as given and simply never reached by
// the backward walk unless today itself has an entry.
func ComputeStreak(days map[Day]bool, today Day, previousLongest int) StreakState {
	if len(days) == 0 {
		return StreakState{Current: 0, Longest: previousLongest}
	}

	var start Day
	switch {
	case days[today]:
		start = today
	case days[today.Prev()]:
		start = today.Prev()
	default:
		return StreakState{Current: 0, Longest: previousLongest}
	}

	current := runLength(days, start)
	return StreakState{
		Current:       current,
		Longest:       max(previousLongest, current),
		LastEntryDate: &start,
	}
}

// runLength counts consecutive days present in the set, walking backward
// from start inclusive.
func runLength(days map[Day]bool, start Day) int {
	n := 0
	for d := start; days[d]; d = d.Prev() {
		n++
	}
	return n
}
