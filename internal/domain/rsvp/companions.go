package rsvp

// ResizeCompanions returns a companion list of exactly n entries.
// Entries at indices still in range are kept unchanged, growth appends blank
// adult entries, shrinking truncates from the end. Resizing to the current
// length returns the list as is.
func ResizeCompanions(list []Companion, n int) []Companion {
	if n < 0 {
		n = 0
	}
	if len(list) == n {
		if list == nil {
			return []Companion{}
		}
		return list
	}

	out := make([]Companion, n)
	copied := copy(out, list)
	for i := copied; i < n; i++ {
		out[i] = Companion{Name: "", Type: CompanionAdult}
	}
	return out
}
