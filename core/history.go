package core

import "pkt.systems/ravenshell/schema"

// HistoryUp moves the cursor towards older entries, clamped at the oldest,
// and returns the buffer contents to show.
func HistoryUp(state schema.State) (schema.State, string) {
	st := state.Clone()
	if len(st.History) == 0 {
		st.HistoryCursor = -1
		return st, ""
	}
	if st.HistoryCursor < len(st.History)-1 {
		st.HistoryCursor++
	}
	if st.HistoryCursor < 0 {
		st.HistoryCursor = 0
	}
	return st, st.History[st.HistoryCursor]
}

// HistoryDown moves the cursor towards newer entries. Moving past the most
// recent entry parks the cursor at -1 and restores an empty buffer.
func HistoryDown(state schema.State) (schema.State, string) {
	st := state.Clone()
	if st.HistoryCursor > len(st.History)-1 {
		st.HistoryCursor = len(st.History) - 1
	}
	if st.HistoryCursor > 0 {
		st.HistoryCursor--
		return st, st.History[st.HistoryCursor]
	}
	st.HistoryCursor = -1
	return st, ""
}
