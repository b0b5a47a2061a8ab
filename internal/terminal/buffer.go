package terminal

import (
	"sync"

	"pkt.systems/ravenshell/schema"
)

// BufferView is a snapshot of a buffer's visible state.
type BufferView struct {
	Lines        []schema.Line
	TotalLines   int
	ScrollOffset int
	AtBottom     bool
}

// Hero is the last identity handed to the hero view.
type Hero struct {
	Faction schema.Faction
	Name    string
}

// Buffer is a Sink that keeps scrollback lines and scroll state.
// ScrollOffset is the number of lines from the bottom; 0 means at bottom.
type Buffer struct {
	mu           sync.Mutex
	lines        []schema.Line
	scrollOffset int
	maxLines     int
	locked       bool
	hero         *Hero
	transitions  int
}

// NewBuffer returns a buffer bounded to maxLines, or the default when maxLines <= 0.
func NewBuffer(maxLines int) *Buffer {
	if maxLines <= 0 {
		maxLines = schema.DefaultBufferMaxLines
	}
	return &Buffer{maxLines: maxLines}
}

// Emit appends lines. If the buffer is scrolled up, the scroll offset is
// increased to keep the view anchored.
func (b *Buffer) Emit(lines ...schema.Line) {
	if len(lines) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, lines...)
	if b.scrollOffset > 0 {
		b.scrollOffset += len(lines)
	}
	maxLines := b.maxLines
	if maxLines <= 0 {
		maxLines = schema.DefaultBufferMaxLines
	}
	if len(b.lines) > maxLines {
		trim := len(b.lines) - maxLines
		b.lines = append([]schema.Line(nil), b.lines[trim:]...)
		if b.scrollOffset > len(b.lines) {
			b.scrollOffset = len(b.lines)
		}
	}
}

// Clear drops all scrollback.
func (b *Buffer) Clear() {
	b.mu.Lock()
	b.lines = nil
	b.scrollOffset = 0
	b.mu.Unlock()
}

// SetLocked records the input lock.
func (b *Buffer) SetLocked(locked bool) {
	b.mu.Lock()
	b.locked = locked
	b.mu.Unlock()
}

// Transition records the hero hand-off.
func (b *Buffer) Transition(faction schema.Faction, name string) {
	b.mu.Lock()
	b.hero = &Hero{Faction: faction, Name: name}
	b.transitions++
	b.mu.Unlock()
}

// Locked reports the last lock state seen.
func (b *Buffer) Locked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// LastHero returns the most recent transition target and how many
// transitions were seen.
func (b *Buffer) LastHero() (Hero, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hero == nil {
		return Hero{}, b.transitions
	}
	return *b.hero, b.transitions
}

// Len returns the number of stored lines.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Lines returns a copy of every stored line.
func (b *Buffer) Lines() []schema.Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]schema.Line(nil), b.lines...)
}

// ResetScroll returns the view to the bottom.
func (b *Buffer) ResetScroll() {
	b.mu.Lock()
	b.scrollOffset = 0
	b.mu.Unlock()
}

// Scroll adjusts the scroll offset by delta. Positive delta scrolls up (older lines),
// negative delta scrolls down. Limit is the viewport height.
func (b *Buffer) Scroll(delta, limit int) {
	b.mu.Lock()
	b.scrollOffset = clampScroll(b.scrollOffset+delta, len(b.lines), limit)
	b.mu.Unlock()
}

// Snapshot returns a view of the buffer for the given viewport limit.
func (b *Buffer) Snapshot(limit int) BufferView {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := len(b.lines)
	if limit <= 0 || limit > total {
		limit = total
	}

	if max := maxScroll(total, limit); b.scrollOffset > max {
		b.scrollOffset = max
	}

	end := total - b.scrollOffset
	if end < 0 {
		end = 0
	}
	start := end - limit
	if start < 0 {
		start = 0
	}

	lines := make([]schema.Line, end-start)
	copy(lines, b.lines[start:end])

	return BufferView{
		Lines:        lines,
		TotalLines:   total,
		ScrollOffset: b.scrollOffset,
		AtBottom:     b.scrollOffset == 0,
	}
}

func maxScroll(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	if total <= limit {
		return 0
	}
	return total - limit
}

func clampScroll(offset, total, limit int) int {
	max := maxScroll(total, limit)
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}
