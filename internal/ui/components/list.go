package components

// List is a scrollable cursor list over items that carry a stable key, so the
// cursor can follow an item across reloads.
type List[T any] struct {
	Items    []T
	Cursor   int
	Offset   int
	PageSize int

	key func(T) string
}

// NewList creates a list with the given page size and item key.
func NewList[T any](pageSize int, key func(T) string) *List[T] {
	return &List[T]{PageSize: pageSize, key: key}
}

// SetItems replaces the items. The cursor stays on the item it pointed at
// when that item is still present, otherwise it returns to the top. It
// reports whether the set of keys changed.
func (l *List[T]) SetItems(items []T) bool {
	changed := len(items) != len(l.Items)
	if !changed {
		for i := range items {
			if l.key(items[i]) != l.key(l.Items[i]) {
				changed = true
				break
			}
		}
	}

	current, hadCurrent := l.Current()
	l.Items = items
	if !changed {
		return false
	}
	l.Cursor, l.Offset = 0, 0
	if hadCurrent {
		l.SelectKey(l.key(current))
	}
	return true
}

// Current returns the item under the cursor.
func (l *List[T]) Current() (T, bool) {
	var zero T
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return zero, false
	}
	return l.Items[l.Cursor], true
}

// Keys returns the item keys in order.
func (l *List[T]) Keys() []string {
	keys := make([]string, len(l.Items))
	for i, item := range l.Items {
		keys[i] = l.key(item)
	}
	return keys
}

// SelectKey moves the cursor to the item with key k.
func (l *List[T]) SelectKey(k string) bool {
	for i, item := range l.Items {
		if l.key(item) == k {
			l.Select(i)
			return true
		}
	}
	return false
}

// Down moves the cursor down.
func (l *List[T]) Down() {
	if l.Cursor < len(l.Items)-1 {
		l.Select(l.Cursor + 1)
	}
}

// Up moves the cursor up.
func (l *List[T]) Up() {
	if l.Cursor > 0 {
		l.Select(l.Cursor - 1)
	}
}

// Visible returns the items on the current page.
func (l *List[T]) Visible() []T {
	if len(l.Items) == 0 {
		return nil
	}
	end := min(l.Offset+max(1, l.PageSize), len(l.Items))
	return l.Items[l.Offset:end]
}

// IsSelected reports whether the absolute index is the cursor.
func (l *List[T]) IsSelected(absIdx int) bool {
	return absIdx == l.Cursor
}

// RelToAbs converts an index into Visible to an index into Items.
func (l *List[T]) RelToAbs(relIdx int) int {
	return l.Offset + relIdx
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.Items)
}

// Select moves the cursor to idx, clamped to the item range, and scrolls so
// that it is visible.
func (l *List[T]) Select(idx int) {
	if len(l.Items) == 0 {
		l.Cursor, l.Offset = 0, 0
		return
	}
	l.Cursor = max(0, min(idx, len(l.Items)-1))
	page := max(1, l.PageSize)
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+page {
		l.Offset = l.Cursor - page + 1
	}
	l.Offset = max(0, min(l.Offset, len(l.Items)-1))
}
