package cart

import "sync"

// LineKey identifies a cart line. Two lines never share a key.
type LineKey struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// Item is what the shopper adds to the cart
type Item struct {
	ProductID      string `json:"product_id"`
	Title          string `json:"title"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	ImageURL       string `json:"image"`
	Size           string `json:"size"`
	Color          string `json:"color"`
}

// Line is an item in the cart with its quantity (always >= 1)
type Line struct {
	Item
	Quantity int `json:"quantity"`
}

func (l Line) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// LineTotalCents returns unit price times quantity
func (l Line) LineTotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Snapshot is a point-in-time copy of the ledger
type Snapshot struct {
	Lines            []Line `json:"items"`
	TotalQuantity    int    `json:"total_quantity"`
	TotalAmountCents int64  `json:"total_amount_cents"`
}

// Ledger holds the cart lines and their running totals.
//
// Totals are accumulated, not recomputed: AddLine always adds the incoming
// unit price once, while RemoveLine and SetQuantity move the amount by the
// line's own unit price times the quantity change.
type Ledger struct {
	mu               sync.RWMutex
	lines            []Line
	totalQuantity    int
	totalAmountCents int64
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) indexOf(key LineKey) int {
	for i, line := range l.lines {
		if line.Key() == key {
			return i
		}
	}
	return -1
}

// AddLine adds one unit of item, merging with an existing line of the same key
func (l *Ledger) AddLine(item Item) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := LineKey{ProductID: item.ProductID, Size: item.Size, Color: item.Color}
	if i := l.indexOf(key); i >= 0 {
		l.lines[i].Quantity++
	} else {
		l.lines = append(l.lines, Line{Item: item, Quantity: 1})
	}

	l.totalQuantity++
	l.totalAmountCents += item.UnitPriceCents
}

// RemoveLine deletes the line with key. It reports whether a line was removed.
func (l *Ledger) RemoveLine(key LineKey) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(key)
	if i < 0 {
		return false
	}

	line := l.lines[i]
	l.totalQuantity -= line.Quantity
	l.totalAmountCents -= line.LineTotalCents()
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	return true
}

// SetQuantity overwrites the quantity of the line with key. Missing lines and
// non-positive quantities are ignored; it reports whether the ledger changed.
func (l *Ledger) SetQuantity(key LineKey, quantity int) bool {
	if quantity <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(key)
	if i < 0 {
		return false
	}

	diff := quantity - l.lines[i].Quantity
	l.totalQuantity += diff
	l.totalAmountCents += l.lines[i].UnitPriceCents * int64(diff)
	l.lines[i].Quantity = quantity
	return true
}

// Clear empties the ledger
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = nil
	l.totalQuantity = 0
	l.totalAmountCents = 0
}

// Snapshot returns a copy of the lines and totals
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	lines := make([]Line, len(l.lines))
	copy(lines, l.lines)
	return Snapshot{
		Lines:            lines,
		TotalQuantity:    l.totalQuantity,
		TotalAmountCents: l.totalAmountCents,
	}
}

// Lines returns a copy of the cart lines in insertion order
func (l *Ledger) Lines() []Line {
	return l.Snapshot().Lines
}

func (l *Ledger) IsEmpty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.lines) == 0
}

func (l *Ledger) TotalQuantity() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalQuantity
}

func (l *Ledger) TotalAmountCents() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalAmountCents
}
