package domain

import "encoding/json"

// CartLine is one product-and-quantity entry. Display fields (name, price, image)
// are not captured here; they are looked up from the catalog when the cart is priced.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartState is an immutable, insertion-ordered list of cart lines.
// ProductIDs are unique and every quantity is >= 1. Every transition returns a new value;
// the receiver is never modified.
type CartState struct {
	lines []CartLine
}

// NewCartState builds a state from lines, merging duplicates and dropping
// non-positive quantities so the invariants hold.
func NewCartState(lines ...CartLine) CartState {
	var s CartState
	for _, l := range lines {
		s = s.WithAdded(l.ProductID, l.Quantity)
	}
	return s
}

// Lines returns a copy of the lines in insertion order.
func (s CartState) Lines() []CartLine {
	out := make([]CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s CartState) Len() int { return len(s.lines) }

func (s CartState) IsEmpty() bool { return len(s.lines) == 0 }

// Line returns the line for productID, if present.
func (s CartState) Line(productID string) (CartLine, bool) {
	if i := s.index(productID); i >= 0 {
		return s.lines[i], true
	}
	return CartLine{}, false
}

// TotalQuantity sums quantities across all lines.
func (s CartState) TotalQuantity() int {
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// Equal reports whether both states hold the same lines in the same order.
func (s CartState) Equal(other CartState) bool {
	if len(s.lines) != len(other.lines) {
		return false
	}
	for i := range s.lines {
		if s.lines[i] != other.lines[i] {
			return false
		}
	}
	return true
}

// WithAdded merges quantity into the line for productID, appending a new line if needed.
// A quantity below 1 or an empty productID leaves the state unchanged.
func (s CartState) WithAdded(productID string, quantity int) CartState {
	if productID == "" || quantity < 1 {
		return s
	}
	lines := s.Lines()
	if i := s.index(productID); i >= 0 {
		lines[i].Quantity += quantity
		return CartState{lines: lines}
	}
	return CartState{lines: append(lines, CartLine{ProductID: productID, Quantity: quantity})}
}

// WithQuantity sets the quantity of an existing line. Unknown products and
// quantities below 1 leave the state unchanged; use WithRemoved to drop a line.
func (s CartState) WithQuantity(productID string, quantity int) CartState {
	i := s.index(productID)
	if i < 0 || quantity < 1 {
		return s
	}
	lines := s.Lines()
	lines[i].Quantity = quantity
	return CartState{lines: lines}
}

// WithRemoved drops the line for productID if present.
func (s CartState) WithRemoved(productID string) CartState {
	i := s.index(productID)
	if i < 0 {
		return s
	}
	lines := make([]CartLine, 0, len(s.lines)-1)
	lines = append(lines, s.lines[:i]...)
	lines = append(lines, s.lines[i+1:]...)
	return CartState{lines: lines}
}

// Without subtracts the quantities held in submitted from s. Lines whose remaining
// quantity drops to zero or below are removed; lines absent from submitted are kept.
func (s CartState) Without(submitted CartState) CartState {
	lines := make([]CartLine, 0, len(s.lines))
	for _, l := range s.lines {
		if sub, ok := submitted.Line(l.ProductID); ok {
			l.Quantity -= sub.Quantity
		}
		if l.Quantity > 0 {
			lines = append(lines, l)
		}
	}
	return CartState{lines: lines}
}

// OrderRequest converts the state into an order submission for address.
func (s CartState) OrderRequest(address string) OrderRequest {
	items := make([]OrderRequestItem, 0, len(s.lines))
	for _, l := range s.lines {
		items = append(items, OrderRequestItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return OrderRequest{Items: items, DeliveryAddress: address}
}

func (s CartState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items         []CartLine `json:"items"`
		TotalQuantity int        `json:"totalQuantity"`
	}{Items: s.Lines(), TotalQuantity: s.TotalQuantity()})
}

func (s CartState) index(productID string) int {
	for i, l := range s.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
