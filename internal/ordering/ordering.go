// Package ordering keeps sibling lists (modules in a course, questions in a quiz,
// options in a question) as a dense 1..N sequence.
package ordering

import (
	"sort"
)

// Sequenced is anything with an id and a position among its siblings.
type Sequenced interface {
	GetID() uint
	GetOrder() int
	SetOrder(order int)
}

// Direction of a single-step move.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(raw string) (Direction, bool) {
	switch Direction(raw) {
	case Up:
		return Up, true
	case Down:
		return Down, true
	default:
		return "", false
	}
}

// NextOrder is the order a newly appended sibling receives.
func NextOrder[T Sequenced](items []T) int {
	return len(items) + 1
}

// Append adds item at the end of the list.
func Append[T Sequenced](items []T, item T) []T {
	item.SetOrder(NextOrder(items))
	return append(items, item)
}

// Remove drops the sibling at index and renumbers the rest, keeping their
// relative sequence.
func Remove[T Sequenced](items []T, index int) []T {
	if index < 0 || index >= len(items) {
		return items
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	out = append(out, items[index+1:]...)
	Renumber(out)
	return out
}

// Renumber assigns 1..N in slice order.
func Renumber[T Sequenced](items []T) {
	for i, item := range items {
		item.SetOrder(i + 1)
	}
}

// Sort orders the list by its order field. Ties keep their incoming sequence.
func Sort[T Sequenced](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].GetOrder() < items[j].GetOrder()
	})
}

// Neighbor returns the index a move from index would swap with, or -1 when the
// move would cross a boundary.
func Neighbor(length, index int, dir Direction) int {
	if index < 0 || index >= length {
		return -1
	}
	var target int
	switch dir {
	case Up:
		target = index - 1
	case Down:
		target = index + 1
	default:
		return -1
	}
	if target < 0 || target >= length {
		return -1
	}
	return target
}

// Move swaps the sibling at index with its neighbor in the given direction,
// exchanging their orders. Moving the first item up or the last item down is a
// no-op and reports false.
func Move[T Sequenced](items []T, index int, dir Direction) bool {
	target := Neighbor(len(items), index, dir)
	if target < 0 {
		return false
	}
	swap(items, index, target)
	return true
}

func swap[T Sequenced](items []T, i, j int) {
	a, b := items[i], items[j]
	ao, bo := a.GetOrder(), b.GetOrder()
	a.SetOrder(bo)
	b.SetOrder(ao)
	items[i], items[j] = b, a
}

// IsDense reports whether the orders are exactly 1..N in slice order.
func IsDense[T Sequenced](items []T) bool {
	for i, item := range items {
		if item.GetOrder() != i+1 {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the sibling with the given id, or -1.
func IndexOf[T Sequenced](items []T, id uint) int {
	for i, item := range items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}
