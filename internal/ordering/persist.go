package ordering

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrReorderFailed means the first update failed and nothing changed server side.
	ErrReorderFailed = errors.New("reorder failed")
	// ErrReorderDiscarded means the server may hold a half-applied swap; the
	// returned list is the server's view, not the attempted reorder.
	ErrReorderDiscarded = errors.New("reorder discarded, sibling list reloaded from server")
)

// SiblingStore persists sibling positions.
type SiblingStore[T Sequenced] interface {
	UpdateOrder(ctx context.Context, item T, order int) error
	List(ctx context.Context) ([]T, error)
}

// MoveAndPersist moves the sibling at index and writes both new positions, one
// update per item. The two writes are not atomic. If the first fails the local
// list is restored. If the second fails the list is refetched from the store and
// returned together with ErrReorderDiscarded.
func MoveAndPersist[T Sequenced](ctx context.Context, store SiblingStore[T], items []T, index int, dir Direction) ([]T, error) {
	target := Neighbor(len(items), index, dir)
	if target < 0 {
		return items, nil
	}

	swap(items, index, target)
	moved, displaced := items[target], items[index]

	if err := store.UpdateOrder(ctx, moved, moved.GetOrder()); err != nil {
		swap(items, index, target)
		return items, fmt.Errorf("%w: item %d: %w", ErrReorderFailed, moved.GetID(), err)
	}

	if err := store.UpdateOrder(ctx, displaced, displaced.GetOrder()); err != nil {
		fresh, listErr := store.List(ctx)
		if listErr != nil {
			return items, fmt.Errorf("%w: item %d: %w (reload failed: %v)", ErrReorderDiscarded, displaced.GetID(), err, listErr)
		}
		Sort(fresh)
		return fresh, fmt.Errorf("%w: item %d: %w", ErrReorderDiscarded, displaced.GetID(), err)
	}

	return items, nil
}

// RemoveAndPersist drops the sibling at index, renumbers the rest and writes the
// new position of every sibling whose order changed. The removed item itself is
// not touched; deleting it is the caller's job. If a write fails the list is
// refetched and returned with ErrReorderDiscarded.
func RemoveAndPersist[T Sequenced](ctx context.Context, store SiblingStore[T], items []T, index int) ([]T, error) {
	if index < 0 || index >= len(items) {
		return items, nil
	}

	previous := make(map[uint]int, len(items))
	for _, item := range items {
		previous[item.GetID()] = item.GetOrder()
	}

	rest := Remove(items, index)
	for _, item := range rest {
		if previous[item.GetID()] == item.GetOrder() {
			continue
		}
		if err := store.UpdateOrder(ctx, item, item.GetOrder()); err != nil {
			fresh, listErr := store.List(ctx)
			if listErr != nil {
				return rest, fmt.Errorf("%w: item %d: %w (reload failed: %v)", ErrReorderDiscarded, item.GetID(), err, listErr)
			}
			Sort(fresh)
			return fresh, fmt.Errorf("%w: item %d: %w", ErrReorderDiscarded, item.GetID(), err)
		}
	}
	return rest, nil
}
