package services

import (
	"context"
	"fmt"
	"math"

	"github.com/dmitrijs2005/linkfolio/internal/common"
)

// PositionStore reports the highest link position an owner holds.
type PositionStore interface {
	MaxPosition(ctx context.Context, ownerID string) (highest int, ok bool, err error)
}

// LinkOrderAssigner picks the position of a link created without one: one
// past the owner's current highest, or 0 for an owner with no links.
//
// The read is not atomic with the insert that follows, so two concurrent
// creations may receive the same position. Readers order ties by creation
// time and id.
type LinkOrderAssigner struct {
	store PositionStore
}

// NewLinkOrderAssigner reads positions from store.
func NewLinkOrderAssigner(store PositionStore) *LinkOrderAssigner {
	return &LinkOrderAssigner{store: store}
}

// NextPosition returns max(position)+1 over the owner's links, with an empty
// list counting as -1. Store failures are returned unchanged in meaning. An
// owner already holding the largest storable position gets ErrorValidation.
func (a *LinkOrderAssigner) NextPosition(ctx context.Context, ownerID string) (int, error) {
	highest, ok, err := a.store.MaxPosition(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("error reading link positions: %w", err)
	}
	if !ok {
		highest = -1
	}
	if int64(highest) >= math.MaxInt32 {
		return 0, fmt.Errorf("position %d is the last one: %w", highest, common.ErrorValidation)
	}
	return highest + 1, nil
}
