package reel

import "github.com/google/uuid"

// ServiceID identifies one service instance. Caches key per-service state
// on it, so two producers of the same kind never collide.
type ServiceID uuid.UUID

// NewServiceID returns a fresh, unique service identity.
func NewServiceID() ServiceID {
	return ServiceID(uuid.New())
}

// String returns the canonical textual form of the identity.
func (id ServiceID) String() string {
	return uuid.UUID(id).String()
}

// Producer mints frames for timeline positions. Implementations return a
// frame carrying deferred image and audio callbacks rather than rendered
// data; the caller pulls pixels with Frame.GetImage when it wants them.
//
// The caller owns the returned frame and must Close it.
type Producer interface {
	GetFrame(position int64) (*Frame, error)
}

// Filter transforms frames in flight. Process typically pushes a deferred
// callback onto the frame rather than touching pixels immediately, keeping
// the pipeline lazy end to end.
type Filter interface {
	Process(frame *Frame) error
}
