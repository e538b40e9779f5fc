// Package model defines the domain types shared across fanplan.
package model

import "strings"

// EntityID is the opaque identifier of a followable entity.
type EntityID string

// Entity is a followable subject, usually an artist or group.
type Entity struct {
	ID   EntityID
	Name string
}

// IDFromName derives a stable EntityID from a display name.
func IDFromName(name string) EntityID {
	return EntityID(strings.ToLower(strings.Join(strings.Fields(name), "-")))
}

// FollowedEntity is a user's relationship to an entity, including the
// budget allocated to it and how much has been spent so far.
type FollowedEntity struct {
	Name      string
	Rank      int // 1 is the highest priority
	Allocated float64
	Spent     float64
}

// SpentPercentage returns Spent as a percentage of Allocated.
// Entities without an allocation report 0.
func (f FollowedEntity) SpentPercentage() float64 {
	if f.Allocated <= 0 {
		return 0
	}
	return f.Spent / f.Allocated * 100
}

// Remaining returns the unspent part of the allocation, never negative.
func (f FollowedEntity) Remaining() float64 {
	if f.Spent >= f.Allocated {
		return 0
	}
	return f.Allocated - f.Spent
}
