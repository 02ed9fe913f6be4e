// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleRegular UserRole = "regular"
	UserRoleAdmin   UserRole = "admin"
)

// AuctionState is the lifecycle position of an auction derived from its
// persisted flags. Active auctions accept bids; closed and expired auctions
// wait out the purge grace window before the daily sweep hard-deletes them.
type AuctionState string

const (
	AuctionStateActive        AuctionState = "active"
	AuctionStateClosedByOwner AuctionState = "closed_by_owner"
	AuctionStateExpired       AuctionState = "expired"
	AuctionStatePendingPurge  AuctionState = "pending_purge"
)

// PurgeGracePeriod is how long a deactivated record is kept before the purge
// sweep may hard-delete it.
const PurgeGracePeriod = 24 * time.Hour
