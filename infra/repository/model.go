package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user record in the database.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"size:255"`
	Email         string    `gorm:"uniqueIndex;not null;size:255"`
	Password      string    `gorm:"not null"`
	EmailVerified *time.Time
	Image         string `gorm:"size:1024"`
	CoverImage    string `gorm:"size:1024"`
	Bio           string `gorm:"type:text"`
	Location      string `gorm:"size:255"`
	Website       string `gorm:"size:1024"`
	Address       string `gorm:"size:500"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session represents a server-side login record.
type Session struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionToken string    `gorm:"uniqueIndex;not null;size:255"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Expires      time.Time `gorm:"not null"`
	CreatedAt    time.Time
}

// SubscriptionPlan represents a purchasable plan of a lens.
type SubscriptionPlan struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LensViewID  string          `gorm:"index;not null;size:64"`
	Name        string          `gorm:"not null;size:255"`
	Type        string          `gorm:"size:32"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	Duration    int             `gorm:"not null"`
	Status      int             `gorm:"not null;index"`
	IsPopular   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Subscription represents a user's access period to a lens.
type Subscription struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	PlanID      uuid.UUID `gorm:"type:uuid;not null"`
	LensViewID  string    `gorm:"size:64"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null;index"`
	Status      string    `gorm:"type:varchar(16);not null;index"`
	AutoRenew   bool
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Plan        *SubscriptionPlan `gorm:"foreignKey:PlanID"`
}

// Order represents a purchase attempt. PaymentDetails holds the JSON encoded
// order.PaymentDetails.
type Order struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	SubscriptionID *uuid.UUID      `gorm:"type:uuid;index"`
	TotalAmount    int64           `gorm:"not null"`
	OriginalAmount decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status         string          `gorm:"type:varchar(16);not null"`
	PaymentDetails string          `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Subscription   *Subscription `gorm:"foreignKey:SubscriptionID"`
}
