package repository

import "gorm.io/gorm"

// Models lists every table managed by AutoMigrate, parents first.
var Models = []any{
	&User{},
	&Session{},
	&SubscriptionPlan{},
	&Subscription{},
	&Order{},
}

// AutoMigrate creates or updates the schema for Models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}
