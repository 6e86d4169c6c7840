package specification

import "gorm.io/gorm"

// Specification applies a query predicate/modifier to a GORM query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
