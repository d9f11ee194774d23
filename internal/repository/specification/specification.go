package specification

import "gorm.io/gorm"

// Specification is one composable WHERE/ORDER/LIMIT fragment.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
