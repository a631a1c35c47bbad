package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de curso.
const (
	CategoryCOSHH              = "COSHH"
	CategoryConflictResolution = "Conflict Resolution"
	CategoryDomesticViolence   = "Domestic Violence"
	CategoryEpilepsyAwareness  = "Epilepsy Awareness"
	CategoryOther              = "Other"
)

var CourseCategories = []string{
	CategoryCOSHH, CategoryConflictResolution, CategoryDomesticViolence,
	CategoryEpilepsyAwareness, CategoryOther,
}

type CourseModule struct {
	ID          string `json:"id" bson:"id"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Duration    int    `json:"duration" bson:"duration"` // minutos
	Content     string `json:"content,omitempty" bson:"content,omitempty"`
	Order       int    `json:"order" bson:"order"`
}

// Course curso de formación, opcionalmente de pago.
type Course struct {
	ID           string          `json:"id" bson:"_id"`
	Title        string          `json:"title" bson:"title"`
	Description  string          `json:"description" bson:"description"`
	Category     string          `json:"category" bson:"category"`
	Price        decimal.Decimal `json:"price" bson:"price"`
	Duration     int             `json:"duration" bson:"duration"` // minutos
	Modules      []CourseModule  `json:"modules" bson:"modules"`
	RequiredRole string          `json:"requiredRole,omitempty" bson:"requiredRole,omitempty"`
	InstructorID string          `json:"instructorId" bson:"instructorId"`
	Thumbnail    string          `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	IsActive     bool            `json:"isActive" bson:"isActive"`
	Version      int64           `json:"version" bson:"version"`
	CreatedAt    time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// IsFree indica si la inscripción no requiere pago.
func (c *Course) IsFree() bool {
	return !c.Price.IsPositive()
}

// HasModule indica si moduleID pertenece al curso.
func (c *Course) HasModule(moduleID string) bool {
	for _, m := range c.Modules {
		if m.ID == moduleID {
			return true
		}
	}
	return false
}
