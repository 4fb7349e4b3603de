package models

import (
	"fmt"
	"regexp"

	"gorm.io/gorm"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHexColor reports whether s has the #RRGGBB form.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// Ingredient is a reference entry recipes point at. Rows are only written
// by the administrative reload.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:100;not null;index:idx_ingredient_name_unit,unique" json:"name"`
	MeasurementUnit string `gorm:"size:50;not null;index:idx_ingredient_name_unit,unique" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:30;not null;uniqueIndex" json:"name"`
	Color string `gorm:"size:7;not null" json:"color"`
	Slug  string `gorm:"size:50;not null;uniqueIndex" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}

// BeforeSave rejects colors outside #RRGGBB.
func (t *Tag) BeforeSave(tx *gorm.DB) error {
	if !IsHexColor(t.Color) {
		return fmt.Errorf("tag %q: color %q must match #RRGGBB", t.Slug, t.Color)
	}
	return nil
}
