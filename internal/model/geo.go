package model

import "github.com/google/uuid"

// County is a static geographic lookup row.
type County struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
	Code string    `json:"code" db:"code"`
}

// SubCounty belongs to exactly one County; (county_id, name) is unique.
type SubCounty struct {
	ID       uuid.UUID `json:"id" db:"id"`
	CountyID uuid.UUID `json:"county_id" db:"county_id"`
	Name     string    `json:"name" db:"name"`
}
