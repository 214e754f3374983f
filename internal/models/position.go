package models

import (
	"database/sql/driver"
	"fmt"
)

// Position is one of the three homepage display slots.
// A is the large left slot, B and C are stacked on the right.
type Position string

const (
	PositionA Position = "A"
	PositionB Position = "B"
	PositionC Position = "C"
)

// Positions lists every slot in display order.
var Positions = []Position{PositionA, PositionB, PositionC}

// ParsePosition validates a slot name.
func ParsePosition(s string) (Position, error) {
	p := Position(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid position %q", s)
	}
	return p, nil
}

// Valid reports whether p names an existing slot.
func (p Position) Valid() bool {
	switch p {
	case PositionA, PositionB, PositionC:
		return true
	}
	return false
}

// Value implements driver.Valuer.
func (p Position) Value() (driver.Value, error) {
	return string(p), nil
}

// Scan implements sql.Scanner.
func (p *Position) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*p = Position(v)
	case []byte:
		*p = Position(v)
	default:
		return fmt.Errorf("cannot scan %T into Position", src)
	}
	return nil
}

// ContentType tags which table a featurable item lives in.
type ContentType string

const (
	ContentNews    ContentType = "news"
	ContentProject ContentType = "project"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	return t == ContentNews || t == ContentProject
}

// Table returns the table holding rows of this type.
func (t ContentType) Table() string {
	if t == ContentProject {
		return "projects"
	}
	return "news"
}
