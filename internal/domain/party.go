package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// PartyKind distinguishes the two kinds of people a sale references.
type PartyKind string

const (
	PartyCustomer PartyKind = "customer"
	PartySeller   PartyKind = "seller"
)

var nationalIDPattern = regexp.MustCompile(`^[0-9]{3}\.[0-9]{3}\.[0-9]{3}-[0-9]{2}$`)

// LooksLikeNationalID reports whether s has the ###.###.###-## shape.
func LooksLikeNationalID(s string) bool {
	return nationalIDPattern.MatchString(s)
}

// Party is a customer or a seller.
type Party struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Kind       PartyKind `json:"-" db:"-"`
	Name       string    `json:"name" db:"name"`
	NationalID string    `json:"national_id" db:"national_id"`
	Address    string    `json:"address,omitempty" db:"address"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// PartyUpdate carries the optional fields of a party update.
type PartyUpdate struct {
	Name       *string
	NationalID *string
	Address    *string
}

// Empty reports whether the update changes nothing.
func (u PartyUpdate) Empty() bool {
	return u.Name == nil && u.NationalID == nil && u.Address == nil
}
