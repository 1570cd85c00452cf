package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Platform roles.
const (
	RoleCustomer = "customer"
	RolePartner  = "partner"
	RoleAdmin    = "administrator"
)

// User is the model for the 'users' table.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Role         string `json:"role" db:"role"`
	Status       string `json:"status" db:"status"` // pending, active, suspended
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	FullName     string `json:"fullName" db:"full_name"`
	PhoneNumber  string `json:"phoneNumber" db:"phone_number"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// --- Partner profile fields (pointers = clean JSON) ---
	StoreName    *string `json:"storeName,omitempty" db:"store_name"`
	GSTIN        *string `json:"gstin,omitempty" db:"gstin"`
	AddressLine1 *string `json:"addressLine1,omitempty" db:"address_line1"`
	AddressLine2 *string `json:"addressLine2,omitempty" db:"address_line2"`
	City         *string `json:"city,omitempty" db:"city"`
	State        *string `json:"state,omitempty" db:"state"`
	Pincode      *string `json:"pincode,omitempty" db:"pincode"`
}

// Password helper (standard bcrypt wrapper).
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
