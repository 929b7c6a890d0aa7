package domain

import (
	"errors"
	"time"
)

// Diploma is the closed set of accepted diploma levels.
type Diploma string

const (
	DiplomaBAC      Diploma = "BAC"
	DiplomaLicence  Diploma = "LICENCE"
	DiplomaMaster   Diploma = "MASTER"
	DiplomaDoctorat Diploma = "DOCTORAT"
)

// Valid reports whether d is a known diploma level.
func (d Diploma) Valid() bool {
	switch d {
	case DiplomaBAC, DiplomaLicence, DiplomaMaster, DiplomaDoctorat:
		return true
	}
	return false
}

// Bank is the closed set of supported banking institutions.
type Bank string

const (
	BankNSIA    Bank = "NSIA"
	BankUBA     Bank = "UBA"
	BankEcobank Bank = "ECOBANK"
	BankBOA     Bank = "BOA"
	BankLaPoste Bank = "LA POSTE"
	BankCoris   Bank = "CORIS"
	BankOrabank Bank = "ORABANK"
)

// Valid reports whether b is a supported institution.
func (b Bank) Valid() bool {
	switch b {
	case BankNSIA, BankUBA, BankEcobank, BankBOA, BankLaPoste, BankCoris, BankOrabank:
		return true
	}
	return false
}

var (
	ErrActorNotFound = errors.New("actor not found")
	ErrActorExists   = errors.New("actor profile already registered")
	ErrNPITaken      = errors.New("npi already registered")
	ErrPhoneTaken    = errors.New("phone already registered")
	ErrBirthdate     = errors.New("birthdate must be in the past")
)

// Actor is the KYC profile linked one-to-one to a User. IDCardPath and
// RIBPath are relative paths into the document store.
type Actor struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	NPI        string    `json:"npi"`
	NRIB       string    `json:"n_rib"`
	IDCardPath string    `json:"id_card"`
	RIBPath    string    `json:"rib"`
	Birthdate  time.Time `json:"birthdate"`
	Birthplace string    `json:"birthplace"`
	Diploma    Diploma   `json:"diploma"`
	Bank       Bank      `json:"bank"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// User is the owning account, embedded in API responses.
	User *User `json:"user,omitempty"`
}

// CanManage is the authorization gate for actor resources: admins manage
// everything, owners manage their own profile.
func CanManage(acting *User, actor *Actor) bool {
	if acting == nil || actor == nil {
		return false
	}
	return acting.Role == RoleAdmin || acting.ID == actor.UserID
}
