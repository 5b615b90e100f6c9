package models

import (
	"fmt"
	"time"
)

// Client represents a learner enrolled at a driving school.
type Client struct {
	ID            string    `db:"id" json:"id"`
	Nom           string    `db:"nom" json:"nom"`
	Prenom        string    `db:"prenom" json:"prenom"`
	Email         string    `db:"email" json:"email"`
	Telephone     *string   `db:"telephone" json:"telephone,omitempty"`
	DateNaissance *string   `db:"date_naissance" json:"date_naissance,omitempty"`
	NumeroPermis  *string   `db:"numero_permis" json:"numero_permis,omitempty"`
	TypePermis    *string   `db:"type_permis" json:"type_permis,omitempty"`
	AutoEcoleID   *string   `db:"auto_ecole_id" json:"auto_ecole_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName returns the client's name as shown on calendars.
func (c Client) DisplayName() string {
	return fmt.Sprintf("%s %s", c.Prenom, c.Nom)
}
