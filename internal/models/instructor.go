package models

import (
	"fmt"
	"time"
)

// Instructor represents a moniteur: a driving instructor who owns time slots.
// The original user-profile inheritance is flattened into the row.
type Instructor struct {
	ID               string    `db:"id" json:"id"`
	Nom              string    `db:"nom" json:"nom"`
	Prenom           string    `db:"prenom" json:"prenom"`
	Email            string    `db:"email" json:"email"`
	Telephone        *string   `db:"telephone" json:"telephone,omitempty"`
	Specialite       *string   `db:"specialite" json:"specialite,omitempty"`
	ExperienceAnnees *int      `db:"experience_annees" json:"experience_annees,omitempty"`
	NumeroAgrement   *string   `db:"numero_agrement" json:"numero_agrement,omitempty"`
	Disponible       bool      `db:"disponible" json:"disponible"`
	AutoEcoleID      *string   `db:"auto_ecole_id" json:"auto_ecole_id,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName returns the instructor's name as shown on calendars.
func (i Instructor) DisplayName() string {
	return fmt.Sprintf("%s %s", i.Prenom, i.Nom)
}
