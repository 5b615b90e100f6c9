package models

import "time"

// SchoolStatistics aggregates headcounts for one auto-école.
type SchoolStatistics struct {
	AutoEcoleID     string `json:"auto_ecole_id"`
	NombreClients   int    `json:"nombre_clients"`
	NombreMoniteurs int    `json:"nombre_moniteurs"`
}

// School represents an auto-école (driving school).
type School struct {
	ID          string    `db:"id" json:"id"`
	Nom         string    `db:"nom" json:"nom"`
	Email       string    `db:"email" json:"email"`
	Telephone   string    `db:"telephone" json:"telephone"`
	Adresse     string    `db:"adresse" json:"adresse"`
	Siret       string    `db:"siret" json:"siret"`
	CodePostal  *string   `db:"code_postal" json:"code_postal,omitempty"`
	Ville       *string   `db:"ville" json:"ville,omitempty"`
	SiteWeb     *string   `db:"site_web" json:"site_web,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	Horaires    *string   `db:"horaires" json:"horaires,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
