package models

import "time"

// Communication statuses and message senders.
const (
	CommunicationOpen   = "OUVERTE"
	CommunicationClosed = "FERMEE"

	SenderClient = "CLIENT"
	SenderAdmin  = "ADMIN"
)

// Communication is a support thread between a client and the school.
type Communication struct {
	ID           string    `db:"id" json:"id"`
	ClientID     string    `db:"client_id" json:"client_id"`
	Sujet        string    `db:"sujet" json:"sujet"`
	Statut       string    `db:"statut" json:"statut"`
	DateCreation time.Time `db:"date_creation" json:"date_creation"`
}

// Message is a single entry in a communication thread.
type Message struct {
	ID              string    `db:"id" json:"id"`
	CommunicationID string    `db:"communication_id" json:"communication_id"`
	Contenu         string    `db:"contenu" json:"contenu"`
	Expediteur      string    `db:"expediteur" json:"expediteur"`
	Lu              bool      `db:"lu" json:"lu"`
	DateEnvoi       time.Time `db:"date_envoi" json:"date_envoi"`
}
