package models

import "time"

// Levels assigned by the diagnostic generator.
const (
	LevelBeginner     = "Débutant"
	LevelIntermediate = "Intermédiaire"
	LevelAdvanced     = "Avancé"
)

// Diagnostic is a generated snapshot of a client's theory progress,
// derived from their practice-test results.
type Diagnostic struct {
	ID                   string    `db:"id" json:"id"`
	ClientID             string    `db:"client_id" json:"client_id"`
	DateDiagnostic       time.Time `db:"date_diagnostic" json:"date_diagnostic"`
	NombreTestsPasses    int       `db:"nombre_tests_passes" json:"nombre_tests_passes"`
	MoyenneTests         float64   `db:"moyenne_tests" json:"moyenne_tests"`
	NombreHeuresConduite int       `db:"nombre_heures_conduite" json:"nombre_heures_conduite"`
	NiveauGeneral        string    `db:"niveau_general" json:"niveau_general"`
	Commentaire          string    `db:"commentaire" json:"commentaire"`
}
