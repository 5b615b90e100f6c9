package models

import (
	"time"

	"github.com/lib/pq"
)

// PracticeTest is a test blanc: a mock theory exam.
type PracticeTest struct {
	ID              string    `db:"id" json:"id"`
	Titre           string    `db:"titre" json:"titre"`
	Description     string    `db:"description" json:"description"`
	DureeMinutes    int       `db:"duree_minutes" json:"duree_minutes"`
	NombreQuestions int       `db:"nombre_questions" json:"nombre_questions"`
	ScoreMinimum    int       `db:"score_minimum" json:"score_minimum"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Question belongs to a practice test.
type Question struct {
	ID                string         `db:"id" json:"id"`
	TestBlancID       string         `db:"test_blanc_id" json:"test_blanc_id"`
	Enonce            string         `db:"enonce" json:"enonce"`
	ReponseCorrecte   string         `db:"reponse_correcte" json:"reponse_correcte"`
	ReponsesPossibles pq.StringArray `db:"reponses_possibles" json:"reponses_possibles"`
	Points            int            `db:"points" json:"points"`
	Ordre             int            `db:"ordre" json:"ordre"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
}

// TestResult stores the outcome of one client attempt at a practice test.
// Score is a percentage of the obtainable points.
type TestResult struct {
	ID           string    `db:"id" json:"id"`
	ClientID     string    `db:"client_id" json:"client_id"`
	TestBlancID  string    `db:"test_blanc_id" json:"test_blanc_id"`
	DatePassage  time.Time `db:"date_passage" json:"date_passage"`
	Score        int       `db:"score" json:"score"`
	Reussi       bool      `db:"reussi" json:"reussi"`
	TempsUtilise int       `db:"temps_utilise" json:"temps_utilise"`
}
