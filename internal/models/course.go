package models

import "time"

// CourseType discriminates public catalogue courses from school-private ones.
// Replaces the original subtype tables with a tagged union.
type CourseType string

const (
	CoursePublic  CourseType = "PUBLIC"
	CoursePrivate CourseType = "PRIVATE"
)

// ParseCourseType validates a raw course type string.
func ParseCourseType(raw string) (CourseType, bool) {
	switch CourseType(raw) {
	case CoursePublic, CoursePrivate:
		return CourseType(raw), true
	}
	return "", false
}

// Course represents a cours (group lesson) with bounded capacity.
// Categorie is set on PUBLIC courses, TypeCours and AutoEcoleID on PRIVATE ones.
type Course struct {
	ID          string     `db:"id" json:"id"`
	Titre       string     `db:"titre" json:"titre"`
	Description string     `db:"description" json:"description"`
	DateDebut   time.Time  `db:"date_debut" json:"date_debut"`
	DateFin     time.Time  `db:"date_fin" json:"date_fin"`
	CapaciteMax int        `db:"capacite_max" json:"capacite_max"`
	Prix        float64    `db:"prix" json:"prix"`
	CourseType  CourseType `db:"course_type" json:"course_type"`
	Categorie   *string    `db:"categorie" json:"categorie,omitempty"`
	TypeCours   *string    `db:"type_cours" json:"type_cours,omitempty"`
	AutoEcoleID *string    `db:"auto_ecole_id" json:"auto_ecole_id,omitempty"`
	MoniteurID  *string    `db:"moniteur_id" json:"moniteur_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// CourseEnrollment records a client's seat on a course.
type CourseEnrollment struct {
	ID        string    `db:"id" json:"id"`
	CoursID   string    `db:"cours_id" json:"cours_id"`
	ClientID  string    `db:"client_id" json:"client_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CourseView records that a client opened a (theory) course.
type CourseView struct {
	ID       string    `db:"id" json:"id"`
	ClientID string    `db:"client_id" json:"client_id"`
	CoursID  string    `db:"cours_id" json:"cours_id"`
	ViewedAt time.Time `db:"viewed_at" json:"viewed_at"`
}

// TheoryProgress summarises how much of the theory catalogue a client has seen.
type TheoryProgress struct {
	TotalTheoryCourses  int `json:"total_theory_courses"`
	ViewedTheoryCourses int `json:"viewed_theory_courses"`
}
