package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/autoecole-app/autoecole-api/internal/models"
)

// PracticeTestRepository manages tests blancs, questions and results.
type PracticeTestRepository struct {
	db *sqlx.DB
}

// NewPracticeTestRepository constructs a PracticeTestRepository.
func NewPracticeTestRepository(db *sqlx.DB) *PracticeTestRepository {
	return &PracticeTestRepository{db: db}
}

const testColumns = "id, titre, description, duree_minutes, nombre_questions, score_minimum, created_at, updated_at"
const questionColumns = "id, test_blanc_id, enonce, reponse_correcte, reponses_possibles, points, ordre, created_at"
const resultColumns = "id, client_id, test_blanc_id, date_passage, score, reussi, temps_utilise"

// ListTests returns all practice tests.
func (r *PracticeTestRepository) ListTests(ctx context.Context) ([]models.PracticeTest, error) {
	query := fmt.Sprintf("SELECT %s FROM tests_blancs ORDER BY created_at DESC", testColumns)
	var list []models.PracticeTest
	if err := r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("list tests blancs: %w", err)
	}
	return list, nil
}

// FindTestByID fetches a practice test by ID.
func (r *PracticeTestRepository) FindTestByID(ctx context.Context, id string) (*models.PracticeTest, error) {
	query := fmt.Sprintf("SELECT %s FROM tests_blancs WHERE id = $1", testColumns)
	var test models.PracticeTest
	if err := r.db.GetContext(ctx, &test, query, id); err != nil {
		return nil, err
	}
	return &test, nil
}

// CreateTest inserts a practice test.
func (r *PracticeTestRepository) CreateTest(ctx context.Context, test *models.PracticeTest) error {
	if test.ID == "" {
		test.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if test.CreatedAt.IsZero() {
		test.CreatedAt = now
	}
	test.UpdatedAt = now
	const query = `INSERT INTO tests_blancs (id, titre, description, duree_minutes, nombre_questions, score_minimum, created_at, updated_at)
		VALUES (:id, :titre, :description, :duree_minutes, :nombre_questions, :score_minimum, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, test); err != nil {
		return fmt.Errorf("create test blanc: %w", err)
	}
	return nil
}

// DeleteTest removes a practice test and its questions.
func (r *PracticeTestRepository) DeleteTest(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM questions WHERE test_blanc_id = $1", id); err != nil {
		return fmt.Errorf("delete test questions: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tests_blancs WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete test blanc: %w", err)
	}
	return nil
}

// ListQuestions returns a test's questions ordered by ordre.
func (r *PracticeTestRepository) ListQuestions(ctx context.Context, testID string) ([]models.Question, error) {
	query := fmt.Sprintf("SELECT %s FROM questions WHERE test_blanc_id = $1 ORDER BY ordre ASC", questionColumns)
	var list []models.Question
	if err := r.db.SelectContext(ctx, &list, query, testID); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return list, nil
}

// FindQuestionByID fetches a question by ID.
func (r *PracticeTestRepository) FindQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	query := fmt.Sprintf("SELECT %s FROM questions WHERE id = $1", questionColumns)
	var question models.Question
	if err := r.db.GetContext(ctx, &question, query, id); err != nil {
		return nil, err
	}
	return &question, nil
}

// CreateQuestion inserts a question and bumps the test's question counter.
func (r *PracticeTestRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO questions (id, test_blanc_id, enonce, reponse_correcte, reponses_possibles, points, ordre, created_at)
		VALUES (:id, :test_blanc_id, :enonce, :reponse_correcte, :reponses_possibles, :points, :ordre, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, question); err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "UPDATE tests_blancs SET nombre_questions = nombre_questions + 1, updated_at = $2 WHERE id = $1", question.TestBlancID, time.Now().UTC()); err != nil {
		return fmt.Errorf("bump question count: %w", err)
	}
	return nil
}

// DeleteQuestion removes a question and decrements the test's counter.
func (r *PracticeTestRepository) DeleteQuestion(ctx context.Context, id, testID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM questions WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "UPDATE tests_blancs SET nombre_questions = GREATEST(nombre_questions - 1, 0), updated_at = $2 WHERE id = $1", testID, time.Now().UTC()); err != nil {
		return fmt.Errorf("decrement question count: %w", err)
	}
	return nil
}

// CreateResult stores a test attempt outcome.
func (r *PracticeTestRepository) CreateResult(ctx context.Context, result *models.TestResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.DatePassage.IsZero() {
		result.DatePassage = time.Now().UTC()
	}
	const query = `INSERT INTO resultats_tests (id, client_id, test_blanc_id, date_passage, score, reussi, temps_utilise)
		VALUES (:id, :client_id, :test_blanc_id, :date_passage, :score, :reussi, :temps_utilise)`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("create resultat: %w", err)
	}
	return nil
}

// ListResultsByClient returns a client's results, newest first.
func (r *PracticeTestRepository) ListResultsByClient(ctx context.Context, clientID string) ([]models.TestResult, error) {
	query := fmt.Sprintf("SELECT %s FROM resultats_tests WHERE client_id = $1 ORDER BY date_passage DESC", resultColumns)
	var list []models.TestResult
	if err := r.db.SelectContext(ctx, &list, query, clientID); err != nil {
		return nil, fmt.Errorf("list resultats by client: %w", err)
	}
	return list, nil
}

// ListResultsByTest returns all results for one test.
func (r *PracticeTestRepository) ListResultsByTest(ctx context.Context, testID string) ([]models.TestResult, error) {
	query := fmt.Sprintf("SELECT %s FROM resultats_tests WHERE test_blanc_id = $1 ORDER BY date_passage DESC", resultColumns)
	var list []models.TestResult
	if err := r.db.SelectContext(ctx, &list, query, testID); err != nil {
		return nil, fmt.Errorf("list resultats by test: %w", err)
	}
	return list, nil
}

// ListResultsByClientAndTest returns one client's attempts at one test.
func (r *PracticeTestRepository) ListResultsByClientAndTest(ctx context.Context, clientID, testID string) ([]models.TestResult, error) {
	query := fmt.Sprintf("SELECT %s FROM resultats_tests WHERE client_id = $1 AND test_blanc_id = $2 ORDER BY date_passage DESC", resultColumns)
	var list []models.TestResult
	if err := r.db.SelectContext(ctx, &list, query, clientID, testID); err != nil {
		return nil, fmt.Errorf("list resultats by client and test: %w", err)
	}
	return list, nil
}
