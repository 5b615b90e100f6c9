package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

type practiceTestRepository interface {
	ListTests(ctx context.Context) ([]models.PracticeTest, error)
	FindTestByID(ctx context.Context, id string) (*models.PracticeTest, error)
	CreateTest(ctx context.Context, test *models.PracticeTest) error
	DeleteTest(ctx context.Context, id string) error
	ListQuestions(ctx context.Context, testID string) ([]models.Question, error)
	CreateQuestion(ctx context.Context, question *models.Question) error
	DeleteQuestion(ctx context.Context, id, testID string) error
	CreateResult(ctx context.Context, result *models.TestResult) error
	ListResultsByClient(ctx context.Context, clientID string) ([]models.TestResult, error)
	ListResultsByTest(ctx context.Context, testID string) ([]models.TestResult, error)
	ListResultsByClientAndTest(ctx context.Context, clientID, testID string) ([]models.TestResult, error)
}

// CreatePracticeTestRequest carries the fields for a new test blanc.
type CreatePracticeTestRequest struct {
	Titre        string `json:"titre" validate:"required,max=255"`
	Description  string `json:"description"`
	DureeMinutes int    `json:"dureeMinutes" validate:"required,gt=0"`
	ScoreMinimum int    `json:"scoreMinimum" validate:"required,gte=0,lte=100"`
}

// CreateQuestionRequest adds a question to a test blanc.
type CreateQuestionRequest struct {
	Enonce            string   `json:"enonce" validate:"required"`
	ReponseCorrecte   string   `json:"reponseCorrecte" validate:"required"`
	ReponsesPossibles []string `json:"reponsesPossibles" validate:"required,min=2"`
	Points            int      `json:"points" validate:"required,gt=0"`
	Ordre             int      `json:"ordre" validate:"gte=0"`
}

// SubmitTestRequest carries a client's answers for evaluation. Answers maps
// question id to the chosen answer.
type SubmitTestRequest struct {
	ClientID     string            `json:"clientId" validate:"required"`
	Answers      map[string]string `json:"answers" validate:"required"`
	TempsUtilise int               `json:"tempsUtilise" validate:"gte=0"`
}

// PracticeTestService manages tests blancs, their questions and client
// results.
type PracticeTestService struct {
	tests     practiceTestRepository
	clients   clientLookup
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPracticeTestService constructs a PracticeTestService.
func NewPracticeTestService(tests practiceTestRepository, clients clientLookup, validate *validator.Validate, logger *zap.Logger) *PracticeTestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PracticeTestService{tests: tests, clients: clients, validator: validate, logger: logger, now: time.Now}
}

// List returns every test blanc.
func (s *PracticeTestService) List(ctx context.Context) ([]models.PracticeTest, error) {
	tests, err := s.tests.ListTests(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list tests")
	}
	return tests, nil
}

// Get returns one test blanc.
func (s *PracticeTestService) Get(ctx context.Context, id string) (*models.PracticeTest, error) {
	test, err := s.tests.FindTestByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "test blanc not found")
	}
	return test, nil
}

// Create registers a test blanc with no questions yet.
func (s *PracticeTestService) Create(ctx context.Context, req CreatePracticeTestRequest) (*models.PracticeTest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid test blanc payload")
	}
	test := &models.PracticeTest{
		Titre:        req.Titre,
		Description:  req.Description,
		DureeMinutes: req.DureeMinutes,
		ScoreMinimum: req.ScoreMinimum,
	}
	if err := s.tests.CreateTest(ctx, test); err != nil {
		return nil, internalError(err, "failed to create test blanc")
	}
	s.logger.Info("test blanc created", zap.String("test_id", test.ID))
	return test, nil
}

// Delete removes a test blanc and its questions.
func (s *PracticeTestService) Delete(ctx context.Context, id string) error {
	if _, err := s.tests.FindTestByID(ctx, id); err != nil {
		return loadError(err, "test blanc not found")
	}
	if err := s.tests.DeleteTest(ctx, id); err != nil {
		return internalError(err, "failed to delete test blanc")
	}
	return nil
}

// Questions lists a test's questions in their display order.
func (s *PracticeTestService) Questions(ctx context.Context, testID string) ([]models.Question, error) {
	if _, err := s.tests.FindTestByID(ctx, testID); err != nil {
		return nil, loadError(err, "test blanc not found")
	}
	questions, err := s.tests.ListQuestions(ctx, testID)
	if err != nil {
		return nil, internalError(err, "failed to list questions")
	}
	return questions, nil
}

// AddQuestion appends a question to a test. The correct answer must appear
// among the proposed answers.
func (s *PracticeTestService) AddQuestion(ctx context.Context, testID string, req CreateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	if _, err := s.tests.FindTestByID(ctx, testID); err != nil {
		return nil, loadError(err, "test blanc not found")
	}
	found := false
	for _, answer := range req.ReponsesPossibles {
		if answer == req.ReponseCorrecte {
			found = true
			break
		}
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the correct answer must be one of the proposed answers")
	}

	question := &models.Question{
		TestBlancID:       testID,
		Enonce:            req.Enonce,
		ReponseCorrecte:   req.ReponseCorrecte,
		ReponsesPossibles: req.ReponsesPossibles,
		Points:            req.Points,
		Ordre:             req.Ordre,
	}
	if err := s.tests.CreateQuestion(ctx, question); err != nil {
		return nil, internalError(err, "failed to create question")
	}
	return question, nil
}

// RemoveQuestion deletes one question from a test.
func (s *PracticeTestService) RemoveQuestion(ctx context.Context, testID, questionID string) error {
	if _, err := s.tests.FindTestByID(ctx, testID); err != nil {
		return loadError(err, "test blanc not found")
	}
	if err := s.tests.DeleteQuestion(ctx, questionID, testID); err != nil {
		return internalError(err, "failed to delete question")
	}
	return nil
}

// Submit evaluates a client's answers. Every question must be answered. The
// score is the percentage of obtainable points earned, rounded to the
// nearest integer, and the attempt passes when the score reaches the test's
// minimum.
func (s *PracticeTestService) Submit(ctx context.Context, testID string, req SubmitTestRequest) (*models.TestResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	test, err := s.tests.FindTestByID(ctx, testID)
	if err != nil {
		return nil, loadError(err, "test blanc not found")
	}
	if _, err := s.clients.FindByID(ctx, req.ClientID); err != nil {
		return nil, loadError(err, "client not found")
	}
	questions, err := s.tests.ListQuestions(ctx, testID)
	if err != nil {
		return nil, internalError(err, "failed to list questions")
	}
	if len(questions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrIllegalState, "test blanc has no questions")
	}

	totalPoints := 0
	earnedPoints := 0
	for _, question := range questions {
		totalPoints += question.Points
		answer, answered := req.Answers[question.ID]
		if !answered {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("question %s was not answered", question.ID))
		}
		if answer == question.ReponseCorrecte {
			earnedPoints += question.Points
		}
	}

	score := int(math.Round(float64(earnedPoints) / float64(totalPoints) * 100))
	result := &models.TestResult{
		ClientID:     req.ClientID,
		TestBlancID:  testID,
		DatePassage:  s.now(),
		Score:        score,
		Reussi:       score >= test.ScoreMinimum,
		TempsUtilise: req.TempsUtilise,
	}
	if err := s.tests.CreateResult(ctx, result); err != nil {
		return nil, internalError(err, "failed to store test result")
	}
	s.logger.Info("test blanc evaluated",
		zap.String("test_id", testID),
		zap.String("client_id", req.ClientID),
		zap.Int("score", score),
		zap.Bool("reussi", result.Reussi))
	return result, nil
}

// ResultsByClient lists a client's attempts, newest first.
func (s *PracticeTestService) ResultsByClient(ctx context.Context, clientID string) ([]models.TestResult, error) {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, loadError(err, "client not found")
	}
	results, err := s.tests.ListResultsByClient(ctx, clientID)
	if err != nil {
		return nil, internalError(err, "failed to list test results")
	}
	return results, nil
}

// ResultsByTest lists every attempt at a test.
func (s *PracticeTestService) ResultsByTest(ctx context.Context, testID string) ([]models.TestResult, error) {
	if _, err := s.tests.FindTestByID(ctx, testID); err != nil {
		return nil, loadError(err, "test blanc not found")
	}
	results, err := s.tests.ListResultsByTest(ctx, testID)
	if err != nil {
		return nil, internalError(err, "failed to list test results")
	}
	return results, nil
}

// ResultsByClientAndTest lists one client's attempts at one test.
func (s *PracticeTestService) ResultsByClientAndTest(ctx context.Context, clientID, testID string) ([]models.TestResult, error) {
	results, err := s.tests.ListResultsByClientAndTest(ctx, clientID, testID)
	if err != nil {
		return nil, internalError(err, "failed to list test results")
	}
	return results, nil
}
