package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

type mockPracticeTestRepo struct {
	tests     map[string]models.PracticeTest
	questions map[string][]models.Question
	results   []models.TestResult
}

func (m *mockPracticeTestRepo) ListTests(ctx context.Context) ([]models.PracticeTest, error) {
	var list []models.PracticeTest
	for _, t := range m.tests {
		list = append(list, t)
	}
	return list, nil
}

func (m *mockPracticeTestRepo) FindTestByID(ctx context.Context, id string) (*models.PracticeTest, error) {
	if t, ok := m.tests[id]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPracticeTestRepo) CreateTest(ctx context.Context, test *models.PracticeTest) error {
	if m.tests == nil {
		m.tests = make(map[string]models.PracticeTest)
	}
	if test.ID == "" {
		test.ID = fmt.Sprintf("test-%d", len(m.tests)+1)
	}
	m.tests[test.ID] = *test
	return nil
}

func (m *mockPracticeTestRepo) DeleteTest(ctx context.Context, id string) error {
	delete(m.tests, id)
	delete(m.questions, id)
	return nil
}

func (m *mockPracticeTestRepo) ListQuestions(ctx context.Context, testID string) ([]models.Question, error) {
	return m.questions[testID], nil
}

func (m *mockPracticeTestRepo) CreateQuestion(ctx context.Context, question *models.Question) error {
	if m.questions == nil {
		m.questions = make(map[string][]models.Question)
	}
	if question.ID == "" {
		question.ID = fmt.Sprintf("q-%d", len(m.questions[question.TestBlancID])+1)
	}
	m.questions[question.TestBlancID] = append(m.questions[question.TestBlancID], *question)
	return nil
}

func (m *mockPracticeTestRepo) DeleteQuestion(ctx context.Context, id, testID string) error {
	kept := m.questions[testID][:0]
	for _, q := range m.questions[testID] {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	m.questions[testID] = kept
	return nil
}

func (m *mockPracticeTestRepo) CreateResult(ctx context.Context, result *models.TestResult) error {
	if result.ID == "" {
		result.ID = fmt.Sprintf("result-%d", len(m.results)+1)
	}
	m.results = append(m.results, *result)
	return nil
}

func (m *mockPracticeTestRepo) ListResultsByClient(ctx context.Context, clientID string) ([]models.TestResult, error) {
	var list []models.TestResult
	for _, r := range m.results {
		if r.ClientID == clientID {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *mockPracticeTestRepo) ListResultsByTest(ctx context.Context, testID string) ([]models.TestResult, error) {
	var list []models.TestResult
	for _, r := range m.results {
		if r.TestBlancID == testID {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *mockPracticeTestRepo) ListResultsByClientAndTest(ctx context.Context, clientID, testID string) ([]models.TestResult, error) {
	var list []models.TestResult
	for _, r := range m.results {
		if r.ClientID == clientID && r.TestBlancID == testID {
			list = append(list, r)
		}
	}
	return list, nil
}

func seededPracticeRepo() *mockPracticeTestRepo {
	return &mockPracticeTestRepo{
		tests: map[string]models.PracticeTest{
			"t1": {ID: "t1", Titre: "Code série 1", ScoreMinimum: 80},
		},
		questions: map[string][]models.Question{
			"t1": {
				{ID: "q1", TestBlancID: "t1", ReponseCorrecte: "A", Points: 2},
				{ID: "q2", TestBlancID: "t1", ReponseCorrecte: "B", Points: 1},
				{ID: "q3", TestBlancID: "t1", ReponseCorrecte: "C", Points: 1},
			},
		},
	}
}

func newPracticeTestService(repo *mockPracticeTestRepo) *PracticeTestService {
	svc := NewPracticeTestService(repo, defaultClients(), validator.New(), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestPracticeTestServiceSubmit(t *testing.T) {
	repo := seededPracticeRepo()
	svc := newPracticeTestService(repo)

	result, err := svc.Submit(context.Background(), "t1", SubmitTestRequest{
		ClientID:     "c1",
		Answers:      map[string]string{"q1": "A", "q2": "B", "q3": "wrong"},
		TempsUtilise: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 75, result.Score, "3 of 4 points earned")
	assert.False(t, result.Reussi, "75 is below the minimum of 80")

	result, err = svc.Submit(context.Background(), "t1", SubmitTestRequest{
		ClientID: "c1",
		Answers:  map[string]string{"q1": "A", "q2": "B", "q3": "C"},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Reussi)
}

func TestPracticeTestServiceSubmitMissingAnswer(t *testing.T) {
	svc := newPracticeTestService(seededPracticeRepo())

	_, err := svc.Submit(context.Background(), "t1", SubmitTestRequest{
		ClientID: "c1",
		Answers:  map[string]string{"q1": "A"},
	})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestPracticeTestServiceSubmitEmptyTest(t *testing.T) {
	repo := seededPracticeRepo()
	repo.questions["t1"] = nil
	svc := newPracticeTestService(repo)

	_, err := svc.Submit(context.Background(), "t1", SubmitTestRequest{ClientID: "c1", Answers: map[string]string{}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalState.Code, appErrors.FromError(err).Code)
}

func TestPracticeTestServiceAddQuestion(t *testing.T) {
	svc := newPracticeTestService(seededPracticeRepo())

	question, err := svc.AddQuestion(context.Background(), "t1", CreateQuestionRequest{
		Enonce:            "Priorité à droite?",
		ReponseCorrecte:   "Oui",
		ReponsesPossibles: []string{"Oui", "Non"},
		Points:            1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, question.ID)

	_, err = svc.AddQuestion(context.Background(), "t1", CreateQuestionRequest{
		Enonce:            "Question piégée",
		ReponseCorrecte:   "Peut-être",
		ReponsesPossibles: []string{"Oui", "Non"},
		Points:            1,
	})
	require.Error(t, err, "correct answer absent from the proposals")
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}
