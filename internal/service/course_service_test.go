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

type mockCourseRepo struct {
	courses     map[string]models.Course
	enrollments map[string][]string
	views       map[string][]string
	theoryTotal int
}

func (m *mockCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	var list []models.Course
	for _, c := range m.courses {
		list = append(list, c)
	}
	return list, nil
}

func (m *mockCourseRepo) ListUpcoming(ctx context.Context, after time.Time) ([]models.Course, error) {
	var list []models.Course
	for _, c := range m.courses {
		if c.DateDebut.After(after) {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *mockCourseRepo) ListByInstructor(ctx context.Context, moniteurID string) ([]models.Course, error) {
	var list []models.Course
	for _, c := range m.courses {
		if c.MoniteurID != nil && *c.MoniteurID == moniteurID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *mockCourseRepo) ListByType(ctx context.Context, courseType models.CourseType, autoEcoleID string) ([]models.Course, error) {
	var list []models.Course
	for _, c := range m.courses {
		if c.CourseType != courseType {
			continue
		}
		if autoEcoleID != "" && (c.AutoEcoleID == nil || *c.AutoEcoleID != autoEcoleID) {
			continue
		}
		list = append(list, c)
	}
	return list, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.courses == nil {
		m.courses = make(map[string]models.Course)
	}
	if course.ID == "" {
		course.ID = fmt.Sprintf("course-%d", len(m.courses)+1)
	}
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) CountEnrollments(ctx context.Context, coursID string) (int, error) {
	return len(m.enrollments[coursID]), nil
}

func (m *mockCourseRepo) ExistsEnrollment(ctx context.Context, coursID, clientID string) (bool, error) {
	for _, c := range m.enrollments[coursID] {
		if c == clientID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) CreateEnrollment(ctx context.Context, enrollment *models.CourseEnrollment) error {
	if m.enrollments == nil {
		m.enrollments = make(map[string][]string)
	}
	if enrollment.ID == "" {
		enrollment.ID = "enr-1"
	}
	m.enrollments[enrollment.CoursID] = append(m.enrollments[enrollment.CoursID], enrollment.ClientID)
	return nil
}

func (m *mockCourseRepo) RecordView(ctx context.Context, clientID, coursID string) error {
	if m.views == nil {
		m.views = make(map[string][]string)
	}
	for _, c := range m.views[clientID] {
		if c == coursID {
			return nil
		}
	}
	m.views[clientID] = append(m.views[clientID], coursID)
	return nil
}

func (m *mockCourseRepo) CountTheoryCourses(ctx context.Context) (int, error) {
	return m.theoryTotal, nil
}

func (m *mockCourseRepo) CountViewedTheoryCourses(ctx context.Context, clientID string) (int, error) {
	return len(m.views[clientID]), nil
}

func newCourseService(repo *mockCourseRepo) *CourseService {
	svc := NewCourseService(repo, defaultClients(), defaultInstructors(), validator.New(), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func courseWindow() (time.Time, time.Time) {
	return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC), time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
}

func TestCourseServiceCreate(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := newCourseService(repo)
	start, end := courseWindow()

	course, err := svc.Create(context.Background(), CreateCourseRequest{
		Titre:       "Code de la route",
		Description: "Séance théorique",
		DateDebut:   start,
		DateFin:     end,
		CapaciteMax: 10,
		CourseType:  "PUBLIC",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CoursePublic, course.CourseType)

	_, err = svc.Create(context.Background(), CreateCourseRequest{
		Titre: "x", Description: "y", DateDebut: start, DateFin: end, CapaciteMax: 5, CourseType: "SECRET",
	})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	_, err = svc.Create(context.Background(), CreateCourseRequest{
		Titre: "x", Description: "y", DateDebut: end, DateFin: start, CapaciteMax: 5, CourseType: "PUBLIC",
	})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	_, err = svc.Create(context.Background(), CreateCourseRequest{
		Titre: "x", Description: "y", DateDebut: start, DateFin: end, CapaciteMax: 5, CourseType: "PRIVATE",
	})
	require.Error(t, err, "private course without a school must be refused")
}

func TestCourseServiceUpdate(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := newCourseService(repo)
	start, end := courseWindow()

	course, err := svc.Create(context.Background(), CreateCourseRequest{
		Titre:       "Code de la route",
		Description: "Séance théorique",
		DateDebut:   start,
		DateFin:     end,
		CapaciteMax: 10,
		CourseType:  "PUBLIC",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), course.ID, CreateCourseRequest{
		Titre:       "Code de la route, session du soir",
		Description: "Séance théorique",
		DateDebut:   start,
		DateFin:     end,
		CapaciteMax: 15,
		CourseType:  "PUBLIC",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.CapaciteMax)
	assert.Equal(t, 15, repo.courses[course.ID].CapaciteMax)

	_, err = svc.Update(context.Background(), "ghost", CreateCourseRequest{
		Titre: "x", Description: "y", DateDebut: start, DateFin: end, CapaciteMax: 5, CourseType: "PUBLIC",
	})
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestCourseServiceEnroll(t *testing.T) {
	start, end := courseWindow()
	repo := &mockCourseRepo{courses: map[string]models.Course{
		"crs": {ID: "crs", Titre: "Conduite", DateDebut: start, DateFin: end, CapaciteMax: 1, CourseType: models.CoursePublic},
	}}
	svc := newCourseService(repo)

	_, err := svc.Enroll(context.Background(), "crs", "c1")
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), "crs", "c1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = svc.Enroll(context.Background(), "crs", "c2")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCapacityFull.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)

	_, err = svc.Enroll(context.Background(), "missing", "c1")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestCourseServiceTheoryProgress(t *testing.T) {
	start, end := courseWindow()
	repo := &mockCourseRepo{
		courses: map[string]models.Course{
			"th1": {ID: "th1", DateDebut: start, DateFin: end, CourseType: models.CoursePublic},
		},
		theoryTotal: 4,
	}
	svc := newCourseService(repo)

	require.NoError(t, svc.RecordView(context.Background(), "c1", "th1"))
	require.NoError(t, svc.RecordView(context.Background(), "c1", "th1"), "repeated views stay idempotent")

	progress, err := svc.TheoryProgress(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 4, progress.TotalTheoryCourses)
	assert.Equal(t, 1, progress.ViewedTheoryCourses)
}

func TestCourseServiceListByType(t *testing.T) {
	school := "ae1"
	start, end := courseWindow()
	repo := &mockCourseRepo{courses: map[string]models.Course{
		"pub":  {ID: "pub", DateDebut: start, DateFin: end, CourseType: models.CoursePublic},
		"priv": {ID: "priv", DateDebut: start, DateFin: end, CourseType: models.CoursePrivate, AutoEcoleID: &school},
	}}
	svc := newCourseService(repo)

	courses, err := svc.ListByType(context.Background(), "PRIVATE", "ae1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "priv", courses[0].ID)

	_, err = svc.ListByType(context.Background(), "WEIRD", "")
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}
