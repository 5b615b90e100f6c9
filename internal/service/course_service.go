package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	ListUpcoming(ctx context.Context, after time.Time) ([]models.Course, error)
	ListByInstructor(ctx context.Context, moniteurID string) ([]models.Course, error)
	ListByType(ctx context.Context, courseType models.CourseType, autoEcoleID string) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	CountEnrollments(ctx context.Context, coursID string) (int, error)
	ExistsEnrollment(ctx context.Context, coursID, clientID string) (bool, error)
	CreateEnrollment(ctx context.Context, enrollment *models.CourseEnrollment) error
	RecordView(ctx context.Context, clientID, coursID string) error
	CountTheoryCourses(ctx context.Context) (int, error)
	CountViewedTheoryCourses(ctx context.Context, clientID string) (int, error)
}

// CreateCourseRequest carries the fields for a new course. Categorie applies
// to PUBLIC courses, TypeCours and AutoEcoleID to PRIVATE ones.
type CreateCourseRequest struct {
	Titre       string    `json:"titre" validate:"required,max=255"`
	Description string    `json:"description" validate:"required"`
	DateDebut   time.Time `json:"dateDebut" validate:"required"`
	DateFin     time.Time `json:"dateFin" validate:"required"`
	CapaciteMax int       `json:"capaciteMax" validate:"required,gt=0"`
	Prix        float64   `json:"prix" validate:"gte=0"`
	CourseType  string    `json:"courseType" validate:"required"`
	Categorie   *string   `json:"categorie" validate:"omitempty,max=100"`
	TypeCours   *string   `json:"typeCours" validate:"omitempty,max=100"`
	AutoEcoleID *string   `json:"autoEcoleId"`
	MoniteurID  *string   `json:"moniteurId"`
}

// CourseService manages group lessons, enrollments and theory progress.
type CourseService struct {
	courses     courseRepository
	clients     clientLookup
	instructors instructorLookup
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses courseRepository, clients clientLookup, instructors instructorLookup, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		courses:     courses,
		clients:     clients,
		instructors: instructors,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns the full course catalogue.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	return courses, nil
}

// ListUpcoming returns courses starting after now.
func (s *CourseService) ListUpcoming(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.ListUpcoming(ctx, s.now())
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	return courses, nil
}

// ListByInstructor returns courses taught by one moniteur.
func (s *CourseService) ListByInstructor(ctx context.Context, moniteurID string) ([]models.Course, error) {
	if _, err := s.instructors.FindByID(ctx, moniteurID); err != nil {
		return nil, loadError(err, "moniteur not found")
	}
	courses, err := s.courses.ListByInstructor(ctx, moniteurID)
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	return courses, nil
}

// ListByType filters the catalogue by PUBLIC or PRIVATE, optionally scoped to
// one school for PRIVATE courses.
func (s *CourseService) ListByType(ctx context.Context, rawType, autoEcoleID string) ([]models.Course, error) {
	courseType, ok := models.ParseCourseType(rawType)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid course type, must be one of: PUBLIC, PRIVATE")
	}
	courses, err := s.courses.ListByType(ctx, courseType, autoEcoleID)
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	return courses, nil
}

// Get returns a single course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "cours not found")
	}
	return course, nil
}

// checkCourseRequest validates window, type tag and type-specific fields
// shared by Create and Update.
func (s *CourseService) checkCourseRequest(ctx context.Context, req CreateCourseRequest) (models.CourseType, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cours payload")
	}
	courseType, ok := models.ParseCourseType(req.CourseType)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid course type, must be one of: PUBLIC, PRIVATE")
	}
	if !req.DateDebut.Before(req.DateFin) {
		return "", appErrors.Clone(appErrors.ErrValidation, "start date must be before end date")
	}
	if courseType == models.CoursePrivate && req.AutoEcoleID == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "a private course requires an auto-ecole")
	}
	if req.MoniteurID != nil {
		if _, err := s.instructors.FindByID(ctx, *req.MoniteurID); err != nil {
			return "", loadError(err, "moniteur not found")
		}
	}
	return courseType, nil
}

// Create registers a course after checking the window and the type-specific
// fields.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	courseType, err := s.checkCourseRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Titre:       req.Titre,
		Description: req.Description,
		DateDebut:   req.DateDebut,
		DateFin:     req.DateFin,
		CapaciteMax: req.CapaciteMax,
		Prix:        req.Prix,
		CourseType:  courseType,
		Categorie:   req.Categorie,
		TypeCours:   req.TypeCours,
		AutoEcoleID: req.AutoEcoleID,
		MoniteurID:  req.MoniteurID,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, internalError(err, "failed to create cours")
	}
	s.logger.Info("cours created", zap.String("cours_id", course.ID), zap.String("type", string(course.CourseType)))
	return course, nil
}

// Update overwrites a course with the same checks as Create.
func (s *CourseService) Update(ctx context.Context, id string, req CreateCourseRequest) (*models.Course, error) {
	courseType, err := s.checkCourseRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "cours not found")
	}

	course.Titre = req.Titre
	course.Description = req.Description
	course.DateDebut = req.DateDebut
	course.DateFin = req.DateFin
	course.CapaciteMax = req.CapaciteMax
	course.Prix = req.Prix
	course.CourseType = courseType
	course.Categorie = req.Categorie
	course.TypeCours = req.TypeCours
	course.AutoEcoleID = req.AutoEcoleID
	course.MoniteurID = req.MoniteurID
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, internalError(err, "failed to update cours")
	}
	return course, nil
}

// Enroll gives a client a seat on a course. Fails once capacity is reached
// or when the client already holds a seat.
func (s *CourseService) Enroll(ctx context.Context, coursID, clientID string) (*models.CourseEnrollment, error) {
	course, err := s.courses.FindByID(ctx, coursID)
	if err != nil {
		return nil, loadError(err, "cours not found")
	}
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, loadError(err, "client not found")
	}

	already, err := s.courses.ExistsEnrollment(ctx, coursID, clientID)
	if err != nil {
		return nil, internalError(err, "failed to check enrollment")
	}
	if already {
		return nil, appErrors.Clone(appErrors.ErrConflict, "client is already enrolled in this cours")
	}
	count, err := s.courses.CountEnrollments(ctx, coursID)
	if err != nil {
		return nil, internalError(err, "failed to count enrollments")
	}
	if count >= course.CapaciteMax {
		return nil, appErrors.Clone(appErrors.ErrCapacityFull, "cours has reached its maximum capacity")
	}

	enrollment := &models.CourseEnrollment{CoursID: coursID, ClientID: clientID}
	if err := s.courses.CreateEnrollment(ctx, enrollment); err != nil {
		return nil, internalError(err, "failed to enroll client")
	}
	s.logger.Info("client enrolled", zap.String("cours_id", coursID), zap.String("client_id", clientID))
	return enrollment, nil
}

// RecordView marks a theory course as seen by the client. Repeated views are
// idempotent.
func (s *CourseService) RecordView(ctx context.Context, clientID, coursID string) error {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return loadError(err, "client not found")
	}
	if _, err := s.courses.FindByID(ctx, coursID); err != nil {
		return loadError(err, "cours not found")
	}
	if err := s.courses.RecordView(ctx, clientID, coursID); err != nil {
		return internalError(err, "failed to record course view")
	}
	return nil
}

// TheoryProgress reports how many theory courses exist and how many the
// client has opened.
func (s *CourseService) TheoryProgress(ctx context.Context, clientID string) (*models.TheoryProgress, error) {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, loadError(err, "client not found")
	}
	total, err := s.courses.CountTheoryCourses(ctx)
	if err != nil {
		return nil, internalError(err, "failed to count theory courses")
	}
	viewed, err := s.courses.CountViewedTheoryCourses(ctx, clientID)
	if err != nil {
		return nil, internalError(err, "failed to count viewed courses")
	}
	return &models.TheoryProgress{TotalTheoryCourses: total, ViewedTheoryCourses: viewed}, nil
}
