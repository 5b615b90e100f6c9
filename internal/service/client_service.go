package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

type clientRepository interface {
	List(ctx context.Context) ([]models.Client, error)
	ListBySchool(ctx context.Context, autoEcoleID string) ([]models.Client, error)
	FindByID(ctx context.Context, id string) (*models.Client, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
}

// ClientRequest carries the mutable fields of a client.
type ClientRequest struct {
	Nom           string  `json:"nom" validate:"required,max=100"`
	Prenom        string  `json:"prenom" validate:"required,max=100"`
	Email         string  `json:"email" validate:"required,email"`
	Telephone     *string `json:"telephone" validate:"omitempty,max=30"`
	DateNaissance *string `json:"dateNaissance" validate:"omitempty,datetime=2006-01-02"`
	NumeroPermis  *string `json:"numeroPermis" validate:"omitempty,max=50"`
	TypePermis    *string `json:"typePermis" validate:"omitempty,max=10"`
	AutoEcoleID   *string `json:"autoEcoleId"`
}

// ClientService manages learners.
type ClientService struct {
	clients   clientRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClientService constructs a ClientService.
func NewClientService(clients clientRepository, validate *validator.Validate, logger *zap.Logger) *ClientService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{clients: clients, validator: validate, logger: logger}
}

// List returns all clients, optionally scoped to one school.
func (s *ClientService) List(ctx context.Context, autoEcoleID string) ([]models.Client, error) {
	var (
		clients []models.Client
		err     error
	)
	if autoEcoleID != "" {
		clients, err = s.clients.ListBySchool(ctx, autoEcoleID)
	} else {
		clients, err = s.clients.List(ctx)
	}
	if err != nil {
		return nil, internalError(err, "failed to list clients")
	}
	return clients, nil
}

// Get returns a single client.
func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "client not found")
	}
	return client, nil
}

// Create registers a client.
func (s *ClientService) Create(ctx context.Context, req ClientRequest) (*models.Client, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid client payload")
	}
	exists, err := s.clients.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, internalError(err, "failed to check client email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a client with this email already exists")
	}

	client := &models.Client{
		Nom:           req.Nom,
		Prenom:        req.Prenom,
		Email:         req.Email,
		Telephone:     req.Telephone,
		DateNaissance: req.DateNaissance,
		NumeroPermis:  req.NumeroPermis,
		TypePermis:    req.TypePermis,
		AutoEcoleID:   req.AutoEcoleID,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, internalError(err, "failed to create client")
	}
	s.logger.Info("client created", zap.String("client_id", client.ID), zap.String("email", client.Email))
	return client, nil
}

// Update overwrites a client's mutable fields.
func (s *ClientService) Update(ctx context.Context, id string, req ClientRequest) (*models.Client, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid client payload")
	}
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "client not found")
	}
	exists, err := s.clients.ExistsByEmail(ctx, req.Email, id)
	if err != nil {
		return nil, internalError(err, "failed to check client email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a client with this email already exists")
	}

	client.Nom = req.Nom
	client.Prenom = req.Prenom
	client.Email = req.Email
	client.Telephone = req.Telephone
	client.DateNaissance = req.DateNaissance
	client.NumeroPermis = req.NumeroPermis
	client.TypePermis = req.TypePermis
	client.AutoEcoleID = req.AutoEcoleID
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, internalError(err, "failed to update client")
	}
	return client, nil
}

// Delete removes a client. Reservations reference the client and are kept by
// the schema's cascade rules.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	if _, err := s.clients.FindByID(ctx, id); err != nil {
		return loadError(err, "client not found")
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete client")
	}
	s.logger.Info("client deleted", zap.String("client_id", id))
	return nil
}
