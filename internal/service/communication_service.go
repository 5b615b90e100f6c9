package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

type communicationRepository interface {
	CreateThread(ctx context.Context, comm *models.Communication) error
	FindThreadByID(ctx context.Context, id string) (*models.Communication, error)
	ListThreadsByClient(ctx context.Context, clientID string) ([]models.Communication, error)
	ListOpenThreads(ctx context.Context) ([]models.Communication, error)
	UpdateThreadStatus(ctx context.Context, id, statut string) error
	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, communicationID string) ([]models.Message, error)
	ListUnreadBySender(ctx context.Context, expediteur string) ([]models.Message, error)
	MarkMessageRead(ctx context.Context, id string) error
	MarkThreadRead(ctx context.Context, communicationID string) error
}

// OpenThreadRequest starts a new support thread with its first message.
type OpenThreadRequest struct {
	ClientID string `json:"clientId" validate:"required"`
	Sujet    string `json:"sujet" validate:"required,max=255"`
	Message  string `json:"message" validate:"required"`
}

// PostMessageRequest appends a message to an existing thread.
type PostMessageRequest struct {
	Contenu    string `json:"contenu" validate:"required"`
	Expediteur string `json:"expediteur" validate:"required,oneof=CLIENT ADMIN"`
}

// CommunicationService manages support threads between clients and the
// school staff.
type CommunicationService struct {
	communications communicationRepository
	clients        clientLookup
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewCommunicationService constructs a CommunicationService.
func NewCommunicationService(communications communicationRepository, clients clientLookup, validate *validator.Validate, logger *zap.Logger) *CommunicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommunicationService{communications: communications, clients: clients, validator: validate, logger: logger}
}

// OpenThread creates a thread in OUVERTE status and posts the opening client
// message.
func (s *CommunicationService) OpenThread(ctx context.Context, req OpenThreadRequest) (*models.Communication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid communication payload")
	}
	if _, err := s.clients.FindByID(ctx, req.ClientID); err != nil {
		return nil, loadError(err, "client not found")
	}

	thread := &models.Communication{
		ClientID: req.ClientID,
		Sujet:    strings.TrimSpace(req.Sujet),
		Statut:   models.CommunicationOpen,
	}
	if err := s.communications.CreateThread(ctx, thread); err != nil {
		return nil, internalError(err, "failed to create communication")
	}
	msg := &models.Message{
		CommunicationID: thread.ID,
		Contenu:         strings.TrimSpace(req.Message),
		Expediteur:      models.SenderClient,
	}
	if err := s.communications.CreateMessage(ctx, msg); err != nil {
		return nil, internalError(err, "failed to create message")
	}
	s.logger.Info("communication opened", zap.String("communication_id", thread.ID), zap.String("client_id", req.ClientID))
	return thread, nil
}

// GetThread returns a thread by id.
func (s *CommunicationService) GetThread(ctx context.Context, id string) (*models.Communication, error) {
	thread, err := s.communications.FindThreadByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "communication not found")
	}
	return thread, nil
}

// ThreadsByClient lists a client's threads, newest first.
func (s *CommunicationService) ThreadsByClient(ctx context.Context, clientID string) ([]models.Communication, error) {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, loadError(err, "client not found")
	}
	threads, err := s.communications.ListThreadsByClient(ctx, clientID)
	if err != nil {
		return nil, internalError(err, "failed to list communications")
	}
	return threads, nil
}

// OpenThreads lists every thread still awaiting an answer.
func (s *CommunicationService) OpenThreads(ctx context.Context) ([]models.Communication, error) {
	threads, err := s.communications.ListOpenThreads(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list communications")
	}
	return threads, nil
}

// CloseThread moves a thread to FERMEE. Closing twice is refused.
func (s *CommunicationService) CloseThread(ctx context.Context, id string) (*models.Communication, error) {
	thread, err := s.communications.FindThreadByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "communication not found")
	}
	if thread.Statut == models.CommunicationClosed {
		return nil, appErrors.Clone(appErrors.ErrIllegalState, "communication is already closed")
	}
	if err := s.communications.UpdateThreadStatus(ctx, id, models.CommunicationClosed); err != nil {
		return nil, internalError(err, "failed to close communication")
	}
	thread.Statut = models.CommunicationClosed
	return thread, nil
}

// PostMessage appends a message to an open thread. Posting to a closed
// thread is refused.
func (s *CommunicationService) PostMessage(ctx context.Context, communicationID string, req PostMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}
	thread, err := s.communications.FindThreadByID(ctx, communicationID)
	if err != nil {
		return nil, loadError(err, "communication not found")
	}
	if thread.Statut == models.CommunicationClosed {
		return nil, appErrors.Clone(appErrors.ErrIllegalState, "communication is closed")
	}

	msg := &models.Message{
		CommunicationID: communicationID,
		Contenu:         strings.TrimSpace(req.Contenu),
		Expediteur:      req.Expediteur,
	}
	if err := s.communications.CreateMessage(ctx, msg); err != nil {
		return nil, internalError(err, "failed to create message")
	}
	return msg, nil
}

// Messages lists a thread's messages, oldest first.
func (s *CommunicationService) Messages(ctx context.Context, communicationID string) ([]models.Message, error) {
	if _, err := s.communications.FindThreadByID(ctx, communicationID); err != nil {
		return nil, loadError(err, "communication not found")
	}
	messages, err := s.communications.ListMessages(ctx, communicationID)
	if err != nil {
		return nil, internalError(err, "failed to list messages")
	}
	return messages, nil
}

// UnreadFromClients lists unread client messages across all threads, for the
// staff inbox.
func (s *CommunicationService) UnreadFromClients(ctx context.Context) ([]models.Message, error) {
	messages, err := s.communications.ListUnreadBySender(ctx, models.SenderClient)
	if err != nil {
		return nil, internalError(err, "failed to list unread messages")
	}
	return messages, nil
}

// MarkMessageRead flags one message as read.
func (s *CommunicationService) MarkMessageRead(ctx context.Context, id string) error {
	if err := s.communications.MarkMessageRead(ctx, id); err != nil {
		return internalError(err, "failed to mark message read")
	}
	return nil
}

// MarkThreadRead flags every message of a thread as read.
func (s *CommunicationService) MarkThreadRead(ctx context.Context, communicationID string) error {
	if _, err := s.communications.FindThreadByID(ctx, communicationID); err != nil {
		return loadError(err, "communication not found")
	}
	if err := s.communications.MarkThreadRead(ctx, communicationID); err != nil {
		return internalError(err, "failed to mark communication read")
	}
	return nil
}
