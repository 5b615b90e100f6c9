package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/autoecole-app/autoecole-api/internal/models"
)

// CommunicationRepository manages support threads and their messages.
type CommunicationRepository struct {
	db *sqlx.DB
}

// NewCommunicationRepository constructs a CommunicationRepository.
func NewCommunicationRepository(db *sqlx.DB) *CommunicationRepository {
	return &CommunicationRepository{db: db}
}

// CreateThread inserts a new communication.
func (r *CommunicationRepository) CreateThread(ctx context.Context, comm *models.Communication) error {
	if comm.ID == "" {
		comm.ID = uuid.NewString()
	}
	if comm.DateCreation.IsZero() {
		comm.DateCreation = time.Now().UTC()
	}
	const query = `INSERT INTO communications (id, client_id, sujet, statut, date_creation)
		VALUES (:id, :client_id, :sujet, :statut, :date_creation)`
	if _, err := r.db.NamedExecContext(ctx, query, comm); err != nil {
		return fmt.Errorf("create communication: %w", err)
	}
	return nil
}

// FindThreadByID fetches a communication by ID.
func (r *CommunicationRepository) FindThreadByID(ctx context.Context, id string) (*models.Communication, error) {
	var comm models.Communication
	if err := r.db.GetContext(ctx, &comm, "SELECT id, client_id, sujet, statut, date_creation FROM communications WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &comm, nil
}

// ListThreadsByClient returns a client's threads, newest first.
func (r *CommunicationRepository) ListThreadsByClient(ctx context.Context, clientID string) ([]models.Communication, error) {
	var list []models.Communication
	if err := r.db.SelectContext(ctx, &list, "SELECT id, client_id, sujet, statut, date_creation FROM communications WHERE client_id = $1 ORDER BY date_creation DESC", clientID); err != nil {
		return nil, fmt.Errorf("list communications by client: %w", err)
	}
	return list, nil
}

// ListOpenThreads returns all threads still open, newest first.
func (r *CommunicationRepository) ListOpenThreads(ctx context.Context) ([]models.Communication, error) {
	var list []models.Communication
	if err := r.db.SelectContext(ctx, &list, "SELECT id, client_id, sujet, statut, date_creation FROM communications WHERE statut = $1 ORDER BY date_creation DESC", models.CommunicationOpen); err != nil {
		return nil, fmt.Errorf("list open communications: %w", err)
	}
	return list, nil
}

// UpdateThreadStatus overwrites a thread's status.
func (r *CommunicationRepository) UpdateThreadStatus(ctx context.Context, id, statut string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE communications SET statut = $2 WHERE id = $1", id, statut); err != nil {
		return fmt.Errorf("update communication status: %w", err)
	}
	return nil
}

// CreateMessage appends a message to a thread.
func (r *CommunicationRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.DateEnvoi.IsZero() {
		msg.DateEnvoi = time.Now().UTC()
	}
	const query = `INSERT INTO messages (id, communication_id, contenu, expediteur, lu, date_envoi)
		VALUES (:id, :communication_id, :contenu, :expediteur, :lu, :date_envoi)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// FindMessageByID fetches a message by ID.
func (r *CommunicationRepository) FindMessageByID(ctx context.Context, id string) (*models.Message, error) {
	var msg models.Message
	if err := r.db.GetContext(ctx, &msg, "SELECT id, communication_id, contenu, expediteur, lu, date_envoi FROM messages WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns a thread's messages in send order.
func (r *CommunicationRepository) ListMessages(ctx context.Context, communicationID string) ([]models.Message, error) {
	var list []models.Message
	if err := r.db.SelectContext(ctx, &list, "SELECT id, communication_id, contenu, expediteur, lu, date_envoi FROM messages WHERE communication_id = $1 ORDER BY date_envoi ASC", communicationID); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return list, nil
}

// ListUnreadBySender returns unread messages sent by the given party.
func (r *CommunicationRepository) ListUnreadBySender(ctx context.Context, expediteur string) ([]models.Message, error) {
	var list []models.Message
	if err := r.db.SelectContext(ctx, &list, "SELECT id, communication_id, contenu, expediteur, lu, date_envoi FROM messages WHERE expediteur = $1 AND lu = FALSE ORDER BY date_envoi ASC", expediteur); err != nil {
		return nil, fmt.Errorf("list unread messages: %w", err)
	}
	return list, nil
}

// MarkMessageRead marks one message as read.
func (r *CommunicationRepository) MarkMessageRead(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE messages SET lu = TRUE WHERE id = $1", id); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// MarkThreadRead marks every message in a thread as read.
func (r *CommunicationRepository) MarkThreadRead(ctx context.Context, communicationID string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE messages SET lu = TRUE WHERE communication_id = $1", communicationID); err != nil {
		return fmt.Errorf("mark thread read: %w", err)
	}
	return nil
}
