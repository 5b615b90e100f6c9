package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

type mockCommunicationRepo struct {
	threads  map[string]models.Communication
	messages []models.Message
}

func (m *mockCommunicationRepo) CreateThread(ctx context.Context, comm *models.Communication) error {
	if m.threads == nil {
		m.threads = make(map[string]models.Communication)
	}
	if comm.ID == "" {
		comm.ID = fmt.Sprintf("comm-%d", len(m.threads)+1)
	}
	m.threads[comm.ID] = *comm
	return nil
}

func (m *mockCommunicationRepo) FindThreadByID(ctx context.Context, id string) (*models.Communication, error) {
	if c, ok := m.threads[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCommunicationRepo) ListThreadsByClient(ctx context.Context, clientID string) ([]models.Communication, error) {
	var list []models.Communication
	for _, c := range m.threads {
		if c.ClientID == clientID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *mockCommunicationRepo) ListOpenThreads(ctx context.Context) ([]models.Communication, error) {
	var list []models.Communication
	for _, c := range m.threads {
		if c.Statut == models.CommunicationOpen {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *mockCommunicationRepo) UpdateThreadStatus(ctx context.Context, id, statut string) error {
	c := m.threads[id]
	c.Statut = statut
	m.threads[id] = c
	return nil
}

func (m *mockCommunicationRepo) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = fmt.Sprintf("msg-%d", len(m.messages)+1)
	}
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockCommunicationRepo) ListMessages(ctx context.Context, communicationID string) ([]models.Message, error) {
	var list []models.Message
	for _, msg := range m.messages {
		if msg.CommunicationID == communicationID {
			list = append(list, msg)
		}
	}
	return list, nil
}

func (m *mockCommunicationRepo) ListUnreadBySender(ctx context.Context, expediteur string) ([]models.Message, error) {
	var list []models.Message
	for _, msg := range m.messages {
		if msg.Expediteur == expediteur && !msg.Lu {
			list = append(list, msg)
		}
	}
	return list, nil
}

func (m *mockCommunicationRepo) MarkMessageRead(ctx context.Context, id string) error {
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].Lu = true
		}
	}
	return nil
}

func (m *mockCommunicationRepo) MarkThreadRead(ctx context.Context, communicationID string) error {
	for i := range m.messages {
		if m.messages[i].CommunicationID == communicationID {
			m.messages[i].Lu = true
		}
	}
	return nil
}

func newCommunicationService(repo *mockCommunicationRepo) *CommunicationService {
	return NewCommunicationService(repo, defaultClients(), validator.New(), zap.NewNop())
}

func TestCommunicationServiceOpenThread(t *testing.T) {
	repo := &mockCommunicationRepo{}
	svc := newCommunicationService(repo)

	thread, err := svc.OpenThread(context.Background(), OpenThreadRequest{
		ClientID: "c1",
		Sujet:    "  Changement d'horaire  ",
		Message:  "Puis-je décaler ma leçon de mardi?",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CommunicationOpen, thread.Statut)
	assert.Equal(t, "Changement d'horaire", thread.Sujet)

	messages, err := svc.Messages(context.Background(), thread.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1, "opening a thread posts the first message")
	assert.Equal(t, models.SenderClient, messages[0].Expediteur)
}

func TestCommunicationServiceCloseThread(t *testing.T) {
	repo := &mockCommunicationRepo{}
	svc := newCommunicationService(repo)

	thread, err := svc.OpenThread(context.Background(), OpenThreadRequest{ClientID: "c1", Sujet: "Question", Message: "Bonjour"})
	require.NoError(t, err)

	closed, err := svc.CloseThread(context.Background(), thread.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommunicationClosed, closed.Statut)

	_, err = svc.CloseThread(context.Background(), thread.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalState.Code, appErrors.FromError(err).Code)
}

func TestCommunicationServicePostMessage(t *testing.T) {
	repo := &mockCommunicationRepo{}
	svc := newCommunicationService(repo)

	thread, err := svc.OpenThread(context.Background(), OpenThreadRequest{ClientID: "c1", Sujet: "Question", Message: "Bonjour"})
	require.NoError(t, err)

	msg, err := svc.PostMessage(context.Background(), thread.ID, PostMessageRequest{Contenu: "Bonjour, bien sûr.", Expediteur: models.SenderAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.SenderAdmin, msg.Expediteur)

	_, err = svc.PostMessage(context.Background(), thread.ID, PostMessageRequest{Contenu: "Merci", Expediteur: "ROBOT"})
	require.Error(t, err, "sender must be CLIENT or ADMIN")

	_, err = svc.CloseThread(context.Background(), thread.ID)
	require.NoError(t, err)
	_, err = svc.PostMessage(context.Background(), thread.ID, PostMessageRequest{Contenu: "Encore une chose", Expediteur: models.SenderClient})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalState.Code, appErrors.FromError(err).Code)
}

func TestCommunicationServiceUnreadInbox(t *testing.T) {
	repo := &mockCommunicationRepo{}
	svc := newCommunicationService(repo)

	thread, err := svc.OpenThread(context.Background(), OpenThreadRequest{ClientID: "c1", Sujet: "Question", Message: "Bonjour"})
	require.NoError(t, err)
	_, err = svc.PostMessage(context.Background(), thread.ID, PostMessageRequest{Contenu: "Réponse", Expediteur: models.SenderAdmin})
	require.NoError(t, err)

	unread, err := svc.UnreadFromClients(context.Background())
	require.NoError(t, err)
	require.Len(t, unread, 1, "admin messages do not appear in the staff inbox")

	require.NoError(t, svc.MarkThreadRead(context.Background(), thread.ID))
	unread, err = svc.UnreadFromClients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, unread)
}
