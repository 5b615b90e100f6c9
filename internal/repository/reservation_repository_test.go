package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoecole-app/autoecole-api/internal/models"
)

func newReservationMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestReservationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newReservationMock(t)
	defer cleanup()
	repo := NewReservationRepository(db)

	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(sqlmock.AnyArg(), "c1", "m1", "s1", sqlmock.AnyArg(), nil, "PENDING", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	res := &models.Reservation{
		ClientID:        "c1",
		MoniteurID:      "m1",
		TimeSlotID:      "s1",
		DateReservation: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Statut:          models.ReservationPending,
	}
	require.NoError(t, repo.Create(context.Background(), res))
	assert.NotEmpty(t, res.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryCreateLostRace(t *testing.T) {
	db, mock, cleanup := newReservationMock(t)
	defer cleanup()
	repo := NewReservationRepository(db)

	mock.ExpectExec("INSERT INTO reservations").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uniq_active_reservation_per_slot"})

	err := repo.Create(context.Background(), &models.Reservation{
		ClientID:        "c2",
		MoniteurID:      "m1",
		TimeSlotID:      "s1",
		DateReservation: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Statut:          models.ReservationPending,
	})
	assert.ErrorIs(t, err, ErrDuplicateActiveReservation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryExistsActiveForSlot(t *testing.T) {
	db, mock, cleanup := newReservationMock(t)
	defer cleanup()
	repo := NewReservationRepository(db)

	when := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("SELECT 1 FROM reservations WHERE time_slot_id = $1 AND date_reservation = $2 AND statut <> 'CANCELLED' LIMIT 1")

	mock.ExpectQuery(query).
		WithArgs("s1", when).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	exists, err := repo.ExistsActiveForSlot(context.Background(), "s1", when)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(query).
		WithArgs("s2", when).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	exists, err = repo.ExistsActiveForSlot(context.Background(), "s2", when)
	require.NoError(t, err)
	assert.False(t, exists, "no rows means the slot is free")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryListActiveBySlotIDs(t *testing.T) {
	db, mock, cleanup := newReservationMock(t)
	defer cleanup()
	repo := NewReservationRepository(db)

	list, err := repo.ListActiveBySlotIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, list, "no slot ids means no query at all")

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "client_id", "moniteur_id", "time_slot_id", "date_reservation", "commentaire", "statut", "created_at", "updated_at"}).
		AddRow("r1", "c1", "m1", "s1", now, nil, "BOOKED", now, now)
	mock.ExpectQuery("SELECT id, client_id, moniteur_id, time_slot_id, date_reservation, commentaire, statut, created_at, updated_at FROM reservations WHERE time_slot_id IN").
		WithArgs("s1", "s2").
		WillReturnRows(rows)

	list, err = repo.ListActiveBySlotIDs(context.Background(), []string{"s1", "s2"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ReservationBooked, list[0].Statut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newReservationMock(t)
	defer cleanup()
	repo := NewReservationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET statut = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("r1", models.ReservationBooked, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), "r1", models.ReservationBooked))
	assert.NoError(t, mock.ExpectationsWereMet())
}
