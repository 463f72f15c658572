package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRefreshFiltersRevokedAndExpiredInSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id FROM refresh_tokens\s+WHERE token_hash = \? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP\(\)`).
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))

	uid, err := NewTokenRepo(db).ValidateRefresh(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), uid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefreshMissSurfacesNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Revoked and expired rows never come back from the query, so a
	// stale token looks exactly like an unknown one.
	mock.ExpectQuery(`SELECT user_id FROM refresh_tokens`).
		WithArgs("stale").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err = NewTokenRepo(db).ValidateRefresh(context.Background(), "stale")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRevokeByHashOnlyTouchesLiveRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP\(\)\s+WHERE token_hash = \? AND revoked_at IS NULL`).
		WithArgs("abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewTokenRepo(db).RevokeByHash(context.Background(), "abc123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
