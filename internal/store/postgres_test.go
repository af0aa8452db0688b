package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-admin-service/internal/domain"
)

// Helper function to create a mock DB and PostgresStore for testing
func newMockDBAndStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	store := NewPostgresStore(db)
	require.NotNil(t, store, "Store should not be nil")

	return db, mock, store
}

// Helper function to get a pointer (useful for optional fields in domain structs)
func PtrTo[T any](v T) *T {
	return &v
}

func TestPostgresStore_ListLanguages(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	rows := sqlmock.NewRows([]string{"id", "locale", "title", "img", "default", "active", "created_at", "updated_at"}).
		AddRow(int64(1), "en", "English", nil, true, true, now, now).
		AddRow(int64(2), "fr", "Français", nil, false, true, now, now)

	mock.ExpectQuery(`SELECT id, locale, title, img, "default", active`).WillReturnRows(rows)

	langs, err := store.ListLanguages(context.Background())

	require.NoError(t, err)
	require.Len(t, langs, 2)
	assert.Equal(t, "en", langs[0].Locale)
	assert.True(t, langs[0].Default)
	assert.Equal(t, "fr", langs[1].Locale)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateLanguage(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	langToCreate := &domain.Language{
		Locale:  "de",
		Title:   "Deutsch",
		Default: false,
		Active:  true,
	}

	query := regexp.QuoteMeta(`
		INSERT INTO catalog.languages (locale, title, img, "default", active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, locale, title, img, "default", active, created_at, updated_at;
	`)

	rows := sqlmock.NewRows([]string{"id", "locale", "title", "img", "default", "active", "created_at", "updated_at"}).
		AddRow(int64(3), langToCreate.Locale, langToCreate.Title, nil, langToCreate.Default, langToCreate.Active, now, now)

	mock.ExpectBegin()
	mock.ExpectQuery(query).
		WithArgs(langToCreate.Locale, langToCreate.Title, langToCreate.Img, langToCreate.Default, langToCreate.Active).
		WillReturnRows(rows)
	mock.ExpectCommit()

	created, err := store.CreateLanguage(context.Background(), langToCreate)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "de", created.Locale)
	assert.WithinDuration(t, now, created.CreatedAt, time.Second)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateLanguage_DefaultDisplacesPrevious(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	langToCreate := &domain.Language{
		Locale:  "de",
		Title:   "Deutsch",
		Default: true,
		Active:  true,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE catalog.languages SET "default" = FALSE WHERE "default" = TRUE;`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO catalog.languages`).
		WithArgs(langToCreate.Locale, langToCreate.Title, langToCreate.Img, langToCreate.Default, langToCreate.Active).
		WillReturnRows(sqlmock.NewRows([]string{"id", "locale", "title", "img", "default", "active", "created_at", "updated_at"}).
			AddRow(int64(3), langToCreate.Locale, langToCreate.Title, nil, true, true, now, now))
	mock.ExpectCommit()

	created, err := store.CreateLanguage(context.Background(), langToCreate)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, created.Default)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateLanguage_LocaleExists(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	langToCreate := &domain.Language{Locale: "en", Title: "English", Active: true}

	pqErr := &pq.Error{Code: "23505", Constraint: "languages_locale_key"}
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO catalog.languages`).
		WithArgs(langToCreate.Locale, langToCreate.Title, langToCreate.Img, langToCreate.Default, langToCreate.Active).
		WillReturnError(pqErr)
	mock.ExpectRollback()

	created, err := store.CreateLanguage(context.Background(), langToCreate)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocaleExists), "Error should be ErrLocaleExists")
	assert.Nil(t, created)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateLanguage_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	lang := &domain.Language{ID: 99, Locale: "en", Title: "English", Active: true}

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE catalog.languages`).
		WithArgs(lang.Locale, lang.Title, lang.Img, lang.Default, lang.Active, lang.ID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	updated, err := store.UpdateLanguage(context.Background(), lang)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLanguageNotFound))
	assert.Nil(t, updated)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteLanguage(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM catalog.languages WHERE id = $1;`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.DeleteLanguage(context.Background(), 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteLanguage_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM catalog.languages WHERE id = $1;`)).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteLanguage(context.Background(), 99)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLanguageNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetSetting(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM catalog.settings WHERE key = $1;`)).
		WithArgs(domain.SettingProductAutoApprove).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("1"))

	value, err := store.GetSetting(context.Background(), domain.SettingProductAutoApprove)

	require.NoError(t, err)
	assert.Equal(t, "1", value)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetSetting_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM catalog.settings WHERE key = $1;`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetSetting(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSettingNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertSetting(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO catalog.settings`).
		WithArgs(domain.SettingProductAutoApprove, "true").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpsertSetting(context.Background(), domain.SettingProductAutoApprove, "true"))
	require.NoError(t, mock.ExpectationsWereMet())
}
