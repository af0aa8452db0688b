package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"marketplace-admin-service/internal/domain"
)

// Predefined errors for store operations
var (
	ErrLanguageNotFound   = errors.New("store: language not found")
	ErrLocaleExists       = errors.New("store: locale already configured")
	ErrSettingNotFound    = errors.New("store: setting not found")
	ErrCategoryNotFound   = errors.New("store: category not found")
	ErrBrandNotFound      = errors.New("store: brand not found")
	ErrBrandTitleExists   = errors.New("store: brand title already exists")
	ErrUnitNotFound       = errors.New("store: unit not found")
	ErrExtraGroupNotFound = errors.New("store: extra group not found")
	ErrExtraValueNotFound = errors.New("store: extra value not found")
	ErrProductNotFound    = errors.New("store: product not found")
	ErrShopNotFound       = errors.New("store: shop not found")
	ErrRequestNotFound    = errors.New("store: request not found")
	ErrRequestNotPending  = errors.New("store: request is not pending")
)

// PostgresStore implements every storer interface against PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	log.Info().Msg("closing database connection pool")
	return s.db.Close()
}

// querier abstracts *sql.DB and *sql.Tx so translation helpers run inside or
// outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return strings.Contains(pqErr.Constraint, constraint)
	}
	return false
}

// replaceTranslations rewrites the translation rows for one record. table is
// the translations table, fk the owning foreign key column.
func replaceTranslations(ctx context.Context, q querier, table, fk string, id int64, ts []domain.Translation) error {
	if _, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1;", table, fk), id); err != nil {
		return fmt.Errorf("store: clear %s: %w", table, err)
	}
	insertQuery := fmt.Sprintf("INSERT INTO %s (%s, locale, title, description) VALUES ($1, $2, $3, $4);", table, fk)
	for _, t := range ts {
		if _, err := q.ExecContext(ctx, insertQuery, id, t.Locale, t.Title, t.Description); err != nil {
			return fmt.Errorf("store: insert %s row: %w", table, err)
		}
	}
	return nil
}

func loadTranslations(ctx context.Context, q querier, table, fk string, id int64) ([]domain.Translation, error) {
	query := fmt.Sprintf("SELECT locale, title, description FROM %s WHERE %s = $1 ORDER BY locale ASC;", table, fk)
	rows, err := q.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("store: load %s: %w", table, err)
	}
	defer rows.Close()

	var out []domain.Translation
	for rows.Next() {
		var t domain.Translation
		var description sql.NullString
		if err := rows.Scan(&t.Locale, &t.Title, &description); err != nil {
			return nil, fmt.Errorf("store: scan %s row: %w", table, err)
		}
		t.Description = description.String
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate %s: %w", table, err)
	}
	return out, nil
}

// --- LanguageStorer Implementation ---

func (s *PostgresStore) ListLanguages(ctx context.Context) ([]domain.Language, error) {
	query := `
		SELECT id, locale, title, img, "default", active, created_at, updated_at
		FROM catalog.languages
		WHERE active = TRUE
		ORDER BY "default" DESC, id ASC;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListLanguages query failed: %w", err)
	}
	defer rows.Close()

	var langs []domain.Language
	for rows.Next() {
		var l domain.Language
		if err := rows.Scan(&l.ID, &l.Locale, &l.Title, &l.Img, &l.Default, &l.Active, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: ListLanguages failed to scan row: %w", err)
		}
		langs = append(langs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListLanguages iteration error: %w", err)
	}
	return langs, nil
}

func (s *PostgresStore) CreateLanguage(ctx context.Context, lang *domain.Language) (*domain.Language, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: CreateLanguage begin tx: %w", err)
	}
	defer tx.Rollback()

	// At most one language carries the default flag.
	if lang.Default {
		if _, err := tx.ExecContext(ctx, `UPDATE catalog.languages SET "default" = FALSE WHERE "default" = TRUE;`); err != nil {
			return nil, fmt.Errorf("store: CreateLanguage failed to clear previous default: %w", err)
		}
	}

	query := `
		INSERT INTO catalog.languages (locale, title, img, "default", active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, locale, title, img, "default", active, created_at, updated_at;
	`
	var created domain.Language
	err = tx.QueryRowContext(ctx, query, lang.Locale, lang.Title, lang.Img, lang.Default, lang.Active).Scan(
		&created.ID, &created.Locale, &created.Title, &created.Img, &created.Default, &created.Active,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "languages_locale_key") {
			return nil, ErrLocaleExists
		}
		return nil, fmt.Errorf("store: CreateLanguage failed to scan row: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: CreateLanguage commit: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) UpdateLanguage(ctx context.Context, lang *domain.Language) (*domain.Language, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: UpdateLanguage begin tx: %w", err)
	}
	defer tx.Rollback()

	if lang.Default {
		if _, err := tx.ExecContext(ctx, `UPDATE catalog.languages SET "default" = FALSE WHERE "default" = TRUE AND id <> $1;`, lang.ID); err != nil {
			return nil, fmt.Errorf("store: UpdateLanguage failed to clear previous default: %w", err)
		}
	}

	query := `
		UPDATE catalog.languages
		SET locale = $1, title = $2, img = $3, "default" = $4, active = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING id, locale, title, img, "default", active, created_at, updated_at;
	`
	var updated domain.Language
	err = tx.QueryRowContext(ctx, query, lang.Locale, lang.Title, lang.Img, lang.Default, lang.Active, lang.ID).Scan(
		&updated.ID, &updated.Locale, &updated.Title, &updated.Img, &updated.Default, &updated.Active,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLanguageNotFound
		}
		if isUniqueViolation(err, "languages_locale_key") {
			return nil, ErrLocaleExists
		}
		return nil, fmt.Errorf("store: UpdateLanguage failed to scan row: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: UpdateLanguage commit: %w", err)
	}
	return &updated, nil
}

func (s *PostgresStore) DeleteLanguage(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM catalog.languages WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteLanguage failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteLanguage failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrLanguageNotFound
	}
	return nil
}

// --- SettingStorer Implementation ---

func (s *PostgresStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM catalog.settings WHERE key = $1;`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("store: GetSetting failed to scan row: %w", err)
	}
	return value, nil
}

func (s *PostgresStore) UpsertSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO catalog.settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value;
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("store: UpsertSetting failed: %w", err)
	}
	return nil
}
