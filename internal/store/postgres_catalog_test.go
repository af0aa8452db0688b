package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_ListAllCategories(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	categoryRows := sqlmock.NewRows([]string{"id", "parent_id", "img", "active", "created_at", "updated_at"}).
		AddRow(int64(1), nil, nil, true, now, now).
		AddRow(int64(2), PtrTo(int64(1)), nil, true, now, now)

	// No LIMIT: the tree endpoint needs every row.
	mock.ExpectQuery(`SELECT id, parent_id, img, active, created_at, updated_at\s+FROM catalog.categories\s+ORDER BY id ASC;`).
		WillReturnRows(categoryRows)

	translationQuery := regexp.QuoteMeta(`SELECT locale, title, description FROM catalog.category_translations WHERE category_id = $1 ORDER BY locale ASC;`)
	mock.ExpectQuery(translationQuery).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"locale", "title", "description"}).AddRow("en", "Clothing", nil))
	mock.ExpectQuery(translationQuery).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"locale", "title", "description"}).AddRow("en", "Shoes", nil))

	categories, err := store.ListAllCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Nil(t, categories[0].ParentID)
	require.NotNil(t, categories[1].ParentID)
	assert.Equal(t, int64(1), *categories[1].ParentID)
	assert.Equal(t, "Clothing", categories[0].Translations[0].Title)
	assert.Equal(t, "Shoes", categories[1].Translations[0].Title)

	require.NoError(t, mock.ExpectationsWereMet())
}
