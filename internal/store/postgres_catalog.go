package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"marketplace-admin-service/internal/domain"
)

// --- CategoryStorer Implementation ---

func (s *PostgresStore) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: CreateCategory begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO catalog.categories (parent_id, img, active)
		VALUES ($1, $2, $3)
		RETURNING id, parent_id, img, active, created_at, updated_at;
	`
	var created domain.Category
	err = tx.QueryRowContext(ctx, query, category.ParentID, category.Img, category.Active).Scan(
		&created.ID, &created.ParentID, &created.Img, &created.Active, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("store: CreateCategory failed to scan row: %w", err)
	}

	if err := replaceTranslations(ctx, tx, "catalog.category_translations", "category_id", created.ID, category.Translations); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: CreateCategory commit: %w", err)
	}
	created.Translations = category.Translations
	return &created, nil
}

func (s *PostgresStore) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
		SELECT id, parent_id, img, active, created_at, updated_at
		FROM catalog.categories
		WHERE id = $1;
	`
	var category domain.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID, &category.ParentID, &category.Img, &category.Active, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: GetCategoryByID failed to scan row: %w", err)
	}

	if category.Translations, err = loadTranslations(ctx, s.db, "catalog.category_translations", "category_id", id); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context, params ListParams) ([]domain.Category, int, error) {
	countQuery := `SELECT COUNT(*) FROM catalog.categories;`
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("store: ListCategories failed to count categories: %w", err)
	}
	if totalCount == 0 {
		return []domain.Category{}, 0, nil
	}

	query := `
		SELECT id, parent_id, img, active, created_at, updated_at
		FROM catalog.categories
		ORDER BY id ASC
		LIMIT $1 OFFSET $2;
	`
	rows, err := s.db.QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: ListCategories failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0, params.Limit)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Img, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("store: ListCategories failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: ListCategories iteration error: %w", err)
	}

	for i := range categories {
		if categories[i].Translations, err = loadTranslations(ctx, s.db, "catalog.category_translations", "category_id", categories[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return categories, totalCount, nil
}

// ListAllCategories returns the whole category table without paging. The
// category tree endpoint needs every row to attach children to their parents.
func (s *PostgresStore) ListAllCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT id, parent_id, img, active, created_at, updated_at
		FROM catalog.categories
		ORDER BY id ASC;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListAllCategories failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Img, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: ListAllCategories failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListAllCategories iteration error: %w", err)
	}

	for i := range categories {
		if categories[i].Translations, err = loadTranslations(ctx, s.db, "catalog.category_translations", "category_id", categories[i].ID); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: UpdateCategory begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE catalog.categories
		SET parent_id = $1, img = $2, active = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING id, parent_id, img, active, created_at, updated_at;
	`
	var updated domain.Category
	err = tx.QueryRowContext(ctx, query, category.ParentID, category.Img, category.Active, category.ID).Scan(
		&updated.ID, &updated.ParentID, &updated.Img, &updated.Active, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: UpdateCategory failed to scan row: %w", err)
	}

	if err := replaceTranslations(ctx, tx, "catalog.category_translations", "category_id", updated.ID, category.Translations); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: UpdateCategory commit: %w", err)
	}
	updated.Translations = category.Translations
	return &updated, nil
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM catalog.categories WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteCategory failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteCategory failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// --- BrandStorer Implementation ---

func (s *PostgresStore) CreateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error) {
	query := `
		INSERT INTO catalog.brands (title, img, active)
		VALUES ($1, $2, $3)
		RETURNING id, title, img, active, created_at, updated_at;
	`
	var created domain.Brand
	err := s.db.QueryRowContext(ctx, query, brand.Title, brand.Img, brand.Active).Scan(
		&created.ID, &created.Title, &created.Img, &created.Active, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "brands_title_key") {
			return nil, ErrBrandTitleExists
		}
		return nil, fmt.Errorf("store: CreateBrand failed to scan row: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) GetBrandByID(ctx context.Context, id int64) (*domain.Brand, error) {
	query := `
		SELECT id, title, img, active, created_at, updated_at
		FROM catalog.brands
		WHERE id = $1;
	`
	var brand domain.Brand
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&brand.ID, &brand.Title, &brand.Img, &brand.Active, &brand.CreatedAt, &brand.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("store: GetBrandByID failed to scan row: %w", err)
	}
	return &brand, nil
}

func (s *PostgresStore) ListBrands(ctx context.Context, params ListParams) ([]domain.Brand, int, error) {
	countQuery := `SELECT COUNT(*) FROM catalog.brands;`
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("store: ListBrands failed to count brands: %w", err)
	}
	if totalCount == 0 {
		return []domain.Brand{}, 0, nil
	}

	query := `
		SELECT id, title, img, active, created_at, updated_at
		FROM catalog.brands
		ORDER BY title ASC
		LIMIT $1 OFFSET $2;
	`
	rows, err := s.db.QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: ListBrands failed to query brands: %w", err)
	}
	defer rows.Close()

	brands := make([]domain.Brand, 0, params.Limit)
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Title, &b.Img, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("store: ListBrands failed to scan brand row: %w", err)
		}
		brands = append(brands, b)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: ListBrands iteration error: %w", err)
	}
	return brands, totalCount, nil
}

func (s *PostgresStore) UpdateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error) {
	query := `
		UPDATE catalog.brands
		SET title = $1, img = $2, active = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING id, title, img, active, created_at, updated_at;
	`
	var updated domain.Brand
	err := s.db.QueryRowContext(ctx, query, brand.Title, brand.Img, brand.Active, brand.ID).Scan(
		&updated.ID, &updated.Title, &updated.Img, &updated.Active, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		if isUniqueViolation(err, "brands_title_key") {
			return nil, ErrBrandTitleExists
		}
		return nil, fmt.Errorf("store: UpdateBrand failed to scan row: %w", err)
	}
	return &updated, nil
}

func (s *PostgresStore) DeleteBrand(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM catalog.brands WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteBrand failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteBrand failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrBrandNotFound
	}
	return nil
}

// --- UnitStorer Implementation ---

func (s *PostgresStore) CreateUnit(ctx context.Context, unit *domain.Unit) (*domain.Unit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: CreateUnit begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO catalog.units (active, position)
		VALUES ($1, $2)
		RETURNING id, active, position, created_at, updated_at;
	`
	var created domain.Unit
	err = tx.QueryRowContext(ctx, query, unit.Active, unit.Position).Scan(
		&created.ID, &created.Active, &created.Position, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("store: CreateUnit failed to scan row: %w", err)
	}

	if err := replaceTranslations(ctx, tx, "catalog.unit_translations", "unit_id", created.ID, unit.Translations); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: CreateUnit commit: %w", err)
	}
	created.Translations = unit.Translations
	return &created, nil
}

func (s *PostgresStore) GetUnitByID(ctx context.Context, id int64) (*domain.Unit, error) {
	query := `
		SELECT id, active, position, created_at, updated_at
		FROM catalog.units
		WHERE id = $1;
	`
	var unit domain.Unit
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&unit.ID, &unit.Active, &unit.Position, &unit.CreatedAt, &unit.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("store: GetUnitByID failed to scan row: %w", err)
	}

	if unit.Translations, err = loadTranslations(ctx, s.db, "catalog.unit_translations", "unit_id", id); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (s *PostgresStore) ListUnits(ctx context.Context, params ListParams) ([]domain.Unit, int, error) {
	countQuery := `SELECT COUNT(*) FROM catalog.units;`
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("store: ListUnits failed to count units: %w", err)
	}
	if totalCount == 0 {
		return []domain.Unit{}, 0, nil
	}

	query := `
		SELECT id, active, position, created_at, updated_at
		FROM catalog.units
		ORDER BY id ASC
		LIMIT $1 OFFSET $2;
	`
	rows, err := s.db.QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: ListUnits failed to query units: %w", err)
	}
	defer rows.Close()

	units := make([]domain.Unit, 0, params.Limit)
	for rows.Next() {
		var u domain.Unit
		if err := rows.Scan(&u.ID, &u.Active, &u.Position, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("store: ListUnits failed to scan unit row: %w", err)
		}
		units = append(units, u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: ListUnits iteration error: %w", err)
	}

	for i := range units {
		if units[i].Translations, err = loadTranslations(ctx, s.db, "catalog.unit_translations", "unit_id", units[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return units, totalCount, nil
}

func (s *PostgresStore) UpdateUnit(ctx context.Context, unit *domain.Unit) (*domain.Unit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: UpdateUnit begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE catalog.units
		SET active = $1, position = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING id, active, position, created_at, updated_at;
	`
	var updated domain.Unit
	err = tx.QueryRowContext(ctx, query, unit.Active, unit.Position, unit.ID).Scan(
		&updated.ID, &updated.Active, &updated.Position, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("store: UpdateUnit failed to scan row: %w", err)
	}

	if err := replaceTranslations(ctx, tx, "catalog.unit_translations", "unit_id", updated.ID, unit.Translations); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: UpdateUnit commit: %w", err)
	}
	updated.Translations = unit.Translations
	return &updated, nil
}

func (s *PostgresStore) DeleteUnit(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM catalog.units WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteUnit failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteUnit failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUnitNotFound
	}
	return nil
}

// --- ExtraStorer Implementation ---

func (s *PostgresStore) CreateExtraGroup(ctx context.Context, group *domain.ExtraGroup) (*domain.ExtraGroup, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: CreateExtraGroup begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO catalog.extra_groups (type, active)
		VALUES ($1, $2)
		RETURNING id, type, active;
	`
	var created domain.ExtraGroup
	err = tx.QueryRowContext(ctx, query, group.Type, group.Active).Scan(&created.ID, &created.Type, &created.Active)
	if err != nil {
		return nil, fmt.Errorf("store: CreateExtraGroup failed to scan row: %w", err)
	}

	if err := replaceTranslations(ctx, tx, "catalog.extra_group_translations", "extra_group_id", created.ID, group.Translations); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: CreateExtraGroup commit: %w", err)
	}
	created.Translations = group.Translations
	return &created, nil
}

func (s *PostgresStore) GetExtraGroupByID(ctx context.Context, id int64) (*domain.ExtraGroup, error) {
	query := `SELECT id, type, active FROM catalog.extra_groups WHERE id = $1;`
	var group domain.ExtraGroup
	err := s.db.QueryRowContext(ctx, query, id).Scan(&group.ID, &group.Type, &group.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExtraGroupNotFound
		}
		return nil, fmt.Errorf("store: GetExtraGroupByID failed to scan row: %w", err)
	}

	if group.Translations, err = loadTranslations(ctx, s.db, "catalog.extra_group_translations", "extra_group_id", id); err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *PostgresStore) ListExtraGroups(ctx context.Context, params ListParams) ([]domain.ExtraGroup, int, error) {
	countQuery := `SELECT COUNT(*) FROM catalog.extra_groups;`
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("store: ListExtraGroups failed to count groups: %w", err)
	}
	if totalCount == 0 {
		return []domain.ExtraGroup{}, 0, nil
	}

	query := `
		SELECT id, type, active
		FROM catalog.extra_groups
		ORDER BY id ASC
		LIMIT $1 OFFSET $2;
	`
	rows, err := s.db.QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: ListExtraGroups failed to query groups: %w", err)
	}
	defer rows.Close()

	groups := make([]domain.ExtraGroup, 0, params.Limit)
	for rows.Next() {
		var g domain.ExtraGroup
		if err := rows.Scan(&g.ID, &g.Type, &g.Active); err != nil {
			return nil, 0, fmt.Errorf("store: ListExtraGroups failed to scan group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: ListExtraGroups iteration error: %w", err)
	}

	for i := range groups {
		if groups[i].Translations, err = loadTranslations(ctx, s.db, "catalog.extra_group_translations", "extra_group_id", groups[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return groups, totalCount, nil
}

func (s *PostgresStore) UpdateExtraGroup(ctx context.Context, group *domain.ExtraGroup) (*domain.ExtraGroup, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: UpdateExtraGroup begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE catalog.extra_groups
		SET type = $1, active = $2
		WHERE id = $3
		RETURNING id, type, active;
	`
	var updated domain.ExtraGroup
	err = tx.QueryRowContext(ctx, query, group.Type, group.Active, group.ID).Scan(&updated.ID, &updated.Type, &updated.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExtraGroupNotFound
		}
		return nil, fmt.Errorf("store: UpdateExtraGroup failed to scan row: %w", err)
	}

	if err := replaceTranslations(ctx, tx, "catalog.extra_group_translations", "extra_group_id", updated.ID, group.Translations); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: UpdateExtraGroup commit: %w", err)
	}
	updated.Translations = group.Translations
	return &updated, nil
}

func (s *PostgresStore) DeleteExtraGroup(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM catalog.extra_groups WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteExtraGroup failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteExtraGroup failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrExtraGroupNotFound
	}
	return nil
}

func (s *PostgresStore) CreateExtraValue(ctx context.Context, value *domain.ExtraValue) (*domain.ExtraValue, error) {
	query := `
		INSERT INTO catalog.extra_values (extra_group_id, value)
		VALUES ($1, $2)
		RETURNING id, extra_group_id, value;
	`
	var created domain.ExtraValue
	err := s.db.QueryRowContext(ctx, query, value.GroupID, value.Value).Scan(&created.ID, &created.GroupID, &created.Value)
	if err != nil {
		return nil, fmt.Errorf("store: CreateExtraValue failed to scan row: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) ListExtraValues(ctx context.Context, groupID int64) ([]domain.ExtraValue, error) {
	query := `
		SELECT id, extra_group_id, value
		FROM catalog.extra_values
		WHERE extra_group_id = $1
		ORDER BY id ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("store: ListExtraValues failed to query values: %w", err)
	}
	defer rows.Close()

	var values []domain.ExtraValue
	for rows.Next() {
		var v domain.ExtraValue
		if err := rows.Scan(&v.ID, &v.GroupID, &v.Value); err != nil {
			return nil, fmt.Errorf("store: ListExtraValues failed to scan value row: %w", err)
		}
		values = append(values, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListExtraValues iteration error: %w", err)
	}
	return values, nil
}

func (s *PostgresStore) GetExtraValuesByIDs(ctx context.Context, ids []int64) ([]domain.ExtraValue, error) {
	if len(ids) == 0 {
		return []domain.ExtraValue{}, nil
	}
	query := `
		SELECT id, extra_group_id, value
		FROM catalog.extra_values
		WHERE id = ANY($1);
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("store: GetExtraValuesByIDs failed to query values: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]domain.ExtraValue, len(ids))
	for rows.Next() {
		var v domain.ExtraValue
		if err := rows.Scan(&v.ID, &v.GroupID, &v.Value); err != nil {
			return nil, fmt.Errorf("store: GetExtraValuesByIDs failed to scan value row: %w", err)
		}
		byID[v.ID] = v
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetExtraValuesByIDs iteration error: %w", err)
	}

	// Preserve the requested order; a missing ID is a caller error.
	values := make([]domain.ExtraValue, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			return nil, ErrExtraValueNotFound
		}
		values = append(values, v)
	}
	return values, nil
}

func (s *PostgresStore) UpdateExtraValue(ctx context.Context, value *domain.ExtraValue) (*domain.ExtraValue, error) {
	query := `
		UPDATE catalog.extra_values
		SET value = $1
		WHERE id = $2
		RETURNING id, extra_group_id, value;
	`
	var updated domain.ExtraValue
	err := s.db.QueryRowContext(ctx, query, value.Value, value.ID).Scan(&updated.ID, &updated.GroupID, &updated.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExtraValueNotFound
		}
		return nil, fmt.Errorf("store: UpdateExtraValue failed to scan row: %w", err)
	}
	return &updated, nil
}

func (s *PostgresStore) DeleteExtraValue(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM catalog.extra_values WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteExtraValue failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteExtraValue failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrExtraValueNotFound
	}
	return nil
}
