package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"marketplace-admin-service/internal/domain"
)

// --- ShopStorer Implementation ---

func (s *PostgresStore) CreateShop(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: CreateShop begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO catalog.shops (user_id, logo, phone, auto_approve, open)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, logo, phone, auto_approve, open, created_at, updated_at;
	`
	var created domain.Shop
	err = tx.QueryRowContext(ctx, query, shop.UserID, shop.Logo, shop.Phone, shop.AutoApprove, shop.Open).Scan(
		&created.ID, &created.UserID, &created.Logo, &created.Phone, &created.AutoApprove, &created.Open,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("store: CreateShop failed to scan row: %w", err)
	}

	if err := replaceTranslations(ctx, tx, "catalog.shop_translations", "shop_id", created.ID, shop.Translations); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: CreateShop commit: %w", err)
	}
	created.Translations = shop.Translations
	return &created, nil
}

func (s *PostgresStore) GetShopByID(ctx context.Context, id int64) (*domain.Shop, error) {
	query := `
		SELECT id, user_id, logo, phone, auto_approve, open, created_at, updated_at
		FROM catalog.shops
		WHERE id = $1;
	`
	var shop domain.Shop
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&shop.ID, &shop.UserID, &shop.Logo, &shop.Phone, &shop.AutoApprove, &shop.Open,
		&shop.CreatedAt, &shop.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("store: GetShopByID failed to scan row: %w", err)
	}

	if shop.Translations, err = loadTranslations(ctx, s.db, "catalog.shop_translations", "shop_id", id); err != nil {
		return nil, err
	}
	return &shop, nil
}

func (s *PostgresStore) ListShops(ctx context.Context, params ListParams) ([]domain.Shop, int, error) {
	countQuery := `SELECT COUNT(*) FROM catalog.shops;`
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("store: ListShops failed to count shops: %w", err)
	}
	if totalCount == 0 {
		return []domain.Shop{}, 0, nil
	}

	query := `
		SELECT id, user_id, logo, phone, auto_approve, open, created_at, updated_at
		FROM catalog.shops
		ORDER BY id ASC
		LIMIT $1 OFFSET $2;
	`
	rows, err := s.db.QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: ListShops failed to query shops: %w", err)
	}
	defer rows.Close()

	shops := make([]domain.Shop, 0, params.Limit)
	for rows.Next() {
		var sh domain.Shop
		if err := rows.Scan(&sh.ID, &sh.UserID, &sh.Logo, &sh.Phone, &sh.AutoApprove, &sh.Open, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("store: ListShops failed to scan shop row: %w", err)
		}
		shops = append(shops, sh)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: ListShops iteration error: %w", err)
	}

	for i := range shops {
		if shops[i].Translations, err = loadTranslations(ctx, s.db, "catalog.shop_translations", "shop_id", shops[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return shops, totalCount, nil
}

func (s *PostgresStore) UpdateShop(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: UpdateShop begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE catalog.shops
		SET logo = $1, phone = $2, auto_approve = $3, open = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING id, user_id, logo, phone, auto_approve, open, created_at, updated_at;
	`
	var updated domain.Shop
	err = tx.QueryRowContext(ctx, query, shop.Logo, shop.Phone, shop.AutoApprove, shop.Open, shop.ID).Scan(
		&updated.ID, &updated.UserID, &updated.Logo, &updated.Phone, &updated.AutoApprove, &updated.Open,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("store: UpdateShop failed to scan row: %w", err)
	}

	if err := replaceTranslations(ctx, tx, "catalog.shop_translations", "shop_id", updated.ID, shop.Translations); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: UpdateShop commit: %w", err)
	}
	updated.Translations = shop.Translations
	return &updated, nil
}

func (s *PostgresStore) DeleteShop(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM catalog.shops WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteShop failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteShop failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrShopNotFound
	}
	return nil
}

// --- RequestStorer Implementation ---

func (s *PostgresStore) CreateRequest(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	query := `
		INSERT INTO catalog.requests (id, model_id, model_type, data, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, model_id, model_type, data, status, created_by, created_at, updated_at;
	`
	var created domain.Request
	err := s.db.QueryRowContext(ctx, query,
		req.ID, req.ModelID, req.ModelType, []byte(req.Data), req.Status, req.CreatedBy,
	).Scan(
		&created.ID, &created.ModelID, &created.ModelType, &created.Data, &created.Status,
		&created.CreatedBy, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("store: CreateRequest failed to scan row: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) GetRequestByID(ctx context.Context, id string) (*domain.Request, error) {
	query := `
		SELECT id, model_id, model_type, data, status, created_by, created_at, updated_at
		FROM catalog.requests
		WHERE id = $1;
	`
	var req domain.Request
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.ModelID, &req.ModelType, &req.Data, &req.Status,
		&req.CreatedBy, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("store: GetRequestByID failed to scan row: %w", err)
	}
	return &req, nil
}

func (s *PostgresStore) ListRequests(ctx context.Context, params ListRequestsParams) ([]domain.Request, int, error) {
	var queryArgs []interface{}
	var whereClauses []string
	argID := 1

	if params.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argID))
		queryArgs = append(queryArgs, *params.Status)
		argID++
	}
	if params.ModelType != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("model_type = $%d", argID))
		queryArgs = append(queryArgs, *params.ModelType)
		argID++
	}

	whereCondition := ""
	if len(whereClauses) > 0 {
		whereCondition = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM catalog.requests" + whereCondition
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery, queryArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("store: ListRequests failed to count requests: %w", err)
	}
	if totalCount == 0 {
		return []domain.Request{}, 0, nil
	}

	dataQuery := fmt.Sprintf(
		"SELECT id, model_id, model_type, data, status, created_by, created_at, updated_at FROM catalog.requests%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		whereCondition, argID, argID+1)
	finalQueryArgs := append(queryArgs, params.Limit, params.Offset)

	rows, err := s.db.QueryContext(ctx, dataQuery, finalQueryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: ListRequests failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.Request, 0, params.Limit)
	for rows.Next() {
		var r domain.Request
		if err := rows.Scan(&r.ID, &r.ModelID, &r.ModelType, &r.Data, &r.Status, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("store: ListRequests failed to scan request row: %w", err)
		}
		requests = append(requests, r)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: ListRequests iteration error: %w", err)
	}
	return requests, totalCount, nil
}

// UpdateRequestStatus transitions a pending request to approved or declined.
// Requests that already left the pending state are immutable.
func (s *PostgresStore) UpdateRequestStatus(ctx context.Context, id, status string) (*domain.Request, error) {
	query := `
		UPDATE catalog.requests
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND status = $3
		RETURNING id, model_id, model_type, data, status, created_by, created_at, updated_at;
	`
	var updated domain.Request
	err := s.db.QueryRowContext(ctx, query, status, id, domain.RequestStatusPending).Scan(
		&updated.ID, &updated.ModelID, &updated.ModelType, &updated.Data, &updated.Status,
		&updated.CreatedBy, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if scanErr := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM catalog.requests WHERE id = $1);`, id).Scan(&exists); scanErr != nil {
				return nil, fmt.Errorf("store: UpdateRequestStatus existence check failed: %w", scanErr)
			}
			if !exists {
				return nil, ErrRequestNotFound
			}
			return nil, ErrRequestNotPending
		}
		return nil, fmt.Errorf("store: UpdateRequestStatus failed to scan row: %w", err)
	}
	return &updated, nil
}
