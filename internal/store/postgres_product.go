package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"marketplace-admin-service/internal/domain"
)

const productColumns = "id, shop_id, category_id, brand_id, unit_id, interval_days, tax, images, active, created_at, updated_at"

func scanProduct(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.ShopID, &p.CategoryID, &p.BrandID, &p.UnitID,
		&p.Interval, &p.Tax, pq.Array(&p.Images), &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// --- ProductStorer Implementation ---

func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: CreateProduct begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO catalog.products (shop_id, category_id, brand_id, unit_id, interval_days, tax, images, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + productColumns + `;
	`
	created, err := scanProduct(tx.QueryRowContext(ctx, query,
		product.ShopID, product.CategoryID, product.BrandID, product.UnitID,
		product.Interval, product.Tax, pq.Array(product.Images), product.Active,
	))
	if err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to scan row: %w", err)
	}

	if err := replaceTranslations(ctx, tx, "catalog.product_translations", "product_id", created.ID, product.Translations); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: CreateProduct commit: %w", err)
	}
	created.Translations = product.Translations
	return created, nil
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM catalog.products WHERE id = $1;`
	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProductByID failed to scan row: %w", err)
	}

	if product.Translations, err = loadTranslations(ctx, s.db, "catalog.product_translations", "product_id", id); err != nil {
		return nil, err
	}
	if product.Stocks, err = s.GetStocks(ctx, id); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, int, error) {
	var queryArgs []interface{}
	var whereClauses []string
	argID := 1

	if params.ShopID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("p.shop_id = $%d", argID))
		queryArgs = append(queryArgs, *params.ShopID)
		argID++
	}
	if params.CategoryID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("p.category_id = $%d", argID))
		queryArgs = append(queryArgs, *params.CategoryID)
		argID++
	}
	if params.BrandID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("p.brand_id = $%d", argID))
		queryArgs = append(queryArgs, *params.BrandID)
		argID++
	}
	if params.Active != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("p.active = $%d", argID))
		queryArgs = append(queryArgs, *params.Active)
		argID++
	}
	if params.SearchQuery != nil && *params.SearchQuery != "" {
		// Search against the translated titles, any locale.
		whereClauses = append(whereClauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM catalog.product_translations pt WHERE pt.product_id = p.id AND pt.title ILIKE $%d)", argID))
		queryArgs = append(queryArgs, "%"+*params.SearchQuery+"%")
		argID++
	}

	whereCondition := ""
	if len(whereClauses) > 0 {
		whereCondition = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM catalog.products p" + whereCondition
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery, queryArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("store: ListProducts failed to count products: %w", err)
	}
	if totalCount == 0 {
		return []domain.Product{}, 0, nil
	}

	dataQuery := fmt.Sprintf(
		"SELECT p.id, p.shop_id, p.category_id, p.brand_id, p.unit_id, p.interval_days, p.tax, p.images, p.active, p.created_at, p.updated_at FROM catalog.products p%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d",
		whereCondition, argID, argID+1)
	finalQueryArgs := append(queryArgs, params.Limit, params.Offset)

	rows, err := s.db.QueryContext(ctx, dataQuery, finalQueryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: ListProducts failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, params.Limit)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.ShopID, &p.CategoryID, &p.BrandID, &p.UnitID,
			&p.Interval, &p.Tax, pq.Array(&p.Images), &p.Active,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("store: ListProducts failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: ListProducts iteration error: %w", err)
	}

	for i := range products {
		if products[i].Translations, err = loadTranslations(ctx, s.db, "catalog.product_translations", "product_id", products[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return products, totalCount, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: UpdateProduct begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE catalog.products
		SET category_id = $1, brand_id = $2, unit_id = $3, interval_days = $4, tax = $5,
			images = $6, active = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
		RETURNING ` + productColumns + `;
	`
	updated, err := scanProduct(tx.QueryRowContext(ctx, query,
		product.CategoryID, product.BrandID, product.UnitID, product.Interval, product.Tax,
		pq.Array(product.Images), product.Active, product.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: UpdateProduct failed to scan row: %w", err)
	}

	if err := replaceTranslations(ctx, tx, "catalog.product_translations", "product_id", updated.ID, product.Translations); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: UpdateProduct commit: %w", err)
	}
	updated.Translations = product.Translations
	return updated, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM catalog.products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// --- Stocks ---

func (s *PostgresStore) GetStocks(ctx context.Context, productID int64) ([]domain.Stock, error) {
	query := `
		SELECT id, product_id, price, quantity, sku, tax, total_price, addons
		FROM catalog.stocks
		WHERE product_id = $1
		ORDER BY id ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("store: GetStocks failed to query stocks: %w", err)
	}
	defer rows.Close()

	var stocks []domain.Stock
	var stockIDs []int64
	for rows.Next() {
		var st domain.Stock
		if err := rows.Scan(&st.ID, &st.ProductID, &st.Price, &st.Quantity, &st.SKU, &st.Tax, &st.TotalPrice, pq.Array(&st.Addons)); err != nil {
			return nil, fmt.Errorf("store: GetStocks failed to scan stock row: %w", err)
		}
		stocks = append(stocks, st)
		stockIDs = append(stockIDs, st.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetStocks iteration error: %w", err)
	}
	if len(stocks) == 0 {
		return []domain.Stock{}, nil
	}

	extrasQuery := `
		SELECT se.stock_id, ev.id, ev.extra_group_id, ev.value
		FROM catalog.stock_extras se
		JOIN catalog.extra_values ev ON ev.id = se.extra_value_id
		WHERE se.stock_id = ANY($1)
		ORDER BY se.stock_id ASC, ev.extra_group_id ASC;
	`
	extraRows, err := s.db.QueryContext(ctx, extrasQuery, pq.Array(stockIDs))
	if err != nil {
		return nil, fmt.Errorf("store: GetStocks failed to query stock extras: %w", err)
	}
	defer extraRows.Close()

	extrasByStock := make(map[int64][]domain.ExtraValue)
	for extraRows.Next() {
		var stockID int64
		var v domain.ExtraValue
		if err := extraRows.Scan(&stockID, &v.ID, &v.GroupID, &v.Value); err != nil {
			return nil, fmt.Errorf("store: GetStocks failed to scan stock extra row: %w", err)
		}
		extrasByStock[stockID] = append(extrasByStock[stockID], v)
	}
	if err = extraRows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetStocks stock extras iteration error: %w", err)
	}

	for i := range stocks {
		stocks[i].Extras = extrasByStock[stocks[i].ID]
	}
	return stocks, nil
}

// ReplaceStocks rewrites a product's entire stock variant collection. The rows
// are inserted in the order given, which is the deterministic generation
// order.
func (s *PostgresStore) ReplaceStocks(ctx context.Context, productID int64, stocks []domain.Stock) ([]domain.Stock, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM catalog.products WHERE id = $1);`, productID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("store: ReplaceStocks failed to check product: %w", err)
	}
	if !exists {
		return nil, ErrProductNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: ReplaceStocks begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog.stocks WHERE product_id = $1;`, productID); err != nil {
		return nil, fmt.Errorf("store: ReplaceStocks failed to clear stocks: %w", err)
	}

	insertStock := `
		INSERT INTO catalog.stocks (product_id, price, quantity, sku, tax, total_price, addons)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	insertExtra := `INSERT INTO catalog.stock_extras (stock_id, extra_value_id) VALUES ($1, $2);`

	out := make([]domain.Stock, 0, len(stocks))
	for _, st := range stocks {
		addons := st.Addons
		if addons == nil {
			addons = []int64{}
		}
		var id int64
		err := tx.QueryRowContext(ctx, insertStock,
			productID, st.Price, st.Quantity, st.SKU, st.Tax, st.TotalPrice, pq.Array(addons),
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("store: ReplaceStocks failed to insert stock: %w", err)
		}
		for _, extra := range st.Extras {
			if _, err := tx.ExecContext(ctx, insertExtra, id, extra.ID); err != nil {
				return nil, fmt.Errorf("store: ReplaceStocks failed to insert stock extra: %w", err)
			}
		}
		st.ID = id
		st.ProductID = productID
		out = append(out, st)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: ReplaceStocks commit: %w", err)
	}
	return out, nil
}
