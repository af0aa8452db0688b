package store

import (
	"context"

	"marketplace-admin-service/internal/domain"
)

// ListParams holds the common pagination knobs for list operations.
type ListParams struct {
	Limit  int
	Offset int
}

// LanguageStorer defines the database operations for configured locales.
type LanguageStorer interface {
	ListLanguages(ctx context.Context) ([]domain.Language, error)
	CreateLanguage(ctx context.Context, lang *domain.Language) (*domain.Language, error)
	UpdateLanguage(ctx context.Context, lang *domain.Language) (*domain.Language, error)
	DeleteLanguage(ctx context.Context, id int64) error
}

// SettingStorer defines access to the global key/value settings.
type SettingStorer interface {
	GetSetting(ctx context.Context, key string) (string, error)
	UpsertSetting(ctx context.Context, key, value string) error
}

// CategoryStorer defines the database operations for categories.
type CategoryStorer interface {
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, params ListParams) ([]domain.Category, int, error)
	ListAllCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// BrandStorer defines the database operations for brands.
type BrandStorer interface {
	CreateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error)
	GetBrandByID(ctx context.Context, id int64) (*domain.Brand, error)
	ListBrands(ctx context.Context, params ListParams) ([]domain.Brand, int, error)
	UpdateBrand(ctx context.Context, brand *domain.Brand) (*domain.Brand, error)
	DeleteBrand(ctx context.Context, id int64) error
}

// UnitStorer defines the database operations for units of measure.
type UnitStorer interface {
	CreateUnit(ctx context.Context, unit *domain.Unit) (*domain.Unit, error)
	GetUnitByID(ctx context.Context, id int64) (*domain.Unit, error)
	ListUnits(ctx context.Context, params ListParams) ([]domain.Unit, int, error)
	UpdateUnit(ctx context.Context, unit *domain.Unit) (*domain.Unit, error)
	DeleteUnit(ctx context.Context, id int64) error
}

// ExtraStorer defines the database operations for extra groups and values.
type ExtraStorer interface {
	CreateExtraGroup(ctx context.Context, group *domain.ExtraGroup) (*domain.ExtraGroup, error)
	GetExtraGroupByID(ctx context.Context, id int64) (*domain.ExtraGroup, error)
	ListExtraGroups(ctx context.Context, params ListParams) ([]domain.ExtraGroup, int, error)
	UpdateExtraGroup(ctx context.Context, group *domain.ExtraGroup) (*domain.ExtraGroup, error)
	DeleteExtraGroup(ctx context.Context, id int64) error

	CreateExtraValue(ctx context.Context, value *domain.ExtraValue) (*domain.ExtraValue, error)
	ListExtraValues(ctx context.Context, groupID int64) ([]domain.ExtraValue, error)
	GetExtraValuesByIDs(ctx context.Context, ids []int64) ([]domain.ExtraValue, error)
	UpdateExtraValue(ctx context.Context, value *domain.ExtraValue) (*domain.ExtraValue, error)
	DeleteExtraValue(ctx context.Context, id int64) error
}

// ListProductsParams holds filtering and pagination for product listings.
type ListProductsParams struct {
	Limit       int
	Offset      int
	ShopID      *int64
	CategoryID  *int64
	BrandID     *int64
	SearchQuery *string
	Active      *bool
}

// ProductStorer defines the database operations for products and their stock
// variants.
type ProductStorer interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, int, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	GetStocks(ctx context.Context, productID int64) ([]domain.Stock, error)
	ReplaceStocks(ctx context.Context, productID int64, stocks []domain.Stock) ([]domain.Stock, error)
}

// ShopStorer defines the database operations for seller shops.
type ShopStorer interface {
	CreateShop(ctx context.Context, shop *domain.Shop) (*domain.Shop, error)
	GetShopByID(ctx context.Context, id int64) (*domain.Shop, error)
	ListShops(ctx context.Context, params ListParams) ([]domain.Shop, int, error)
	UpdateShop(ctx context.Context, shop *domain.Shop) (*domain.Shop, error)
	DeleteShop(ctx context.Context, id int64) error
}

// ListRequestsParams holds filtering and pagination for moderation requests.
type ListRequestsParams struct {
	Limit     int
	Offset    int
	Status    *string
	ModelType *string
}

// RequestStorer defines the database operations for the moderation workflow.
type RequestStorer interface {
	CreateRequest(ctx context.Context, req *domain.Request) (*domain.Request, error)
	GetRequestByID(ctx context.Context, id string) (*domain.Request, error)
	ListRequests(ctx context.Context, params ListRequestsParams) ([]domain.Request, int, error)
	UpdateRequestStatus(ctx context.Context, id, status string) (*domain.Request, error)
}
