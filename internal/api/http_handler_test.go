package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace-admin-service/internal/domain"
	"marketplace-admin-service/internal/store"
)

// Helper function to get a pointer (useful for optional fields in domain structs)
func PtrTo[T any](v T) *T {
	return &v
}

// setupTestChiServer builds an httptest server around a handler with the
// given dependencies.
func setupTestChiServer(t *testing.T, deps Deps) *httptest.Server {
	t.Helper()
	handler := NewHTTPHandler(deps)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return httptest.NewServer(router)
}

// MockLanguageStorer is a mock implementation of store.LanguageStorer
type MockLanguageStorer struct {
	mock.Mock
}

func (m *MockLanguageStorer) ListLanguages(ctx context.Context) ([]domain.Language, error) {
	args := m.Called(ctx)
	var langs []domain.Language
	if arg0 := args.Get(0); arg0 != nil {
		langs = arg0.([]domain.Language)
	}
	return langs, args.Error(1)
}

func (m *MockLanguageStorer) CreateLanguage(ctx context.Context, lang *domain.Language) (*domain.Language, error) {
	args := m.Called(ctx, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Language), args.Error(1)
}

func (m *MockLanguageStorer) UpdateLanguage(ctx context.Context, lang *domain.Language) (*domain.Language, error) {
	args := m.Called(ctx, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Language), args.Error(1)
}

func (m *MockLanguageStorer) DeleteLanguage(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSettingStorer is a mock implementation of store.SettingStorer
type MockSettingStorer struct {
	mock.Mock
}

func (m *MockSettingStorer) GetSetting(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingStorer) UpsertSetting(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// MockProductStorer is a mock implementation of store.ProductStorer
type MockProductStorer struct {
	mock.Mock
}

func (m *MockProductStorer) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) ListProducts(ctx context.Context, params store.ListProductsParams) ([]domain.Product, int, error) {
	args := m.Called(ctx, params)
	var products []domain.Product
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.Product)
	}
	return products, args.Int(1), args.Error(2)
}

func (m *MockProductStorer) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductStorer) GetStocks(ctx context.Context, productID int64) ([]domain.Stock, error) {
	args := m.Called(ctx, productID)
	var stocks []domain.Stock
	if arg0 := args.Get(0); arg0 != nil {
		stocks = arg0.([]domain.Stock)
	}
	return stocks, args.Error(1)
}

func (m *MockProductStorer) ReplaceStocks(ctx context.Context, productID int64, stocks []domain.Stock) ([]domain.Stock, error) {
	args := m.Called(ctx, productID, stocks)
	var stored []domain.Stock
	if arg0 := args.Get(0); arg0 != nil {
		stored = arg0.([]domain.Stock)
	}
	return stored, args.Error(1)
}

// MockShopStorer is a mock implementation of store.ShopStorer
type MockShopStorer struct {
	mock.Mock
}

func (m *MockShopStorer) CreateShop(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	args := m.Called(ctx, shop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shop), args.Error(1)
}

func (m *MockShopStorer) GetShopByID(ctx context.Context, id int64) (*domain.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shop), args.Error(1)
}

func (m *MockShopStorer) ListShops(ctx context.Context, params store.ListParams) ([]domain.Shop, int, error) {
	args := m.Called(ctx, params)
	var shops []domain.Shop
	if arg0 := args.Get(0); arg0 != nil {
		shops = arg0.([]domain.Shop)
	}
	return shops, args.Int(1), args.Error(2)
}

func (m *MockShopStorer) UpdateShop(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	args := m.Called(ctx, shop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shop), args.Error(1)
}

func (m *MockShopStorer) DeleteShop(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRequestStorer is a mock implementation of store.RequestStorer
type MockRequestStorer struct {
	mock.Mock
}

func (m *MockRequestStorer) CreateRequest(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

func (m *MockRequestStorer) GetRequestByID(ctx context.Context, id string) (*domain.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

func (m *MockRequestStorer) ListRequests(ctx context.Context, params store.ListRequestsParams) ([]domain.Request, int, error) {
	args := m.Called(ctx, params)
	var requests []domain.Request
	if arg0 := args.Get(0); arg0 != nil {
		requests = arg0.([]domain.Request)
	}
	return requests, args.Int(1), args.Error(2)
}

func (m *MockRequestStorer) UpdateRequestStatus(ctx context.Context, id, status string) (*domain.Request, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

// MockExtraStorer is a mock implementation of store.ExtraStorer
type MockExtraStorer struct {
	mock.Mock
}

func (m *MockExtraStorer) CreateExtraGroup(ctx context.Context, group *domain.ExtraGroup) (*domain.ExtraGroup, error) {
	args := m.Called(ctx, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtraGroup), args.Error(1)
}

func (m *MockExtraStorer) GetExtraGroupByID(ctx context.Context, id int64) (*domain.ExtraGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtraGroup), args.Error(1)
}

func (m *MockExtraStorer) ListExtraGroups(ctx context.Context, params store.ListParams) ([]domain.ExtraGroup, int, error) {
	args := m.Called(ctx, params)
	var groups []domain.ExtraGroup
	if arg0 := args.Get(0); arg0 != nil {
		groups = arg0.([]domain.ExtraGroup)
	}
	return groups, args.Int(1), args.Error(2)
}

func (m *MockExtraStorer) UpdateExtraGroup(ctx context.Context, group *domain.ExtraGroup) (*domain.ExtraGroup, error) {
	args := m.Called(ctx, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtraGroup), args.Error(1)
}

func (m *MockExtraStorer) DeleteExtraGroup(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExtraStorer) CreateExtraValue(ctx context.Context, value *domain.ExtraValue) (*domain.ExtraValue, error) {
	args := m.Called(ctx, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtraValue), args.Error(1)
}

func (m *MockExtraStorer) ListExtraValues(ctx context.Context, groupID int64) ([]domain.ExtraValue, error) {
	args := m.Called(ctx, groupID)
	var values []domain.ExtraValue
	if arg0 := args.Get(0); arg0 != nil {
		values = arg0.([]domain.ExtraValue)
	}
	return values, args.Error(1)
}

func (m *MockExtraStorer) GetExtraValuesByIDs(ctx context.Context, ids []int64) ([]domain.ExtraValue, error) {
	args := m.Called(ctx, ids)
	var values []domain.ExtraValue
	if arg0 := args.Get(0); arg0 != nil {
		values = arg0.([]domain.ExtraValue)
	}
	return values, args.Error(1)
}

func (m *MockExtraStorer) UpdateExtraValue(ctx context.Context, value *domain.ExtraValue) (*domain.ExtraValue, error) {
	args := m.Called(ctx, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtraValue), args.Error(1)
}

func (m *MockExtraStorer) DeleteExtraValue(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Language endpoint tests ---

func TestHTTPHandler_ListLanguages(t *testing.T) {
	mockLangStore := new(MockLanguageStorer)
	server := setupTestChiServer(t, Deps{Languages: mockLangStore})
	defer server.Close()

	now := time.Now().Truncate(time.Millisecond)
	expected := []domain.Language{
		{ID: 1, Locale: "en", Title: "English", Default: true, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Locale: "fr", Title: "Français", Active: true, CreatedAt: now, UpdatedAt: now},
	}
	mockLangStore.On("ListLanguages", mock.Anything).Return(expected, nil).Once()

	res, err := http.Get(server.URL + "/api/v1/languages")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var langs []domain.Language
	require.NoError(t, json.NewDecoder(res.Body).Decode(&langs))
	require.Len(t, langs, 2)
	assert.Equal(t, "en", langs[0].Locale)
	assert.True(t, langs[0].Default)

	mockLangStore.AssertExpectations(t)
}

func TestHTTPHandler_CreateLanguage_Success(t *testing.T) {
	mockLangStore := new(MockLanguageStorer)
	server := setupTestChiServer(t, Deps{Languages: mockLangStore})
	defer server.Close()

	input := LanguageInput{Locale: "de", Title: "Deutsch"}
	expected := &domain.Language{ID: 3, Locale: "de", Title: "Deutsch", Active: true}

	mockLangStore.On("CreateLanguage", mock.Anything, mock.MatchedBy(func(l *domain.Language) bool {
		return l.Locale == "de" && l.Title == "Deutsch" && l.Active
	})).Return(expected, nil).Once()

	reqBody, _ := json.Marshal(input)
	res, err := http.Post(server.URL+"/api/v1/languages", "application/json", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created domain.Language
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "de", created.Locale)

	mockLangStore.AssertExpectations(t)
}

func TestHTTPHandler_CreateLanguage_InvalidLocale(t *testing.T) {
	mockLangStore := new(MockLanguageStorer)
	server := setupTestChiServer(t, Deps{Languages: mockLangStore})
	defer server.Close()

	reqBody, _ := json.Marshal(LanguageInput{Locale: "not a locale", Title: "Broken"})
	res, err := http.Post(server.URL+"/api/v1/languages", "application/json", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	mockLangStore.AssertNotCalled(t, "CreateLanguage", mock.Anything, mock.Anything)
}

func TestHTTPHandler_CreateLanguage_LocaleExists(t *testing.T) {
	mockLangStore := new(MockLanguageStorer)
	server := setupTestChiServer(t, Deps{Languages: mockLangStore})
	defer server.Close()

	mockLangStore.On("CreateLanguage", mock.Anything, mock.Anything).
		Return(nil, store.ErrLocaleExists).Once()

	reqBody, _ := json.Marshal(LanguageInput{Locale: "en", Title: "English"})
	res, err := http.Post(server.URL+"/api/v1/languages", "application/json", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusConflict, res.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&errResp))
	assert.Equal(t, store.ErrLocaleExists.Error(), errResp.Error)

	mockLangStore.AssertExpectations(t)
}

func TestHTTPHandler_GetSetting_NotFound(t *testing.T) {
	mockSettingStore := new(MockSettingStorer)
	server := setupTestChiServer(t, Deps{Settings: mockSettingStore})
	defer server.Close()

	mockSettingStore.On("GetSetting", mock.Anything, "missing").
		Return("", store.ErrSettingNotFound).Once()

	res, err := http.Get(server.URL + "/api/v1/settings/missing")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	mockSettingStore.AssertExpectations(t)
}

func TestHTTPHandler_AutoTranslate_NotConfigured(t *testing.T) {
	server := setupTestChiServer(t, Deps{})
	defer server.Close()

	reqBody, _ := json.Marshal(AutoTranslateInput{
		SourceLocale: "en",
		Fields:       map[string]string{"title": "Shoes"},
	})
	res, err := http.Post(server.URL+"/api/v1/translations/auto", "application/json", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}
