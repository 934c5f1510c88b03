// Package mocks содержит testify моки интерфейсов пакета domain.
// Экспектер EXPECT() повторяет API моков, генерируемых mockery.
package mocks

import (
	"context"
	"time"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/stretchr/testify/mock"
)

// testingT минимальный интерфейс *testing.T для регистрации проверок
type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// CatalogRepositoryMock мок domain.CatalogRepository
type CatalogRepositoryMock struct {
	mock.Mock
}

// CatalogRepositoryMock_Expecter типизированный экспектер
type CatalogRepositoryMock_Expecter struct {
	mock *mock.Mock
}

// NewCatalogRepositoryMock создает мок и проверяет ожидания по завершении теста
func NewCatalogRepositoryMock(t testingT) *CatalogRepositoryMock {
	m := &CatalogRepositoryMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CatalogRepositoryMock) EXPECT() *CatalogRepositoryMock_Expecter {
	return &CatalogRepositoryMock_Expecter{mock: &_m.Mock}
}

func (_m *CatalogRepositoryMock) ListActiveProducts(ctx context.Context, ids []string) ([]*domain.Product, error) {
	ret := _m.Called(ctx, ids)
	products, _ := ret.Get(0).([]*domain.Product)
	return products, ret.Error(1)
}

func (_e *CatalogRepositoryMock_Expecter) ListActiveProducts(ctx, ids interface{}) *mock.Call {
	return _e.mock.On("ListActiveProducts", ctx, ids)
}

// PromoRepositoryMock мок domain.PromoRepository
type PromoRepositoryMock struct {
	mock.Mock
}

// PromoRepositoryMock_Expecter типизированный экспектер
type PromoRepositoryMock_Expecter struct {
	mock *mock.Mock
}

// NewPromoRepositoryMock создает мок и проверяет ожидания по завершении теста
func NewPromoRepositoryMock(t testingT) *PromoRepositoryMock {
	m := &PromoRepositoryMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *PromoRepositoryMock) EXPECT() *PromoRepositoryMock_Expecter {
	return &PromoRepositoryMock_Expecter{mock: &_m.Mock}
}

func (_m *PromoRepositoryMock) GetPromoCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	ret := _m.Called(ctx, code)
	promo, _ := ret.Get(0).(*domain.PromoCode)
	return promo, ret.Error(1)
}

func (_e *PromoRepositoryMock_Expecter) GetPromoCode(ctx, code interface{}) *mock.Call {
	return _e.mock.On("GetPromoCode", ctx, code)
}

func (_m *PromoRepositoryMock) CountUserUsages(ctx context.Context, code, userID string) (int, error) {
	ret := _m.Called(ctx, code, userID)
	return ret.Int(0), ret.Error(1)
}

func (_e *PromoRepositoryMock_Expecter) CountUserUsages(ctx, code, userID interface{}) *mock.Call {
	return _e.mock.On("CountUserUsages", ctx, code, userID)
}

// OrderRepositoryMock мок domain.OrderRepository
type OrderRepositoryMock struct {
	mock.Mock
}

// OrderRepositoryMock_Expecter типизированный экспектер
type OrderRepositoryMock_Expecter struct {
	mock *mock.Mock
}

// NewOrderRepositoryMock создает мок и проверяет ожидания по завершении теста
func NewOrderRepositoryMock(t testingT) *OrderRepositoryMock {
	m := &OrderRepositoryMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderRepositoryMock) EXPECT() *OrderRepositoryMock_Expecter {
	return &OrderRepositoryMock_Expecter{mock: &_m.Mock}
}

func (_m *OrderRepositoryMock) CreateOrder(ctx context.Context, order *domain.Order, claimPromo bool) error {
	ret := _m.Called(ctx, order, claimPromo)
	return ret.Error(0)
}

func (_e *OrderRepositoryMock_Expecter) CreateOrder(ctx, order, claimPromo interface{}) *mock.Call {
	return _e.mock.On("CreateOrder", ctx, order, claimPromo)
}

func (_m *OrderRepositoryMock) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	ret := _m.Called(ctx, id)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (_e *OrderRepositoryMock_Expecter) GetOrderByID(ctx, id interface{}) *mock.Call {
	return _e.mock.On("GetOrderByID", ctx, id)
}

func (_m *OrderRepositoryMock) GetOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	ret := _m.Called(ctx, userID)
	orders, _ := ret.Get(0).([]*domain.Order)
	return orders, ret.Error(1)
}

func (_e *OrderRepositoryMock_Expecter) GetOrdersByUserID(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("GetOrdersByUserID", ctx, userID)
}

func (_m *OrderRepositoryMock) GetPendingOrders(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.Order, error) {
	ret := _m.Called(ctx, createdBefore, limit)
	orders, _ := ret.Get(0).([]*domain.Order)
	return orders, ret.Error(1)
}

func (_e *OrderRepositoryMock_Expecter) GetPendingOrders(ctx, createdBefore, limit interface{}) *mock.Call {
	return _e.mock.On("GetPendingOrders", ctx, createdBefore, limit)
}

func (_m *OrderRepositoryMock) MarkPaid(ctx context.Context, orderID string) (bool, domain.OrderStatus, error) {
	ret := _m.Called(ctx, orderID)
	status, _ := ret.Get(1).(domain.OrderStatus)
	return ret.Bool(0), status, ret.Error(2)
}

func (_e *OrderRepositoryMock_Expecter) MarkPaid(ctx, orderID interface{}) *mock.Call {
	return _e.mock.On("MarkPaid", ctx, orderID)
}

func (_m *OrderRepositoryMock) MarkClosed(ctx context.Context, orderID string, status domain.OrderStatus) (bool, domain.OrderStatus, error) {
	ret := _m.Called(ctx, orderID, status)
	current, _ := ret.Get(1).(domain.OrderStatus)
	return ret.Bool(0), current, ret.Error(2)
}

func (_e *OrderRepositoryMock_Expecter) MarkClosed(ctx, orderID, status interface{}) *mock.Call {
	return _e.mock.On("MarkClosed", ctx, orderID, status)
}

// CreditRepositoryMock мок domain.CreditRepository
type CreditRepositoryMock struct {
	mock.Mock
}

// CreditRepositoryMock_Expecter типизированный экспектер
type CreditRepositoryMock_Expecter struct {
	mock *mock.Mock
}

// NewCreditRepositoryMock создает мок и проверяет ожидания по завершении теста
func NewCreditRepositoryMock(t testingT) *CreditRepositoryMock {
	m := &CreditRepositoryMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CreditRepositoryMock) EXPECT() *CreditRepositoryMock_Expecter {
	return &CreditRepositoryMock_Expecter{mock: &_m.Mock}
}

func (_m *CreditRepositoryMock) CreateEntry(ctx context.Context, userID, orderID string, amount int64, entryType domain.CreditEntryType) error {
	ret := _m.Called(ctx, userID, orderID, amount, entryType)
	return ret.Error(0)
}

func (_e *CreditRepositoryMock_Expecter) CreateEntry(ctx, userID, orderID, amount, entryType interface{}) *mock.Call {
	return _e.mock.On("CreateEntry", ctx, userID, orderID, amount, entryType)
}

func (_m *CreditRepositoryMock) GetBalance(ctx context.Context, userID string) (*domain.CreditBalance, error) {
	ret := _m.Called(ctx, userID)
	balance, _ := ret.Get(0).(*domain.CreditBalance)
	return balance, ret.Error(1)
}

func (_e *CreditRepositoryMock_Expecter) GetBalance(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("GetBalance", ctx, userID)
}

func (_m *CreditRepositoryMock) GetHistory(ctx context.Context, userID string) ([]*domain.CreditEntry, error) {
	ret := _m.Called(ctx, userID)
	entries, _ := ret.Get(0).([]*domain.CreditEntry)
	return entries, ret.Error(1)
}

func (_e *CreditRepositoryMock_Expecter) GetHistory(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("GetHistory", ctx, userID)
}

func (_m *CreditRepositoryMock) SpendWithLock(ctx context.Context, userID, orderRef string, amount int64) error {
	ret := _m.Called(ctx, userID, orderRef, amount)
	return ret.Error(0)
}

func (_e *CreditRepositoryMock_Expecter) SpendWithLock(ctx, userID, orderRef, amount interface{}) *mock.Call {
	return _e.mock.On("SpendWithLock", ctx, userID, orderRef, amount)
}
