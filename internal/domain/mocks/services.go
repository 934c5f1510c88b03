package mocks

import (
	"context"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/stretchr/testify/mock"
)

// PaymentProviderMock мок domain.PaymentProvider
type PaymentProviderMock struct {
	mock.Mock
}

// PaymentProviderMock_Expecter типизированный экспектер
type PaymentProviderMock_Expecter struct {
	mock *mock.Mock
}

// NewPaymentProviderMock создает мок и проверяет ожидания по завершении теста
func NewPaymentProviderMock(t testingT) *PaymentProviderMock {
	m := &PaymentProviderMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *PaymentProviderMock) EXPECT() *PaymentProviderMock_Expecter {
	return &PaymentProviderMock_Expecter{mock: &_m.Mock}
}

func (_m *PaymentProviderMock) Name() string {
	ret := _m.Called()
	return ret.String(0)
}

func (_e *PaymentProviderMock_Expecter) Name() *mock.Call {
	return _e.mock.On("Name")
}

func (_m *PaymentProviderMock) CheckoutURL(ctx context.Context, handle domain.CheckoutHandle) (string, error) {
	ret := _m.Called(ctx, handle)
	return ret.String(0), ret.Error(1)
}

func (_e *PaymentProviderMock_Expecter) CheckoutURL(ctx, handle interface{}) *mock.Call {
	return _e.mock.On("CheckoutURL", ctx, handle)
}

func (_m *PaymentProviderMock) PaymentOutcome(ctx context.Context, externalRef string) (domain.PaymentOutcome, error) {
	ret := _m.Called(ctx, externalRef)
	outcome, _ := ret.Get(0).(domain.PaymentOutcome)
	return outcome, ret.Error(1)
}

func (_e *PaymentProviderMock_Expecter) PaymentOutcome(ctx, externalRef interface{}) *mock.Call {
	return _e.mock.On("PaymentOutcome", ctx, externalRef)
}

// CheckoutServiceMock мок domain.CheckoutService
type CheckoutServiceMock struct {
	mock.Mock
}

// CheckoutServiceMock_Expecter типизированный экспектер
type CheckoutServiceMock_Expecter struct {
	mock *mock.Mock
}

// NewCheckoutServiceMock создает мок и проверяет ожидания по завершении теста
func NewCheckoutServiceMock(t testingT) *CheckoutServiceMock {
	m := &CheckoutServiceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CheckoutServiceMock) EXPECT() *CheckoutServiceMock_Expecter {
	return &CheckoutServiceMock_Expecter{mock: &_m.Mock}
}

func (_m *CheckoutServiceMock) Checkout(ctx context.Context, userID string, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	ret := _m.Called(ctx, userID, req)
	result, _ := ret.Get(0).(*domain.CheckoutResult)
	return result, ret.Error(1)
}

func (_e *CheckoutServiceMock_Expecter) Checkout(ctx, userID, req interface{}) *mock.Call {
	return _e.mock.On("Checkout", ctx, userID, req)
}

func (_m *CheckoutServiceMock) Preview(ctx context.Context, userID string, req domain.CheckoutRequest) (*domain.Quote, error) {
	ret := _m.Called(ctx, userID, req)
	quote, _ := ret.Get(0).(*domain.Quote)
	return quote, ret.Error(1)
}

func (_e *CheckoutServiceMock_Expecter) Preview(ctx, userID, req interface{}) *mock.Call {
	return _e.mock.On("Preview", ctx, userID, req)
}

func (_m *CheckoutServiceMock) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	ret := _m.Called(ctx, userID, orderID)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (_e *CheckoutServiceMock_Expecter) GetOrder(ctx, userID, orderID interface{}) *mock.Call {
	return _e.mock.On("GetOrder", ctx, userID, orderID)
}

func (_m *CheckoutServiceMock) GetOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	ret := _m.Called(ctx, userID)
	orders, _ := ret.Get(0).([]*domain.Order)
	return orders, ret.Error(1)
}

func (_e *CheckoutServiceMock_Expecter) GetOrders(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("GetOrders", ctx, userID)
}

// PaymentServiceMock мок domain.PaymentService
type PaymentServiceMock struct {
	mock.Mock
}

// PaymentServiceMock_Expecter типизированный экспектер
type PaymentServiceMock_Expecter struct {
	mock *mock.Mock
}

// NewPaymentServiceMock создает мок и проверяет ожидания по завершении теста
func NewPaymentServiceMock(t testingT) *PaymentServiceMock {
	m := &PaymentServiceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *PaymentServiceMock) EXPECT() *PaymentServiceMock_Expecter {
	return &PaymentServiceMock_Expecter{mock: &_m.Mock}
}

func (_m *PaymentServiceMock) Capture(ctx context.Context, orderID string) (*domain.CaptureResult, error) {
	ret := _m.Called(ctx, orderID)
	result, _ := ret.Get(0).(*domain.CaptureResult)
	return result, ret.Error(1)
}

func (_e *PaymentServiceMock_Expecter) Capture(ctx, orderID interface{}) *mock.Call {
	return _e.mock.On("Capture", ctx, orderID)
}

func (_m *PaymentServiceMock) Cancel(ctx context.Context, orderID string) (*domain.CaptureResult, error) {
	ret := _m.Called(ctx, orderID)
	result, _ := ret.Get(0).(*domain.CaptureResult)
	return result, ret.Error(1)
}

func (_e *PaymentServiceMock_Expecter) Cancel(ctx, orderID interface{}) *mock.Call {
	return _e.mock.On("Cancel", ctx, orderID)
}

// WalletServiceMock мок domain.WalletService
type WalletServiceMock struct {
	mock.Mock
}

// WalletServiceMock_Expecter типизированный экспектер
type WalletServiceMock_Expecter struct {
	mock *mock.Mock
}

// NewWalletServiceMock создает мок и проверяет ожидания по завершении теста
func NewWalletServiceMock(t testingT) *WalletServiceMock {
	m := &WalletServiceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *WalletServiceMock) EXPECT() *WalletServiceMock_Expecter {
	return &WalletServiceMock_Expecter{mock: &_m.Mock}
}

func (_m *WalletServiceMock) GetBalance(ctx context.Context, userID string) (*domain.CreditBalance, error) {
	ret := _m.Called(ctx, userID)
	balance, _ := ret.Get(0).(*domain.CreditBalance)
	return balance, ret.Error(1)
}

func (_e *WalletServiceMock_Expecter) GetBalance(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("GetBalance", ctx, userID)
}

func (_m *WalletServiceMock) GetHistory(ctx context.Context, userID string) ([]*domain.CreditEntry, error) {
	ret := _m.Called(ctx, userID)
	entries, _ := ret.Get(0).([]*domain.CreditEntry)
	return entries, ret.Error(1)
}

func (_e *WalletServiceMock_Expecter) GetHistory(ctx, userID interface{}) *mock.Call {
	return _e.mock.On("GetHistory", ctx, userID)
}

func (_m *WalletServiceMock) Spend(ctx context.Context, userID, orderRef string, amount int64) error {
	ret := _m.Called(ctx, userID, orderRef, amount)
	return ret.Error(0)
}

func (_e *WalletServiceMock_Expecter) Spend(ctx, userID, orderRef, amount interface{}) *mock.Call {
	return _e.mock.On("Spend", ctx, userID, orderRef, amount)
}
