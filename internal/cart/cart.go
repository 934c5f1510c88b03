// Package cart реализует корзину покупателя с внедряемым хранилищем.
// Корзина не разделяется между горутинами: каждый запрос открывает свою копию.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/avc/storefront-checkout/internal/integrity"
	"github.com/avc/storefront-checkout/internal/pricing"
)

// Ошибки изменения корзины
var (
	ErrInvalidQuantity = fmt.Errorf("quantity must be between 1 and %d", domain.MaxItemQuantity)
	ErrInvalidItem     = errors.New("item id is required")
	ErrItemNotFound    = errors.New("item not in cart")
)

// Cart упорядоченный по добавлению набор позиций и промокод
type Cart struct {
	key     string
	storage Storage
	engine  *pricing.Engine
	now     func() time.Time

	items []domain.LineItem
	promo string
}

// Open загружает корзину по ключу или создает пустую
func Open(ctx context.Context, storage Storage, key string, engine *pricing.Engine) (*Cart, error) {
	if engine == nil {
		engine = pricing.Default()
	}

	c := &Cart{key: key, storage: storage, engine: engine, now: time.Now}

	snapshot, err := storage.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c, nil
		}
		return nil, fmt.Errorf("cart: failed to load %s: %w", key, err)
	}

	c.items = snapshot.Items
	c.promo = snapshot.PromoCode
	return c, nil
}

// Add добавляет позицию или увеличивает количество уже добавленной
func (c *Cart) Add(ctx context.Context, item domain.LineItem) error {
	if strings.TrimSpace(item.ID) == "" {
		return ErrInvalidItem
	}
	if item.Quantity <= 0 || item.Quantity > domain.MaxItemQuantity {
		return ErrInvalidQuantity
	}

	if i := c.indexOf(item.ID); i >= 0 {
		if item.Quantity > domain.MaxItemQuantity-c.items[i].Quantity {
			return ErrInvalidQuantity
		}
		c.items[i].Quantity += item.Quantity
	} else {
		c.items = append(c.items, item)
	}

	return c.save(ctx)
}

// Remove удаляет позицию
func (c *Cart) Remove(ctx context.Context, id string) error {
	i := c.indexOf(id)
	if i < 0 {
		return ErrItemNotFound
	}

	c.items = append(c.items[:i], c.items[i+1:]...)
	return c.save(ctx)
}

// UpdateQuantity задает количество позиции. Неположительное количество удаляет позицию.
func (c *Cart) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return c.Remove(ctx, id)
	}
	if quantity > domain.MaxItemQuantity {
		return ErrInvalidQuantity
	}

	i := c.indexOf(id)
	if i < 0 {
		return ErrItemNotFound
	}

	c.items[i].Quantity = quantity
	return c.save(ctx)
}

// SetPromo задает промокод. Пустая строка снимает промокод.
func (c *Cart) SetPromo(ctx context.Context, code string) error {
	c.promo = strings.TrimSpace(code)
	return c.save(ctx)
}

// Reprice заменяет отображаемые данные позиций авторитетными из каталога
func (c *Cart) Reprice(ctx context.Context, authoritative []domain.LineItem) error {
	byID := make(map[string]domain.LineItem, len(authoritative))
	for _, item := range authoritative {
		byID[item.ID] = item
	}

	for i, item := range c.items {
		fresh, ok := byID[item.ID]
		if !ok {
			continue
		}
		fresh.Quantity = item.Quantity
		c.items[i] = fresh
	}

	return c.save(ctx)
}

// Clear очищает корзину и удаляет ее из хранилища
func (c *Cart) Clear(ctx context.Context) error {
	c.items = nil
	c.promo = ""

	if err := c.storage.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("cart: failed to delete %s: %w", c.key, err)
	}
	return nil
}

// Items возвращает копию позиций в порядке добавления
func (c *Cart) Items() []domain.LineItem {
	items := cloneItems(c.items)
	if items == nil {
		return []domain.LineItem{}
	}
	return items
}

// Promo возвращает промокод корзины
func (c *Cart) Promo() string {
	return c.promo
}

// Empty сообщает, что в корзине нет позиций
func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Preview оптимистично считает итоги по отображаемым ценам тем же движком, что и сервер
func (c *Cart) Preview(discountPercent int) pricing.Totals {
	return c.engine.Compute(c.items, discountPercent)
}

// Hash возвращает дайджест корзины для проверки на сервере
func (c *Cart) Hash() (string, error) {
	return integrity.Hash(c.items, c.promo)
}

// CheckoutRequest строит запрос на создание заказа: только id, количества, промокод и дайджест
func (c *Cart) CheckoutRequest() (domain.CheckoutRequest, error) {
	hash, err := c.Hash()
	if err != nil {
		return domain.CheckoutRequest{}, err
	}

	items := make([]domain.RequestedItem, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, domain.RequestedItem{ID: item.ID, Quantity: item.Quantity})
	}

	return domain.CheckoutRequest{Items: items, Promo: c.promo, Hash: hash}, nil
}

func (c *Cart) indexOf(id string) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) save(ctx context.Context) error {
	snapshot := &Snapshot{Items: c.items, PromoCode: c.promo, UpdatedAt: c.now()}
	if err := c.storage.Save(ctx, c.key, snapshot); err != nil {
		return fmt.Errorf("cart: failed to save %s: %w", c.key, err)
	}
	return nil
}
