package service

import (
	"context"
	"sort"

	"github.com/avc/storefront-checkout/internal/domain"
)

// CatalogResolver находит авторитетные записи каталога по id
type CatalogResolver struct {
	catalogRepo domain.CatalogRepository
}

// NewCatalogResolver создает новый CatalogResolver
func NewCatalogResolver(catalogRepo domain.CatalogRepository) *CatalogResolver {
	return &CatalogResolver{catalogRepo: catalogRepo}
}

// Resolve возвращает активные товары в EUR по id. Если хотя бы один id не найден,
// неактивен или в другой валюте, возвращает UnknownProductError с первым таким id в порядке сортировки.
func (r *CatalogResolver) Resolve(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	products, err := r.catalogRepo.ListActiveProducts(ctx, ids)
	if err != nil {
		return nil, persistenceError("resolve catalog", err)
	}

	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		// Заказ считается в одной валюте, товар в другой валюте недоступен
		if p.Active && p.Currency == domain.CurrencyEUR {
			byID[p.ID] = p
		}
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for _, id := range sorted {
		if _, ok := byID[id]; !ok {
			return nil, &UnknownProductError{ProductID: id}
		}
	}

	return byID, nil
}
