package postgres

import (
	"context"
	"fmt"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

// CatalogRepository реализует domain.CatalogRepository
type CatalogRepository struct {
	db DBTX
}

// NewCatalogRepository создает новый CatalogRepository
func NewCatalogRepository(db DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListActiveProducts получает активные товары по списку id
func (r *CatalogRepository) ListActiveProducts(ctx context.Context, ids []string) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, price::text, kind, credit_amount, currency, active 
		 FROM products 
		 WHERE id = ANY($1) AND active 
		 ORDER BY id`,
		ids,
	)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var price string
		product := &domain.Product{}
		err := rows.Scan(&product.ID, &product.Name, &price, &product.Kind, &product.CreditAmount, &product.Currency, &product.Active)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}

		product.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("repository: invalid price %q for product %q: %w", price, product.ID, err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products: %w", err)
	}

	return products, nil
}
