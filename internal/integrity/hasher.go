// Package integrity вычисляет детерминированный дайджест корзины для обнаружения
// расхождения цен между клиентом и сервером.
package integrity

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/avc/storefront-checkout/internal/domain"
)

type canonicalItem struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Price        json.Number `json:"price"`
	Quantity     int         `json:"quantity"`
	Kind         string      `json:"kind"`
	CreditAmount *int64      `json:"creditAmount"`
	Currency     string      `json:"currency"`
}

type canonicalCart struct {
	Items []canonicalItem `json:"items"`
	Promo *string         `json:"promo"`
}

// Canonical возвращает стабильное JSON представление позиций и промокода.
// Позиции сортируются по id, цена пишется числом в кратчайшей десятичной форме.
func Canonical(items []domain.LineItem, promo string) ([]byte, error) {
	canonical := canonicalCart{Items: make([]canonicalItem, 0, len(items))}

	for _, item := range items {
		ci := canonicalItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    json.Number(item.UnitPrice.String()),
			Quantity: item.Quantity,
			Kind:     string(item.Kind),
			Currency: item.Currency,
		}
		if item.Kind == domain.ItemKindCredit {
			ci.CreditAmount = item.CreditAmount
		}
		canonical.Items = append(canonical.Items, ci)
	}

	sort.SliceStable(canonical.Items, func(i, j int) bool {
		return canonical.Items[i].ID < canonical.Items[j].ID
	})

	if code := strings.TrimSpace(promo); code != "" {
		canonical.Promo = &code
	}

	// Экранирование как у JSON.stringify: &, <, > и разделители строк пишутся как есть
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(canonical); err != nil {
		return nil, fmt.Errorf("integrity: failed to marshal canonical cart: %w", err)
	}

	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators заменяет \u2028 и \u2029, которые encoding/json экранирует
// всегда, на сами символы. Каждая обратная косая черта в выводе encoding/json
// начинает escape-последовательность, поэтому \\ пропускается целиком.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if data[i+1] == 'u' && i+6 <= len(data) {
			switch string(data[i : i+6]) {
			case `\u2028`:
				out = append(out, "\u2028"...)
				i += 5
				continue
			case `\u2029`:
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// Hash возвращает SHA-256 канонического представления в hex
func Hash(items []domain.LineItem, promo string) (string, error) {
	data, err := Canonical(items, promo)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Equal сравнивает два hex дайджеста за постоянное время без учета регистра
func Equal(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
