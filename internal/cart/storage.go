package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound возвращается хранилищем, если корзина по ключу не сохранялась
var ErrNotFound = domain.ErrCartNotFound

// Snapshot сохраняемое состояние корзины
type Snapshot struct {
	Items     []domain.LineItem `json:"items"`
	PromoCode string            `json:"promoCode,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Storage порт хранения корзины
type Storage interface {
	Load(ctx context.Context, key string) (*Snapshot, error)
	Save(ctx context.Context, key string, snapshot *Snapshot) error
	Delete(ctx context.Context, key string) error
}

// MemoryStorage хранит корзины в памяти процесса
type MemoryStorage struct {
	mu    sync.RWMutex
	carts map[string]Snapshot
}

// NewMemoryStorage создает пустое хранилище в памяти
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{carts: make(map[string]Snapshot)}
}

func (s *MemoryStorage) Load(_ context.Context, key string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.carts[key]
	if !ok {
		return nil, ErrNotFound
	}
	snapshot.Items = cloneItems(snapshot.Items)
	return &snapshot, nil
}

func (s *MemoryStorage) Save(_ context.Context, key string, snapshot *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *snapshot
	stored.Items = cloneItems(snapshot.Items)
	s.carts[key] = stored
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, key)
	return nil
}

// RedisStorage хранит корзины в Redis с TTL
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage создает RedisStorage. ttl <= 0 хранит корзину без срока.
func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func (s *RedisStorage) Load(ctx context.Context, key string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, storageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cart storage: redis get failed: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("cart storage: unmarshal cart failed: %w", err)
	}

	return &snapshot, nil
}

func (s *RedisStorage) Save(ctx context.Context, key string, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("cart storage: marshal cart failed: %w", err)
	}

	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, storageKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("cart storage: redis set failed: %w", err)
	}

	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, storageKey(key)).Err(); err != nil {
		return fmt.Errorf("cart storage: redis delete failed: %w", err)
	}

	return nil
}

func storageKey(key string) string {
	return fmt.Sprintf("cart:%s", key)
}

func cloneItems(items []domain.LineItem) []domain.LineItem {
	if items == nil {
		return nil
	}
	cloned := make([]domain.LineItem, len(items))
	copy(cloned, items)
	for i := range cloned {
		if cloned[i].CreditAmount != nil {
			amount := *cloned[i].CreditAmount
			cloned[i].CreditAmount = &amount
		}
	}
	return cloned
}
