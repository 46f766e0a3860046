package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "idem:"
	pendingValue = "pending"
)

// ErrInProgress la clave está reservada por una petición que todavía no terminó.
var ErrInProgress = errors.New("idempotency: request in progress")

// StoredResponse respuesta guardada para repetirla ante la misma Idempotency-Key.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore reserva claves con SETNX y guarda la primera respuesta exitosa.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// New crea el cliente y verifica la conexión con PING.
func New(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

// NewIdempotencyStore construye el store; ttl es la vida de reservas y respuestas.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve intenta tomar la clave. false si ya existía (en curso o terminada).
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+key, pendingValue, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis: reserve: %w", err)
	}
	return ok, nil
}

// Get devuelve la respuesta guardada; nil si la clave no existe, ErrInProgress si sigue reservada.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*StoredResponse, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get: %w", err)
	}
	if string(raw) == pendingValue {
		return nil, ErrInProgress
	}
	var resp StoredResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("redis: decode: %w", err)
	}
	return &resp, nil
}

// Save reemplaza la reserva con la respuesta final.
func (s *IdempotencyStore) Save(ctx context.Context, key string, resp StoredResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("redis: encode: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: save: %w", err)
	}
	return nil
}

// Release libera la reserva para que la petición pueda reintentarse (respuesta no exitosa).
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis: release: %w", err)
	}
	return nil
}
