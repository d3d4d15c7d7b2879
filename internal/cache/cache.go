package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/tripveda/flightdesk/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Cache stores raw (unfiltered) search results keyed by the search
// parameters. Filtering and sorting always happen after the cache so a
// criteria change never misses.
type Cache interface {
	Get(ctx context.Context, req models.SearchRequest) ([]models.Flight, bool)
	Set(ctx context.Context, req models.SearchRequest, flights []models.Flight) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host: "localhost",
		Port: "6379",
		TTL:  5 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, req models.SearchRequest) ([]models.Flight, bool) {
	data, err := c.client.Get(ctx, searchKey(req)).Bytes()
	if err != nil {
		return nil, false
	}

	var flights []models.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, false
	}

	return flights, true
}

func (c *RedisCache) Set(ctx context.Context, req models.SearchRequest, flights []models.Flight) error {
	data, err := json.Marshal(flights)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, searchKey(req), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoOpCache satisfies Cache when caching is disabled.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, req models.SearchRequest) ([]models.Flight, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, req models.SearchRequest, flights []models.Flight) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// searchKey hashes every parameter that changes the candidate set. Filter
// criteria are deliberately excluded.
func searchKey(req models.SearchRequest) string {
	keyData := struct {
		TripType     models.TripType
		From         string
		To           string
		DepartDate   string
		ReturnDate   string
		Segments     []models.Segment
		Adults       int
		Children     int
		CurrencyCode string
	}{
		TripType:     req.TripType,
		From:         req.From,
		To:           req.To,
		DepartDate:   req.DepartDate,
		ReturnDate:   req.ReturnDate,
		Segments:     req.Segments,
		Adults:       req.Adults,
		Children:     req.Children,
		CurrencyCode: req.CurrencyCode,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "search:" + hex.EncodeToString(hash[:])
}
