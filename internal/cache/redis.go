package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/irodova/placestay/config"
	"github.com/irodova/placestay/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	placesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, placesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		placesTTL: placesTTL,
	}
}

func (c *RedisCache) GetPlaces(ctx context.Context) ([]domain.Place, error) {
	return c.getPlaceList(ctx, placesKey())
}

func (c *RedisCache) SetPlaces(ctx context.Context, places []domain.Place) error {
	return c.setPlaceList(ctx, placesKey(), places)
}

func (c *RedisCache) GetSearch(ctx context.Context, location string, placeType domain.PlaceType) ([]domain.Place, error) {
	return c.getPlaceList(ctx, searchKey(location, placeType))
}

func (c *RedisCache) SetSearch(ctx context.Context, location string, placeType domain.PlaceType, places []domain.Place) error {
	return c.setPlaceList(ctx, searchKey(location, placeType), places)
}

// InvalidatePlaces drops the full listing and every cached search result.
// Called after any place or inventory mutation.
func (c *RedisCache) InvalidatePlaces(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "cache:places*", 0).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) getPlaceList(ctx context.Context, key string) ([]domain.Place, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var places []domain.Place
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, err
	}
	return places, nil
}

func (c *RedisCache) setPlaceList(ctx context.Context, key string, places []domain.Place) error {
	payload, err := json.Marshal(places)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.placesTTL).Err()
}

func placesKey() string {
	return "cache:places"
}

func searchKey(location string, placeType domain.PlaceType) string {
	return fmt.Sprintf("cache:places:search:%s:%s", location, placeType)
}
