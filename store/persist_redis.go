package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
)

// RedisTableTracker stores table records in Redis so a table survives
// a coordinator restart mid-hand.
type RedisTableTracker struct {
	rdclient *redis.Client
}

func NewRedisTableTracker(redisURL string, redisPW string, redisDB int) *RedisTableTracker {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisTableTracker{
		rdclient: rdclient,
	}
}

func (r *RedisTableTracker) Load(tableCode string) (*TableRecord, error) {
	key := tableKey(tableCode)
	recordBytes, err := r.rdclient.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("Table state for Table: %s is not found", tableCode)
	} else if err != nil {
		return nil, err
	}
	record := &TableRecord{}
	err = jsoniter.Unmarshal([]byte(recordBytes), record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *RedisTableTracker) Save(tableCode string, record *TableRecord) error {
	recordBytes, err := jsoniter.Marshal(record)
	if err != nil {
		return err
	}
	return r.rdclient.Set(context.Background(), tableKey(tableCode), recordBytes, 0).Err()
}

func (r *RedisTableTracker) Remove(tableCode string) error {
	return r.rdclient.Del(context.Background(), tableKey(tableCode)).Err()
}

func tableKey(tableCode string) string {
	return fmt.Sprintf("table|%s", tableCode)
}
