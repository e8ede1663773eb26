package counter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/FelixBrandt/PressPass/internal/pkg/cache"
	"github.com/FelixBrandt/PressPass/internal/pkg/database"
)

const articleDeliveriesKey = "article:counters:deliveries"

// AddArticleDelivery increments the pending delivery counter for an article in Redis
func AddArticleDelivery(slug string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, articleDeliveriesKey, slug, 1).Err()
}

// FlushAll flushes buffered delivery counters to the database
func FlushAll() error {
	return flushDeliveries()
}

// flushDeliveries drains the Redis hash atomically and applies batched
// upserts to article_stats. Uses RENAME to a temporary key for atomic drain
// without losing in-flight increments.
func flushDeliveries() error {
	ctx := context.Background()
	rdb := cache.GetClient()

	tmpKey := fmt.Sprintf("%s:tmp:%d", articleDeliveriesKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", articleDeliveriesKey, tmpKey).Err(); err != nil {
		// If key does not exist, nothing to flush
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		if err.Error() == "redis: nil" {
			return nil
		}
		return err
	}

	// Ensure cleanup of tmpKey even if later steps fail
	defer rdb.Del(ctx, tmpKey)

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	db := database.GetDB()
	for slug, v := range data {
		inc, ierr := strconv.ParseInt(v, 10, 64)
		if ierr != nil || inc == 0 {
			continue
		}
		sql := "INSERT INTO article_stats (slug, delivery_count, updated_at) VALUES (?, ?, NOW())" +
			" ON DUPLICATE KEY UPDATE delivery_count = delivery_count + VALUES(delivery_count), updated_at = NOW()"
		if err := db.Exec(sql, slug, inc).Error; err != nil {
			return err
		}
	}
	return nil
}
