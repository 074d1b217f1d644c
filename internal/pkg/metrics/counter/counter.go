// Package counter buffers article view counts in redis and flushes them to
// the database in batches.
package counter

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const newsViewsKey = "news:counters:views"

// ViewCounter collects pending news views in a redis hash keyed by news id.
type ViewCounter struct {
	rdb *redis.Client
	db  *gorm.DB
	key string
}

func NewViewCounter(rdb *redis.Client, db *gorm.DB) *ViewCounter {
	return &ViewCounter{rdb: rdb, db: db, key: newsViewsKey}
}

// IncrementView records one pending view of an article.
func (vc *ViewCounter) IncrementView(newsID uint) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	field := strconv.FormatUint(uint64(newsID), 10)
	return vc.rdb.HIncrBy(ctx, vc.key, field, 1).Err()
}

// Flush drains the pending counts and adds them to news.views in one UPDATE.
// The hash is renamed first so views counted during the flush are kept.
func (vc *ViewCounter) Flush(ctx context.Context) (int, error) {
	tmpKey := fmt.Sprintf("%s:tmp:%d", vc.key, time.Now().UnixNano())
	if err := vc.rdb.Rename(ctx, vc.key, tmpKey).Err(); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return 0, nil
		}
		return 0, fmt.Errorf("drain view counters: %w", err)
	}
	defer vc.rdb.Del(ctx, tmpKey)

	data, err := vc.rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return 0, fmt.Errorf("read view counters: %w", err)
	}

	deltas := parseDeltas(data)
	if len(deltas) == 0 {
		return 0, nil
	}

	query, args, err := flushQuery(deltas)
	if err != nil {
		return 0, err
	}
	if err := vc.db.WithContext(ctx).Exec(query, args...).Error; err != nil {
		if rerr := vc.restore(ctx, deltas); rerr != nil {
			return 0, fmt.Errorf("apply view counters: %w (restore failed, views lost: %v)", err, rerr)
		}
		return 0, fmt.Errorf("apply view counters: %w", err)
	}
	return len(deltas), nil
}

// restore adds drained deltas back onto the live hash for the next flush.
func (vc *ViewCounter) restore(ctx context.Context, deltas []viewDelta) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	_, err := vc.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range deltas {
			pipe.HIncrBy(ctx, vc.key, strconv.FormatUint(d.id, 10), d.inc)
		}
		return nil
	})
	return err
}

type viewDelta struct {
	id  uint64
	inc int64
}

func parseDeltas(data map[string]string) []viewDelta {
	deltas := make([]viewDelta, 0, len(data))
	for k, v := range data {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			continue
		}
		inc, err := strconv.ParseInt(v, 10, 64)
		if err != nil || inc == 0 {
			continue
		}
		deltas = append(deltas, viewDelta{id: id, inc: inc})
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].id < deltas[j].id })
	return deltas
}

// flushQuery builds
// UPDATE news SET views = views + CASE id WHEN ? THEN ? ... END WHERE id IN (...)
func flushQuery(deltas []viewDelta) (string, []interface{}, error) {
	increments := sq.Case("id")
	ids := make([]uint64, 0, len(deltas))
	for _, d := range deltas {
		increments = increments.When(sq.Expr("?", d.id), sq.Expr("?", d.inc))
		ids = append(ids, d.id)
	}
	caseSQL, caseArgs, err := increments.ToSql()
	if err != nil {
		return "", nil, err
	}

	return sq.Update("news").
		Set("views", sq.Expr("views + "+caseSQL, caseArgs...)).
		Where(sq.Eq{"id": ids}).
		ToSql()
}
