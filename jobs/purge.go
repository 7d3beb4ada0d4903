package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// PurgeJob deletes soft-deleted rows past retention. Join rows referencing
// purged entities go with them, so the resolver never sees dangling links.
// Completed runs are stamped in Redis for the jobs health endpoint.
type PurgeJob struct {
	pool      *pgxpool.Pool
	redis     *redis.Client
	logger    *slog.Logger
	retention time.Duration
}

// NewPurgeJob constructs a PurgeJob with the default retention window. The
// Redis client may be nil; run stamps are then skipped.
func NewPurgeJob(pool *pgxpool.Pool, redisClient *redis.Client, logger *slog.Logger, retention time.Duration) *PurgeJob {
	return &PurgeJob{pool: pool, redis: redisClient, logger: logger, retention: retention}
}

// Handle processes TaskTypePurgeSoftDeleted tasks.
func (j *PurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload PurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	retention := payload.Retention
	if retention <= 0 {
		retention = j.retention
	}
	cutoff := time.Now().Add(-retention)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return j.purgeUsers(gctx, cutoff) })
	g.Go(func() error { return j.purgeRoles(gctx, cutoff) })
	g.Go(func() error { return j.purgeMenus(gctx, cutoff) })
	if err := g.Wait(); err != nil {
		j.logger.Error("purge soft deleted", slog.Any("error", err))
		return err
	}
	j.stampRun(ctx)
	j.logger.Info("purge soft deleted complete", slog.Time("cutoff", cutoff))
	return nil
}

func (j *PurgeJob) stampRun(ctx context.Context) {
	if j.redis == nil {
		return
	}
	stamp := time.Now().UTC().Format(time.RFC3339)
	if err := j.redis.Set(ctx, lastPurgeKey, stamp, 0).Err(); err != nil {
		j.logger.Warn("stamp purge run", slog.Any("error", err))
	}
}

func (j *PurgeJob) purgeUsers(ctx context.Context, cutoff time.Time) error {
	if _, err := j.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id IN
(SELECT id FROM users WHERE is_deleted = TRUE AND updated_at < $1)`, cutoff); err != nil {
		return err
	}
	tag, err := j.pool.Exec(ctx, `DELETE FROM users WHERE is_deleted = TRUE AND updated_at < $1`, cutoff)
	if err != nil {
		return err
	}
	j.logger.Info("purged users", slog.Int64("rows", tag.RowsAffected()))
	return nil
}

func (j *PurgeJob) purgeRoles(ctx context.Context, cutoff time.Time) error {
	if _, err := j.pool.Exec(ctx, `DELETE FROM user_roles WHERE role_id IN
(SELECT id FROM roles WHERE is_deleted = TRUE AND updated_at < $1)`, cutoff); err != nil {
		return err
	}
	if _, err := j.pool.Exec(ctx, `DELETE FROM role_menus WHERE role_id IN
(SELECT id FROM roles WHERE is_deleted = TRUE AND updated_at < $1)`, cutoff); err != nil {
		return err
	}
	tag, err := j.pool.Exec(ctx, `DELETE FROM roles WHERE is_deleted = TRUE AND updated_at < $1`, cutoff)
	if err != nil {
		return err
	}
	j.logger.Info("purged roles", slog.Int64("rows", tag.RowsAffected()))
	return nil
}

func (j *PurgeJob) purgeMenus(ctx context.Context, cutoff time.Time) error {
	if _, err := j.pool.Exec(ctx, `DELETE FROM role_menus WHERE menu_id IN
(SELECT id FROM menus WHERE is_deleted = TRUE AND updated_at < $1)`, cutoff); err != nil {
		return err
	}
	tag, err := j.pool.Exec(ctx, `DELETE FROM menus WHERE is_deleted = TRUE AND updated_at < $1
AND id NOT IN (SELECT COALESCE(parent_id, 0) FROM menus WHERE is_deleted = FALSE)`, cutoff)
	if err != nil {
		return err
	}
	j.logger.Info("purged menus", slog.Int64("rows", tag.RowsAffected()))
	return nil
}
