package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/reminder-service/internal/domain"
)

const settingsCacheKeyPrefix = "reminder_settings:"

// cachedReminderSettingsRepository layers a Redis read-through cache over the
// Postgres settings repository. The scheduler reads settings every tick; the
// cache keeps that off the database. Cache failures degrade to the inner
// repository, never to an error.
type cachedReminderSettingsRepository struct {
	inner  ReminderSettingsRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedReminderSettingsRepository wraps inner with a Redis cache.
func NewCachedReminderSettingsRepository(inner ReminderSettingsRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) ReminderSettingsRepository {
	return &cachedReminderSettingsRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *cachedReminderSettingsRepository) Get(ctx context.Context, guildID string) (*domain.ReminderSettings, error) {
	key := settingsCacheKeyPrefix + guildID
	if payload, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var s domain.ReminderSettings
		if err := json.Unmarshal(payload, &s); err == nil {
			return &s, nil
		}
		r.logger.Warn("corrupt settings cache entry", zap.String("guild_id", guildID))
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("settings cache read failed", zap.String("guild_id", guildID), zap.Error(err))
	}

	settings, err := r.inner.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(settings); err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("settings cache write failed", zap.String("guild_id", guildID), zap.Error(err))
		}
	}
	return settings, nil
}

func (r *cachedReminderSettingsRepository) Save(ctx context.Context, settings *domain.ReminderSettings) error {
	if err := r.inner.Save(ctx, settings); err != nil {
		return err
	}
	if err := r.client.Del(ctx, settingsCacheKeyPrefix+settings.GuildID).Err(); err != nil {
		r.logger.Warn("settings cache invalidation failed", zap.String("guild_id", settings.GuildID), zap.Error(err))
	}
	return nil
}

func (r *cachedReminderSettingsRepository) ListEnabled(ctx context.Context) ([]domain.ReminderSettings, error) {
	// Enumeration always hits the source of truth; a stale enabled list would
	// keep reminding a guild that just switched off.
	return r.inner.ListEnabled(ctx)
}
