package cache

import (
	"strconv"

	"github.com/pkg/errors"

	"go.uber.org/zap"
	"max.ks1230/expenses-bot/internal/logger"

	"github.com/bradfitz/gomemcache/memcache"
)

var defaultBase = 10

// MemcacheClient keeps rendered period summaries so repeated /today-style
// commands skip the full collection scan. Entries are dropped whenever the
// user's ledger mutates.
type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

func formatKey(userID int64, periodTag string) string {
	return strconv.FormatInt(userID, defaultBase) + ":summary:" + periodTag
}

func (mc *MemcacheClient) CacheSummary(userID int64, periodTag string, text string) error {
	logger.Info("cache summary", zap.Int64("userID", userID), zap.String("period", periodTag))
	return mc.client.Set(&memcache.Item{
		Key:   formatKey(userID, periodTag),
		Value: []byte(text)},
	)
}

func (mc *MemcacheClient) GetSummary(userID int64, periodTag string) (string, error) {
	item, err := mc.client.Get(formatKey(userID, periodTag))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	logger.Info("summary cache hit", zap.Int64("userID", userID), zap.String("period", periodTag))
	return string(item.Value), nil
}

func (mc *MemcacheClient) InvalidateSummaries(userID int64, periodTags []string) error {
	logger.Info("invalidate summaries", zap.Int64("userID", userID))

	for _, tag := range periodTags {
		err := mc.client.Delete(formatKey(userID, tag))
		if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return err
		}
	}
	return nil
}
