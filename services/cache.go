package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	snapshotPrefix = "snapshot:"
	watchPrefix    = "watch:"
)

// CacheService хранит снимки дашборда по токенам и список токенов для фонового обновления.
type CacheService struct {
	cache    *cache.Cache
	watchTTL time.Duration
}

func NewCacheService(defaultExpiration, cleanupInterval, watchTTL time.Duration) *CacheService {
	return &CacheService{
		cache:    cache.New(defaultExpiration, cleanupInterval),
		watchTTL: watchTTL,
	}
}

// TokenKey: ключ кэша для токена; сам токен в ключ не попадает.
func TokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:12])
}

func (s *CacheService) GetSnapshot(key string) (*Snapshot, bool) {
	v, found := s.cache.Get(snapshotPrefix + key)
	if !found {
		return nil, false
	}
	snap, ok := v.(*Snapshot)
	return snap, ok
}

func (s *CacheService) SetSnapshot(key string, snap *Snapshot) {
	s.cache.Set(snapshotPrefix+key, snap, cache.DefaultExpiration)
}

func (s *CacheService) DeleteSnapshot(key string) {
	s.cache.Delete(snapshotPrefix + key)
}

// Watch продлевает токен в списке фонового обновления.
func (s *CacheService) Watch(token string) {
	s.cache.Set(watchPrefix+TokenKey(token), token, s.watchTTL)
}

func (s *CacheService) Unwatch(token string) {
	s.cache.Delete(watchPrefix + TokenKey(token))
}

// Watched возвращает токены, по которым были запросы в последние watchTTL.
func (s *CacheService) Watched() []string {
	tokens := make([]string, 0)
	for key, item := range s.cache.Items() {
		if !strings.HasPrefix(key, watchPrefix) {
			continue
		}
		if token, ok := item.Object.(string); ok {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// DropSnapshots удаляет снимки всех токенов; список наблюдения остается.
func (s *CacheService) DropSnapshots() {
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, snapshotPrefix) {
			s.cache.Delete(key)
		}
	}
}
