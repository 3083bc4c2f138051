package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrStaleRefresh: результат обновления устарел: уже запущено более новое.
var ErrStaleRefresh = errors.New("refresh superseded")

type flight struct {
	seq    uint64
	cancel context.CancelFunc
	done   chan struct{}
	snap   *Snapshot
	err    error
}

// Refresh перечитывает данные для токена. На один токен выполняется не больше
// одного обновления: новое отменяет предыдущее, а результат с устаревшим
// номером не попадает в кэш. Вызывающий устаревшего обновления получает
// результат самого свежего.
func (s *DashboardService) Refresh(ctx context.Context, token string) (*Snapshot, error) {
	key := TokenKey(token)
	fctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.seq++
	f := &flight{seq: s.seq, cancel: cancel, done: make(chan struct{})}
	if prev, ok := s.flights[key]; ok {
		prev.cancel()
	}
	s.flights[key] = f
	s.mu.Unlock()

	snap, err := s.load(fctx, token)

	s.mu.Lock()
	latest := s.flights[key]
	if latest != f {
		f.err = ErrStaleRefresh
		close(f.done)
		s.mu.Unlock()
		log.Printf("refresh seq=%d for %s discarded as stale", f.seq, key)
		return s.waitLatest(ctx, key, latest)
	}
	delete(s.flights, key)
	if err == nil {
		snap.Seq = f.seq
		s.cache.SetSnapshot(key, snap)
	}
	f.snap, f.err = snap, err
	close(f.done)
	s.mu.Unlock()

	if errors.Is(err, ErrSessionExpired) {
		s.cache.Unwatch(token)
		s.cache.DeleteSnapshot(key)
	}
	return snap, err
}

func (s *DashboardService) waitLatest(ctx context.Context, key string, f *flight) (*Snapshot, error) {
	for f != nil {
		select {
		case <-f.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if !errors.Is(f.err, ErrStaleRefresh) {
			return f.snap, f.err
		}
		s.mu.Lock()
		f = s.flights[key]
		s.mu.Unlock()
	}
	if snap, ok := s.cache.GetSnapshot(key); ok {
		return snap, nil
	}
	return nil, ErrStaleRefresh
}

// RefreshAll обновляет снимки всех токенов из списка наблюдения.
func (s *DashboardService) RefreshAll(ctx context.Context) {
	for _, token := range s.cache.Watched() {
		if _, err := s.Refresh(ctx, token); err != nil {
			log.Printf("periodic refresh for %s failed: %v", TokenKey(token), err)
		}
	}
}

// StartScheduler запускает периодическое обновление по cron-выражению.
func (s *DashboardService) StartScheduler(spec string, timeout time.Duration) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.RefreshAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("dashboard refresher started schedule=%q", spec)
	c.Start()
	return c, nil
}
