package storage

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore 进程内存储，记录以 JSON 保存，读写双方不共享内存
type MemoryStore struct {
	entries    map[string]memoryEntry
	expiration time.Duration
	now        func() time.Time

	mu        sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore 创建内存存储。cleanupInterval > 0 时启动后台清理协程。
func NewMemoryStore(expiration, cleanupInterval time.Duration) *MemoryStore {
	if expiration <= 0 {
		expiration = defaultGameExpiration
	}
	ms := &MemoryStore{
		entries:    make(map[string]memoryEntry),
		expiration: expiration,
		now:        time.Now,
		done:       make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go ms.cleanupLoop(cleanupInterval)
	}

	return ms
}

// SaveGame 保存对局并刷新过期时间
func (ms *MemoryStore) SaveGame(_ context.Context, data *GameData) error {
	if data == nil {
		return nil
	}

	b, err := encode(data)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries[data.ID] = memoryEntry{data: b, expiresAt: ms.now().Add(ms.expiration)}
	return nil
}

// LoadGame 加载对局，过期视为不存在
func (ms *MemoryStore) LoadGame(_ context.Context, id string) (*GameData, error) {
	ms.mu.RLock()
	entry, ok := ms.entries[id]
	ms.mu.RUnlock()

	if !ok || !ms.now().Before(entry.expiresAt) {
		return nil, nil
	}
	return decode(entry.data)
}

// DeleteGame 删除对局
func (ms *MemoryStore) DeleteGame(_ context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.entries, id)
	return nil
}

// GetAllGameIDs 获取所有未过期的对局 ID
func (ms *MemoryStore) GetAllGameIDs(_ context.Context) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	now := ms.now()
	ids := make([]string, 0, len(ms.entries))
	for id, entry := range ms.entries {
		if now.Before(entry.expiresAt) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Close 停止清理协程
func (ms *MemoryStore) Close() error {
	ms.closeOnce.Do(func() { close(ms.done) })
	return nil
}

// cleanupLoop 定期清理过期对局
func (ms *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.purgeExpired()
		case <-ms.done:
			return
		}
	}
}

func (ms *MemoryStore) purgeExpired() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	removed := 0
	for id, entry := range ms.entries {
		if !now.Before(entry.expiresAt) {
			delete(ms.entries, id)
			removed++
		}
	}
	return removed
}
