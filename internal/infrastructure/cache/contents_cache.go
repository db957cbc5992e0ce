package cache

import (
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"pack-vault/internal/domain/asset"
)

// ContentsCache パック在庫の読み取りキャッシュ
// 保持・返却ともにコピーを使うため、呼び出し側の変更はキャッシュに影響しない
type ContentsCache struct {
	cache *gocache.Cache

	mu          sync.Mutex
	generations map[int64]uint64
}

// NewContentsCache 新しいContentsCacheを作成
func NewContentsCache(ttl time.Duration) *ContentsCache {
	return &ContentsCache{
		cache:       gocache.New(ttl, 2*ttl),
		generations: make(map[int64]uint64),
	}
}

func key(packID int64) string {
	return "pack:" + strconv.FormatInt(packID, 10) + ":contents"
}

// Get キャッシュ済みの在庫を返す
func (c *ContentsCache) Get(packID int64) ([]*asset.RewardEntry, bool) {
	x, found := c.cache.Get(key(packID))
	if !found {
		return nil, false
	}
	return cloneEntries(x.([]*asset.RewardEntry)), true
}

// Generation パック在庫の世代を返す。Invalidate のたびに進む
// 読み込み前に取得し、Set に渡す
func (c *ContentsCache) Generation(packID int64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[packID]
}

// Set 在庫をキャッシュ
// 読み込み開始後に Invalidate されていた場合は古い在庫とみなして保存しない
func (c *ContentsCache) Set(packID int64, generation uint64, contents []*asset.RewardEntry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[packID] != generation {
		return false
	}
	c.cache.Set(key(packID), cloneEntries(contents), gocache.DefaultExpiration)
	return true
}

// Invalidate パックのキャッシュを破棄し、世代を進める
func (c *ContentsCache) Invalidate(packID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[packID]++
	c.cache.Delete(key(packID))
}

func cloneEntries(contents []*asset.RewardEntry) []*asset.RewardEntry {
	out := make([]*asset.RewardEntry, len(contents))
	for i, e := range contents {
		out[i] = e.Clone()
	}
	return out
}
