package utils

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/nci/gomemcache/memcache"
)

// TileCache fronts rendered PNG tiles with memcached. The cache key is
// the md5 of the full request URI so any parameter change is a miss.
type TileCache struct {
	mc      *memcache.Client
	expires int32
}

// NewTileCache connects lazily; errors surface on Get and Put.
func NewTileCache(address string, expires int) *TileCache {
	if address == "" {
		return nil
	}
	return &TileCache{mc: memcache.New(address), expires: int32(expires)}
}

// Key hashes a request URI into a memcached-safe key.
func (c *TileCache) Key(requestURI string) string {
	buff := md5.Sum([]byte(requestURI))
	return hex.EncodeToString(buff[:])
}

func (c *TileCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	item, err := c.mc.Get(key)
	if err != nil {
		return nil, false
	}
	return item.Value, true
}

func (c *TileCache) Put(key string, value []byte) {
	if c == nil {
		return
	}
	// don't care about errors; memcache may not necessarily retain this anyway
	c.mc.Set(&memcache.Item{Key: key, Value: value, Expiration: c.expires})
}
