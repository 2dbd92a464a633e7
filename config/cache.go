package config

import (
	"fmt"

	"github.com/patrickmn/go-cache"
)

// OptionCache holds the selector option lists. Entries never expire and
// the cache runs no janitor: the source categories are static for the
// lifetime of the process.
var OptionCache = cache.New(cache.NoExpiration, 0)

func ClearAllCaches() {
	OptionCache.Flush()
}

func GetCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
