package manager

import (
	"fmt"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// commCache caches pid to process name lookups from /proc. Traced
// processes fire many events, reading /proc once per pid is enough.
type commCache struct {
	cache *lru.Cache[uint32, string]
}

func newCommCache(size int) (*commCache, error) {
	cache, err := lru.New[uint32, string](size)
	if err != nil {
		return nil, err
	}

	return &commCache{cache: cache}, nil
}

func (self *commCache) Get(pid uint32) string {
	res, pres := self.cache.Get(pid)
	if pres {
		return res
	}

	res = readComm(pid)
	self.cache.Add(pid, res)
	return res
}

// Forget drops a pid, used when an execve event renames the process.
func (self *commCache) Forget(pid uint32) {
	self.cache.Remove(pid)
}

func readComm(pid uint32) string {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
