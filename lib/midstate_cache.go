package lib

import (
	"encoding/binary"

	"github.com/deso-protocol/ternpow/bitslice"
	"github.com/deso-protocol/ternpow/collections"
	"github.com/deso-protocol/ternpow/encoding"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// MidStateCache remembers the state reached after absorbing a transaction's
// prefix, i.e. everything before the nonce block. Re-mining a transaction
// whose prefix has not changed then skips the prefix transforms entirely.
//
// Cached states are never handed out directly. GetOrAbsorb returns a copy,
// since the caller goes on to write its search block into it.
type MidStateCache struct {
	cache *collections.LruCache[[32]byte, *bitslice.State]
}

func NewMidStateCache(maxSize int) (*MidStateCache, error) {
	cache, err := collections.NewLruCache[[32]byte, *bitslice.State](maxSize)
	if err != nil {
		return nil, errors.Wrapf(MinerErrorInvalidMidStateCacheConfig, "NewMidStateCache: size %d: %v", maxSize, err)
	}
	return &MidStateCache{cache: cache}, nil
}

// PrefixKey is the sha3-256 digest of the parts. Each part is written as its
// length followed by one byte per trit, so the same trits split differently
// give different keys.
func PrefixKey(parts ...[]encoding.Trit) [32]byte {
	hasher := sha3.New256()
	for _, part := range parts {
		var lengthBytes [8]byte
		binary.BigEndian.PutUint64(lengthBytes[:], uint64(len(part)))
		hasher.Write(lengthBytes[:])

		tritBytes := make([]byte, len(part))
		for ii, tt := range part {
			tritBytes[ii] = byte(tt)
		}
		hasher.Write(tritBytes)
	}
	var key [32]byte
	copy(key[:], hasher.Sum(nil))
	return key
}

// GetOrAbsorb returns a private copy of the state after absorbing each part in
// turn, computing and caching it on a miss. Every part is padded to a whole
// block on its own.
func (midStateCache *MidStateCache) GetOrAbsorb(parts ...[]encoding.Trit) *bitslice.State {
	key := PrefixKey(parts...)
	if cached, exists := midStateCache.cache.Get(key); exists {
		glog.V(2).Infof("MidStateCache.GetOrAbsorb: Hit for prefix %x", key[:8])
		return cached.Copy()
	}

	state := absorbParts(parts)
	if midStateCache.cache.Put(key, state.Copy()) {
		glog.V(2).Infof("MidStateCache.GetOrAbsorb: Evicted oldest prefix to make room for %x", key[:8])
	}
	return state
}

func (midStateCache *MidStateCache) Len() int {
	return midStateCache.cache.Len()
}

func (midStateCache *MidStateCache) Purge() {
	midStateCache.cache.Purge()
}

func absorbParts(parts [][]encoding.Trit) *bitslice.State {
	state := bitslice.NewState()
	scratch := &bitslice.State{}
	for _, part := range parts {
		bitslice.Absorb(state, scratch, part)
	}
	return state
}
