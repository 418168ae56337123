package cache_key

import (
	"crypto/md5"
	"encoding/hex"
	"hash/crc32"
	"strconv"

	"thumbcache/domain"
)

// Input is everything that feeds a cache key. Token is empty when the source
// has no staleness signal.
type Input struct {
	Identity string
	Width    int
	Height   int
	Mode     domain.ResizeMode
	Token    string
}

// String is the exact byte sequence that is hashed.
func (in Input) String() string {
	return in.Identity + strconv.Itoa(in.Width) + strconv.Itoa(in.Height) + string(in.Mode) + in.Token
}

// Derive returns the MD5 hex digest of the input. It is a pure function.
func Derive(in Input) domain.CacheKey {
	sum := md5.Sum([]byte(in.String()))
	return domain.CacheKey(hex.EncodeToString(sum[:]))
}

// Checksum is the staleness token for the checksum policy: the CRC32 (IEEE)
// of the body in decimal.
func Checksum(data []byte) string {
	return strconv.FormatUint(uint64(crc32.ChecksumIEEE(data)), 10)
}

// ModTimeToken is the staleness token for local files: mtime in Unix seconds.
func ModTimeToken(unixSeconds int64) string {
	return strconv.FormatInt(unixSeconds, 10)
}
