package issuance

import (
	"math/rand/v2"
	"time"
)

// DefaultIDPrefix 是未指定前缀时的证书编号前缀。
const DefaultIDPrefix = "CERT-"

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// IDGenerator 生成证书编号 <prefix><YYYYMMDD>-<suffix>。
type IDGenerator interface {
	NewID(prefix string, now time.Time) string
}

// RandomIDs draws a 4 character base36 suffix. Uniqueness is probabilistic.
type RandomIDs struct{}

func (RandomIDs) NewID(prefix string, now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = base36[rand.IntN(len(base36))]
	}
	return FormatID(prefix, now, string(suffix))
}

// FormatID 拼接编号；prefix 为空时使用 DefaultIDPrefix。
func FormatID(prefix string, now time.Time, suffix string) string {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	return prefix + now.Format("20060102") + "-" + suffix
}
