package orders

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	codeRandomLen = 6
	// 0/O and 1/I are excluded to keep codes readable over the phone.
	codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateCode builds an order code of the form PREFIX-YYYYMMDD-XXXXXX.
// The random suffix keeps the code guessable-resistant; uniqueness is
// enforced by the database index and the create retry loop.
func GenerateCode(prefix string, now time.Time) (string, error) {
	buf := make([]byte, codeRandomLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code suffix: %w", err)
	}
	suffix := make([]byte, codeRandomLen)
	for i, b := range buf {
		suffix[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.UTC().Format("20060102"), string(suffix)), nil
}
