package api

import (
	"encoding/hex"
	"strconv"

	"github.com/zeebo/blake3"
)

// ContentKey returns a deterministic BLAKE3 key for a report's identity and
// text. Two reports share a key only when id, content and summary match, so a
// restored version under the same id yields a new key.
func (r Report) ContentKey() string {
	h := blake3.New()

	h.Write([]byte(strconv.FormatInt(r.ID, 10)))
	h.Write([]byte{0})

	h.Write([]byte(r.Content))
	h.Write([]byte{0})

	h.Write([]byte(r.Summary))

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}
