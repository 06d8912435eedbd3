package fingerprint

import (
	"context"
	"encoding/base64"

	"github.com/spaolacci/murmur3"
)

// FaviconEntry ties a murmur3 favicon hash to a product name.
type FaviconEntry struct {
	Hash int32  `json:"hash"`
	Name string `json:"name"`
}

// mmh3Hash32 computes the Shodan-style favicon hash: murmur3 over the
// standard base64 encoding of the icon, wrapped at 76 columns.
func mmh3Hash32(raw []byte) int32 {
	h := murmur3.New32()
	h.Write(wrappedBase64(raw))
	return int32(h.Sum32())
}

func wrappedBase64(raw []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(raw)
	var out []byte
	for i := 0; i < len(encoded); i += 76 {
		end := min(len(encoded), i+76)
		out = append(out, encoded[i:end]...)
		out = append(out, '\n')
	}
	return out
}

// faviconLookup fetches /favicon.ico and matches its hash against the
// known-device database. Empty name means no match.
func (b *base) faviconLookup(ctx context.Context, root string, db []FaviconEntry) string {
	resp, err := b.get(ctx, joinURL(root, "favicon.ico"), true)
	if err != nil || !resp.IsSuccess() || resp.Body == "" {
		return ""
	}

	hash := mmh3Hash32([]byte(resp.Body))
	for _, entry := range db {
		if entry.Hash == hash {
			return entry.Name
		}
	}
	return ""
}
