package fingerprint

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// HashProbe maps hashes of one static file to the product versions
// shipping that exact file.
type HashProbe struct {
	Path   string            `json:"path"`
	Hashes map[string]string `json:"hashes"` // md5 hex -> version
}

// detectVersions fetches each probe file under the target root and
// looks its MD5 up in the database. Returned versions are sorted and
// deduplicated.
func (b *base) detectVersions(ctx context.Context, root string, probes []HashProbe) []string {
	seen := make(map[string]bool)
	var versions []string

	for _, probe := range probes {
		if ctx.Err() != nil {
			break
		}
		resp, err := b.get(ctx, joinURL(root, probe.Path), false)
		if err != nil || !resp.IsSuccess() {
			continue
		}

		sum := md5.Sum([]byte(strings.TrimSpace(resp.Body)))
		if version, ok := probe.Hashes[hex.EncodeToString(sum[:])]; ok && !seen[version] {
			seen[version] = true
			versions = append(versions, version)
		}
	}

	sort.Strings(versions)
	return versions
}
