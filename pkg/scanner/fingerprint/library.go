package fingerprint

import (
	_ "embed"
	"encoding/json"
	"log"
	"strings"
)

//go:embed wordpress_hashes.json
var wordpressHashesJSON []byte

//go:embed spip_hashes.json
var spipHashesJSON []byte

//go:embed favicons.json
var faviconsJSON []byte

//go:embed wordpress_plugins.txt
var wordpressPluginsTxt string

//go:embed wordpress_themes.txt
var wordpressThemesTxt string

// defaultWordPressHashes returns the built-in file-hash probes for
// WordPress core version detection
func defaultWordPressHashes() []HashProbe {
	return loadHashProbes(wordpressHashesJSON, "wordpress")
}

// defaultSPIPHashes returns the built-in file-hash probes for SPIP
// version detection
func defaultSPIPHashes() []HashProbe {
	return loadHashProbes(spipHashesJSON, "spip")
}

func loadHashProbes(raw []byte, name string) []HashProbe {
	var probes []HashProbe
	if err := json.Unmarshal(raw, &probes); err != nil {
		log.Printf("Error loading %s hashes: %v", name, err)
		return []HashProbe{}
	}
	return probes
}

// defaultFavicons returns the built-in favicon hash database
func defaultFavicons() []FaviconEntry {
	var entries []FaviconEntry
	if err := json.Unmarshal(faviconsJSON, &entries); err != nil {
		log.Printf("Error loading favicons: %v", err)
		return []FaviconEntry{}
	}
	return entries
}

// defaultWordPressPlugins returns the built-in plugin slug wordlist
func defaultWordPressPlugins() []string {
	return loadWordlist(wordpressPluginsTxt)
}

// defaultWordPressThemes returns the built-in theme slug wordlist
func defaultWordPressThemes() []string {
	return loadWordlist(wordpressThemesTxt)
}

func loadWordlist(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
