package fingerprint

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kvasir-sec/reflectix/pkg/logger"
	"github.com/kvasir-sec/reflectix/pkg/models"
	"github.com/kvasir-sec/reflectix/pkg/network"
	"github.com/kvasir-sec/reflectix/pkg/scanner"
)

var spipVersionRe = regexp.MustCompile(`SPIP\s*([\d.]+)`)

// SPIP detects the SPIP CMS through its generator meta tag, dedicated
// response headers and well-known paths.
type SPIP struct {
	base
	hashProbes []HashProbe
}

func NewSPIP(client *network.Client, persister scanner.Persister, log *logger.Logger) *SPIP {
	s := &SPIP{hashProbes: defaultSPIPHashes()}
	s.client = client
	s.persister = persister
	s.logger = log
	return s
}

func (s *SPIP) Name() string { return "spip_enum" }

func (s *SPIP) MustAttack(req *models.Request) bool {
	return req.Method == models.MethodGET
}

func (s *SPIP) Attack(ctx context.Context, req *models.Request) error {
	root, err := scanner.RootURL(req.URL)
	if err != nil {
		return nil
	}

	resp, err := s.get(ctx, root, true)
	if err != nil {
		return ctx.Err()
	}

	metaVersion, detected := s.checkSPIP(resp)
	if !detected {
		s.logger.V("No SPIP detected on %s", root)
		return nil
	}

	versions := s.detectVersions(ctx, root, s.hashProbes)
	if metaVersion != "" && !contains(versions, metaVersion) {
		versions = append(versions, metaVersion)
	}

	s.logger.Info("SPIP detected on %s (versions: %v)", root, versions)
	s.persister.RecordAdditionalInfo(req.ID, "", Detection{
		Name:       "SPIP",
		Versions:   versions,
		Categories: []string{"CMS SPIP"},
		Groups:     []string{"Content"},
	}.JSON())
	return ctx.Err()
}

// checkSPIP inspects one response for SPIP indicators and returns the
// generator version when the meta tag carries one.
func (s *SPIP) checkSPIP(resp *models.Response) (string, bool) {
	for _, header := range []string{"X-Spip-Cache", "X-Spip-Version"} {
		if resp.Header.Get(header) != "" {
			return "", true
		}
	}
	if strings.Contains(resp.Header.Get("Composed-By"), "SPIP") {
		return "", true
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.Body))
	if err == nil {
		content, found := "", false
		doc.Find(`meta[name="generator"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if c, ok := sel.Attr("content"); ok && strings.Contains(c, "SPIP") {
				content, found = c, true
				return false
			}
			return true
		})
		if found {
			if m := spipVersionRe.FindStringSubmatch(content); m != nil {
				return m[1], true
			}
			return "", true
		}
	}

	if strings.Contains(resp.Body, "/ecrire/") || strings.Contains(resp.Body, "/squelettes/") {
		return "", true
	}
	return "", false
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
