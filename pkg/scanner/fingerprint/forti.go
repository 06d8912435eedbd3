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

var fortiProductRe = regexp.MustCompile(`Forti\w+`)

// fortiProbe maps a path whose presence identifies a specific Fortinet
// product. The language bundles below only exist on the matching
// appliance and are served as javascript.
type fortiProbe struct {
	path    string
	product string
}

var fortiProbes = []fortiProbe{
	{"remote/fgt_lang?lang=en", "Fortinet SSL-VPN"},
	{"remote/fgt_lang?lang=fr", "Fortinet SSL-VPN"},
	{"fgt_lang.js?paths=lang/en:com_info", "FortiWeb"},
	{"fgt_lang.js?paths=lang/en:help", "FortiWeb"},
}

// Forti detects Fortinet appliances through their language bundles,
// admin pages and favicon.
type Forti struct {
	base
	favicons []FaviconEntry
}

func NewForti(client *network.Client, persister scanner.Persister, log *logger.Logger) *Forti {
	f := &Forti{favicons: defaultFavicons()}
	f.client = client
	f.persister = persister
	f.logger = log
	return f
}

func (f *Forti) Name() string { return "forti" }

func (f *Forti) MustAttack(req *models.Request) bool {
	return req.Method == models.MethodGET
}

func (f *Forti) Attack(ctx context.Context, req *models.Request) error {
	root, err := scanner.RootURL(req.URL)
	if err != nil {
		return nil
	}

	name := f.checkBundles(ctx, root)
	if name == "" {
		name = f.checkPages(ctx, root)
	}
	if name == "" {
		if fav := f.faviconLookup(ctx, root, f.favicons); strings.Contains(fav, "Forti") {
			name = fav
		}
	}
	if name == "" {
		f.logger.V("No Fortinet product detected on %s", root)
		return ctx.Err()
	}

	f.logger.Info("%s detected on %s", name, root)
	f.persister.RecordAdditionalInfo(req.ID, "", Detection{
		Name:       name,
		Versions:   []string{},
		Categories: []string{"Network Equipment"},
		Groups:     []string{"Content"},
	}.JSON())
	return ctx.Err()
}

func (f *Forti) checkBundles(ctx context.Context, root string) string {
	for _, probe := range fortiProbes {
		if ctx.Err() != nil {
			return ""
		}
		resp, err := f.get(ctx, joinURL(root, probe.path), false)
		if err != nil || !resp.IsSuccess() {
			continue
		}
		if strings.Contains(resp.ContentType(), "javascript") {
			return probe.product
		}
	}
	return ""
}

// checkPages falls back to the admin and login pages, looking for a
// Forti-branded title or body.
func (f *Forti) checkPages(ctx context.Context, root string) string {
	for _, path := range []string{"", "admin/", "p/login/", "remote/login"} {
		if ctx.Err() != nil {
			return ""
		}
		resp, err := f.get(ctx, joinURL(root, path), true)
		if err != nil || !resp.IsSuccess() {
			continue
		}
		if name := fortiProductFromPage(resp.Body); name != "" {
			return name
		}
	}
	return ""
}

func fortiProductFromPage(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if m := fortiProductRe.FindString(title); m != "" {
		return m
	}
	return fortiProductRe.FindString(body)
}
