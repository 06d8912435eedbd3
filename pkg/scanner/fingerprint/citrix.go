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

var ctxTitleClassRe = regexp.MustCompile(`^_ctxstxt_(.*)$`)

// Citrix detects Citrix gateway appliances through their logon page
// markup and favicon.
type Citrix struct {
	base
	favicons []FaviconEntry
}

func NewCitrix(client *network.Client, persister scanner.Persister, log *logger.Logger) *Citrix {
	c := &Citrix{favicons: defaultFavicons()}
	c.client = client
	c.persister = persister
	c.logger = log
	return c
}

func (c *Citrix) Name() string { return "citrix" }

func (c *Citrix) MustAttack(req *models.Request) bool {
	return req.Method == models.MethodGET
}

func (c *Citrix) Attack(ctx context.Context, req *models.Request) error {
	root, err := scanner.RootURL(req.URL)
	if err != nil {
		return nil
	}

	name := c.checkCitrix(ctx, root)
	if name == "" {
		if fav := c.faviconLookup(ctx, root, c.favicons); strings.Contains(fav, "Citrix") {
			name = fav
		}
	}
	if name == "" {
		c.logger.V("No Citrix product detected on %s", root)
		return ctx.Err()
	}

	c.logger.Info("%s detected on %s", name, root)
	c.persister.RecordAdditionalInfo(req.ID, "", Detection{
		Name:       name,
		Versions:   []string{},
		Categories: []string{"Network Equipment"},
		Groups:     []string{"Content"},
	}.JSON())
	return ctx.Err()
}

func (c *Citrix) checkCitrix(ctx context.Context, root string) string {
	for _, path := range []string{"logon/LogonPoint/"} {
		if ctx.Err() != nil {
			return ""
		}
		resp, err := c.get(ctx, joinURL(root, path), false)
		if err != nil || !resp.IsSuccess() {
			continue
		}
		if name := citrixProductFromPage(resp.Body); name != "" {
			return name
		}
	}
	return ""
}

// citrixProductFromPage extracts the product name from the logon page:
// either the localization class on the title tag or a Citrix-branded
// title text.
func citrixProductFromPage(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	title := doc.Find("title").First()
	if class, ok := title.Attr("class"); ok {
		for _, field := range strings.Fields(class) {
			if m := ctxTitleClassRe.FindStringSubmatch(field); m != nil {
				return m[1]
			}
		}
	}

	if text := strings.TrimSpace(title.Text()); strings.Contains(text, "Citrix") {
		return text
	}
	return ""
}
