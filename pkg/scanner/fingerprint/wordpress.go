package fingerprint

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kvasir-sec/reflectix/pkg/logger"
	"github.com/kvasir-sec/reflectix/pkg/models"
	"github.com/kvasir-sec/reflectix/pkg/network"
	"github.com/kvasir-sec/reflectix/pkg/scanner"
)

var wpIndicators = []string{
	"wp-content",
	"wp-json",
	"wp-includes",
	"wp-admin",
	`generator" content="wordpress`,
	"wp-embed-responsive",
}

var readmeVersionRe = regexp.MustCompile(`(?i)tag:\s*([\d.]+)`)

// WordPress detects a WordPress install, its core version (by static
// file hashes) and the presence of known plugins and themes (by their
// readme files).
type WordPress struct {
	base
	hashProbes []HashProbe
	plugins    []string
	themes     []string
}

func NewWordPress(client *network.Client, persister scanner.Persister, log *logger.Logger) *WordPress {
	w := &WordPress{
		hashProbes: defaultWordPressHashes(),
		plugins:    defaultWordPressPlugins(),
		themes:     defaultWordPressThemes(),
	}
	w.client = client
	w.persister = persister
	w.logger = log
	return w
}

func (w *WordPress) Name() string { return "wp_enum" }

func (w *WordPress) MustAttack(req *models.Request) bool {
	return req.Method == models.MethodGET
}

func (w *WordPress) Attack(ctx context.Context, req *models.Request) error {
	root, err := scanner.RootURL(req.URL)
	if err != nil {
		return nil
	}

	detected, err := w.checkWordPress(ctx, root)
	if err != nil {
		return ctxErrOnly(ctx)
	}
	if !detected {
		w.logger.V("No WordPress detected on %s", root)
		return nil
	}

	versions := w.detectVersions(ctx, root, w.hashProbes)
	w.logger.Info("WordPress detected on %s (versions: %v)", root, versions)
	w.persister.RecordAdditionalInfo(req.ID, "", Detection{
		Name:       "WordPress",
		Versions:   versions,
		Categories: []string{"CMS"},
		Groups:     []string{"Content"},
	}.JSON())

	w.enumerateAddons(ctx, req, root, "wp-content/plugins/%s/readme.txt", w.plugins, "WordPress plugins")
	w.enumerateAddons(ctx, req, root, "wp-content/themes/%s/readme.txt", w.themes, "WordPress themes")
	return ctxErrOnly(ctx)
}

func (w *WordPress) checkWordPress(ctx context.Context, root string) (bool, error) {
	resp, err := w.get(ctx, root, true)
	if err != nil {
		return false, err
	}
	body := strings.ToLower(resp.Body)
	for _, indicator := range wpIndicators {
		if strings.Contains(body, indicator) {
			return true, nil
		}
	}
	return false, nil
}

func (w *WordPress) enumerateAddons(ctx context.Context, req *models.Request, root, pathFmt string, names []string, category string) {
	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		resp, err := w.get(ctx, joinURL(root, fmt.Sprintf(pathFmt, name)), false)
		if err != nil {
			continue
		}

		switch {
		case resp.IsSuccess():
			version := ""
			if m := readmeVersionRe.FindStringSubmatch(resp.Body); m != nil {
				version = m[1]
			} else {
				w.logger.VV("readme.txt for %s is not in a recognized format", name)
			}

			w.logger.Info("Found %s: %s %s", category, name, version)
			w.persister.RecordAdditionalInfo(req.ID, "", Detection{
				Name:       name,
				Versions:   []string{version},
				Categories: []string{category},
				Groups:     []string{"Add-ons"},
			}.JSON())
		case resp.StatusCode == 403:
			// Forbidden still proves the add-on directory exists.
			w.logger.V("Found %s (access forbidden): %s", category, name)
			w.persister.RecordAdditionalInfo(req.ID, "", Detection{
				Name:       name,
				Versions:   []string{""},
				Categories: []string{category},
				Groups:     []string{"Add-ons"},
			}.JSON())
		}
	}
}

func ctxErrOnly(ctx context.Context) error {
	return ctx.Err()
}
