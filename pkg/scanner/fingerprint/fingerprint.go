package fingerprint

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync/atomic"

	"github.com/kvasir-sec/reflectix/pkg/logger"
	"github.com/kvasir-sec/reflectix/pkg/models"
	"github.com/kvasir-sec/reflectix/pkg/network"
	"github.com/kvasir-sec/reflectix/pkg/scanner"
)

// Detection is the evidence shape handed to the persister for every
// fingerprinting hit.
type Detection struct {
	Name       string   `json:"name"`
	Versions   []string `json:"versions"`
	Categories []string `json:"categories"`
	Groups     []string `json:"groups"`
}

func (d Detection) JSON() string {
	b, _ := json.Marshal(d)
	return string(b)
}

// base carries what every fingerprinting module needs: transport,
// persister, logging and the shared error counter.
type base struct {
	client    *network.Client
	persister scanner.Persister
	logger    *logger.Logger
	netErrors atomic.Int64
}

// NetworkErrors returns the running total of transport failures.
func (b *base) NetworkErrors() int64 { return b.netErrors.Load() }

// get fetches one URL. Transport failures are counted and returned;
// callers treat them as "nothing detected here".
func (b *base) get(ctx context.Context, rawURL string, followRedirects bool) (*models.Response, error) {
	req, err := models.NewRequest(models.MethodGET, rawURL, "")
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Send(ctx, req, followRedirects)
	if err != nil {
		var terr *network.TransportError
		if errors.As(err, &terr) {
			b.netErrors.Add(1)
		}
		return nil, err
	}
	return resp, nil
}

// joinURL resolves a probe path against the target root.
func joinURL(root, ref string) string {
	base, err := url.Parse(root)
	if err != nil {
		return root
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return root
	}
	return base.ResolveReference(refURL).String()
}
