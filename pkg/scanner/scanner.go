package scanner

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kvasir-sec/reflectix/pkg/models"
)

// Module is the capability every attack module implements. Modules are
// stateless between requests except for their network-error counter.
type Module interface {
	Name() string
	// MustAttack reports whether the module has anything to do for
	// this request.
	MustAttack(req *models.Request) bool
	// Attack runs the module against one request. It never returns an
	// error under normal operation; only context cancellation
	// surfaces.
	Attack(ctx context.Context, req *models.Request) error
	// NetworkErrors returns the running total of transport failures.
	NetworkErrors() int64
}

// Persister receives findings. Implementations must be safe for
// concurrent use by independent attack tasks.
type Persister interface {
	RecordVulnerability(requestID, parameter, evidence string)
	RecordAdditionalInfo(requestID, parameter, evidence string)
	RecordAnomaly(requestID, parameter, evidence string)
}

// RootURL derives scheme://host/ from any URL of the target.
func RootURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	u.Path = "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
