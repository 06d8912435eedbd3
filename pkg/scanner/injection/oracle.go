package injection

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/kvasir-sec/reflectix/pkg/logger"
	"github.com/kvasir-sec/reflectix/pkg/models"
	"github.com/kvasir-sec/reflectix/pkg/network"
)

// Verdict is the oracle's decision about one parameter.
type Verdict int

const (
	// NotReflected: neither token came back.
	NotReflected Verdict = iota
	// Inconclusive: asymmetric or structurally inconsistent result,
	// or a transport failure. The parameter is skipped and can never
	// produce a finding.
	Inconclusive
	// Reflected: both tokens came back at the same structural
	// location.
	Reflected
)

func (v Verdict) String() string {
	switch v {
	case NotReflected:
		return "not_reflected"
	case Inconclusive:
		return "inconclusive"
	case Reflected:
		return "reflected"
	}
	return "unknown"
}

// ProbeResult carries the verdict plus, on Reflected, the context and
// body of the first tokenized response for the next stage.
type ProbeResult struct {
	Verdict Verdict
	Context models.ReflectionContext
	Body    string
}

// Oracle decides whether a parameter's value is genuinely and
// unambiguously reflected. Two independently random tokens are sent;
// only a reflection reproducible at the identical structural location
// under both is trusted. Anything the tokens merely resemble in
// unrelated page content fails the symmetry test.
type Oracle struct {
	client    *network.Client
	logger    *logger.Logger
	netErrors *atomic.Int64
}

func NewOracle(client *network.Client, log *logger.Logger, netErrors *atomic.Int64) *Oracle {
	return &Oracle{client: client, logger: log, netErrors: netErrors}
}

// Probe runs the two-token reflection check for one parameter. All
// other parameters keep their original values.
func (o *Oracle) Probe(ctx context.Context, req *models.Request, param string) (ProbeResult, error) {
	t1, t2 := tokenPair()

	body1, err := o.send(ctx, req, param, t1)
	if err != nil {
		return o.transportVerdict(err)
	}
	body2, err := o.send(ctx, req, param, t2)
	if err != nil {
		return o.transportVerdict(err)
	}

	idx1 := strings.Index(body1, t1)
	idx2 := strings.Index(body2, t2)

	switch {
	case idx1 == -1 && idx2 == -1:
		o.logger.Detail("Parameter %q: not reflected", param)
		return ProbeResult{Verdict: NotReflected}, nil
	case idx1 == -1 || idx2 == -1:
		// One token echoed, the other not: caching or look-alike
		// static content. False-positive guard trips.
		o.logger.Detail("Parameter %q: asymmetric reflection, skipping", param)
		return ProbeResult{Verdict: Inconclusive}, nil
	}

	ctx1 := Classify(body1, idx1, len(t1))
	ctx2 := Classify(body2, idx2, len(t2))
	if !ctx1.SameStructure(ctx2) {
		o.logger.Detail("Parameter %q: contexts differ (%s vs %s), skipping", param, ctx1, ctx2)
		return ProbeResult{Verdict: Inconclusive}, nil
	}

	o.logger.Detail("Parameter %q: reflected at %s", param, ctx1)
	return ProbeResult{Verdict: Reflected, Context: ctx1, Body: body1}, nil
}

func (o *Oracle) send(ctx context.Context, req *models.Request, param, token string) (string, error) {
	probe := req.WithParamValue(param, token)
	resp, err := o.client.Send(ctx, probe, false)
	if err != nil {
		return "", err
	}
	return resp.Body, nil
}

func (o *Oracle) transportVerdict(err error) (ProbeResult, error) {
	var terr *network.TransportError
	if errors.As(err, &terr) {
		o.netErrors.Add(1)
		o.logger.Detail("Probe request failed: %v", terr)
		return ProbeResult{Verdict: Inconclusive}, nil
	}
	return ProbeResult{}, err
}
