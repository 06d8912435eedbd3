package injection

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/kvasir-sec/reflectix/pkg/logger"
	"github.com/kvasir-sec/reflectix/pkg/models"
	"github.com/kvasir-sec/reflectix/pkg/network"
	"github.com/kvasir-sec/reflectix/pkg/scanner"
)

// Options gate which parameters the module attacks.
type Options struct {
	// AttackLevel 1 attacks query-string parameters only; level 2
	// adds body parameters.
	AttackLevel int
	// DoPost must also be set for body parameters to be attacked.
	DoPost bool
}

// Module is the reflected cross-site-scripting attack module. One
// instance drives a single target request; instances for different
// requests may run concurrently and share nothing but the persister.
type Module struct {
	client    *network.Client
	persister scanner.Persister
	logger    *logger.Logger
	opts      Options

	oracle    *Oracle
	verifier  *Verifier
	netErrors atomic.Int64
}

func NewModule(client *network.Client, persister scanner.Persister, log *logger.Logger, opts Options) *Module {
	if opts.AttackLevel < 1 {
		opts.AttackLevel = 1
	}
	m := &Module{
		client:    client,
		persister: persister,
		logger:    log,
		opts:      opts,
	}
	m.oracle = NewOracle(client, log, &m.netErrors)
	m.verifier = NewVerifier(client, log, &m.netErrors)
	return m
}

func (m *Module) Name() string { return "xss" }

// NetworkErrors returns the running total of transport failures across
// all parameter pipelines of this instance.
func (m *Module) NetworkErrors() int64 { return m.netErrors.Load() }

// MustAttack reports whether the request carries any attackable
// parameter under the configured gates.
func (m *Module) MustAttack(req *models.Request) bool {
	return len(m.attackableParams(req)) > 0
}

func (m *Module) attackableParams(req *models.Request) []string {
	names := req.ParamNames(models.LocationQuery)
	if m.opts.DoPost && m.opts.AttackLevel >= 2 {
		names = append(names, req.ParamNames(models.LocationBody)...)
	}
	return names
}

// Attack runs the oracle -> classifier -> synthesizer -> verifier
// pipeline for every attackable parameter, sequentially. Each
// parameter is probed at most once per pass. Cancellation is honored
// between parameters only, so an in-flight verification always runs
// to completion.
func (m *Module) Attack(ctx context.Context, req *models.Request) error {
	attacked := make(map[string]bool)

	for _, param := range m.attackableParams(req) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if attacked[param] {
			continue
		}
		attacked[param] = true

		if err := m.attackParam(ctx, req, param); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) attackParam(ctx context.Context, req *models.Request, param string) error {
	m.logger.Section(fmt.Sprintf("Probing parameter: %s", param))

	result, err := m.oracle.Probe(ctx, req, param)
	if err != nil {
		return err
	}
	if result.Verdict != Reflected {
		return nil
	}

	witness := newWitness()
	candidates := Synthesize(result.Context, witness)

	anomalyRecorded := false
	filteredTried := false

	for i := 0; i < len(candidates); i++ {
		cand := candidates[i]
		m.logger.VV("Trying payload: %s", cand.Payload)

		outcome, err := m.verifier.Verify(ctx, req, param, cand)
		if err != nil {
			return err
		}

		if outcome.StatusCode >= 500 && !anomalyRecorded {
			anomalyRecorded = true
			m.persister.RecordAnomaly(req.ID, param,
				fmt.Sprintf("HTTP %d while injecting parameter %q", outcome.StatusCode, param))
		}

		if outcome.Confirmed {
			evidence := cand.Payload
			if idx := strings.Index(evidence, cand.Signature); idx > 0 {
				evidence = evidence[idx:]
			}
			m.logger.Info("XSS confirmed: parameter %q via %s", param, cand.Description)
			m.persister.RecordVulnerability(req.ID, param, evidence)
			return nil
		}

		if outcome.ScriptFiltered && !filteredTried {
			// The keyword filter substitution takes priority over any
			// remaining tag-based template.
			filteredTried = true
			m.logger.V("Parameter %q: context downgraded to %s, switching vectors", param, models.KindFiltered)
			candidates = append(FilteredCandidates(result.Context, witness), candidates[i+1:]...)
			i = -1
		}
	}

	// Reflected but unexploitable: not reported as a vulnerability.
	return nil
}
