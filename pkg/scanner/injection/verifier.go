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

// VerifyOutcome is the result of sending one payload candidate.
type VerifyOutcome struct {
	Confirmed      bool
	ScriptFiltered bool // payload needed <script and the target stripped it
	StatusCode     int
}

// Verifier confirms that a candidate's breakout actually survives the
// target's output encoding.
type Verifier struct {
	client    *network.Client
	logger    *logger.Logger
	netErrors *atomic.Int64
}

func NewVerifier(client *network.Client, log *logger.Logger, netErrors *atomic.Int64) *Verifier {
	return &Verifier{client: client, logger: log, netErrors: netErrors}
}

// Verify sends the request with the parameter set to the candidate's
// full payload and scans the response for the unescaped signature. A
// transport failure is counted and reported as a non-confirmation.
func (v *Verifier) Verify(ctx context.Context, req *models.Request, param string, cand PayloadCandidate) (VerifyOutcome, error) {
	probe := req.WithParamValue(param, cand.Payload)

	resp, err := v.client.Send(ctx, probe, false)
	if err != nil {
		var terr *network.TransportError
		if errors.As(err, &terr) {
			v.netErrors.Add(1)
			v.logger.Detail("Verification request failed: %v", terr)
			return VerifyOutcome{}, nil
		}
		return VerifyOutcome{}, err
	}

	out := VerifyOutcome{StatusCode: resp.StatusCode}

	if indexUnescaped(resp.Body, cand.Payload) != -1 {
		out.Confirmed = true
		v.logger.Detail("Confirmed: %s (signature %q)", cand.Description, cand.Signature)
		return out, nil
	}

	if cand.NeedsScriptTag {
		out.ScriptFiltered = scriptFiltered(resp.Body, cand.Witness)
		if out.ScriptFiltered {
			v.logger.Detail("Keyword filter active: literal <script missing near the reflection")
		}
	}
	return out, nil
}

// indexUnescaped finds a verbatim occurrence of the payload: tag
// letters match case-insensitively, punctuation must match exactly. An
// entity-encoded rendition (&lt; for <) never matches, which is how a
// correctly escaping target fails verification.
func indexUnescaped(body, payload string) int {
	if payload == "" {
		return -1
	}
	lb := strings.ToLower(body)
	lp := strings.ToLower(payload)

	from := 0
	for {
		i := strings.Index(lb[from:], lp)
		if i == -1 {
			return -1
		}
		i += from
		if punctuationMatches(body[i:i+len(payload)], payload) {
			return i
		}
		from = i + 1
	}
}

func punctuationMatches(found, payload string) bool {
	for k := 0; k < len(payload); k++ {
		c := payload[k]
		if isASCIILetter(c) {
			continue
		}
		if found[k] != c {
			return false
		}
	}
	return true
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// scriptFiltered reports whether the payload's witness tag made it
// into the page while the literal "<script" keyword did not survive
// anywhere near it: the target runs a keyword filter rather than a
// real encoder.
func scriptFiltered(body, witness string) bool {
	wi := strings.Index(body, witness)
	if wi == -1 {
		return false
	}
	window := 256
	start := max(0, wi-window)
	end := min(len(body), wi+window)
	return !strings.Contains(strings.ToLower(body[start:end]), "<script")
}
