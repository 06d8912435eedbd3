package injection

import (
	"strings"
	"testing"

	"github.com/kvasir-sec/reflectix/pkg/models"
)

func TestSynthesizePerContext(t *testing.T) {
	witness := "wABC123"
	alert := "alert('wABC123')"

	cases := []struct {
		name      string
		rctx      models.ReflectionContext
		payload   string
		signature string
	}{
		{
			"title",
			models.ReflectionContext{Kind: models.KindTitleText, Tag: "title"},
			"</title><script>" + alert + "</script>",
			"</title>",
		},
		{
			"tag name",
			models.ReflectionContext{Kind: models.KindTagName},
			"script>" + alert + "</script",
			"script>",
		},
		{
			"partial tag name",
			models.ReflectionContext{Kind: models.KindPartialTagName},
			"/><script>" + alert + "</script>",
			"/><script>",
		},
		{
			"single quoted attribute",
			models.ReflectionContext{Kind: models.KindAttributeValue, Quote: models.QuoteSingle},
			"'></pre><script>" + alert + "</script>",
			"'></pre>",
		},
		{
			"double quoted attribute",
			models.ReflectionContext{Kind: models.KindAttributeValue, Quote: models.QuoteDouble},
			`"></pre><script>` + alert + "</script>",
			`"></pre>`,
		},
		{
			"unquoted attribute",
			models.ReflectionContext{Kind: models.KindAttributeValue, Quote: models.QuoteNone},
			"><script>" + alert + "</script>",
			"><script>",
		},
		{
			"plain text",
			models.ReflectionContext{Kind: models.KindPlainText},
			"><script>" + alert + "</script>",
			"><script>",
		},
		{
			"script body",
			models.ReflectionContext{Kind: models.KindScriptBody, Tag: "script"},
			";" + alert + ";//",
			";" + alert,
		},
		{
			"comment",
			models.ReflectionContext{Kind: models.KindComment},
			"--><script>" + alert + "</script>",
			"--><script>",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidates := Synthesize(tc.rctx, witness)
			if len(candidates) == 0 {
				t.Fatal("no candidates")
			}
			first := candidates[0]
			if first.Payload != tc.payload {
				t.Errorf("payload = %q, want %q", first.Payload, tc.payload)
			}
			if first.Signature != tc.signature {
				t.Errorf("signature = %q, want %q", first.Signature, tc.signature)
			}
			if !strings.HasPrefix(first.Payload, first.Signature) {
				t.Errorf("payload %q does not start with its signature %q", first.Payload, first.Signature)
			}
			if first.Witness != witness {
				t.Errorf("witness = %q, want %q", first.Witness, witness)
			}
		})
	}
}

func TestSynthesizeScriptBodyHasNoScriptTag(t *testing.T) {
	candidates := Synthesize(models.ReflectionContext{Kind: models.KindScriptBody}, "wX")
	if candidates[0].NeedsScriptTag {
		t.Error("script body payload must not depend on a literal <script")
	}
}

func TestFilteredCandidatesKeepContextBreakout(t *testing.T) {
	cases := []struct {
		name   string
		rctx   models.ReflectionContext
		prefix string
	}{
		{"title", models.ReflectionContext{Kind: models.KindTitleText}, "</title><svg"},
		{"single quote", models.ReflectionContext{Kind: models.KindAttributeValue, Quote: models.QuoteSingle}, "'><svg"},
		{"double quote", models.ReflectionContext{Kind: models.KindAttributeValue, Quote: models.QuoteDouble}, `"><svg`},
		{"unquoted", models.ReflectionContext{Kind: models.KindAttributeValue, Quote: models.QuoteNone}, "><svg"},
		{"comment", models.ReflectionContext{Kind: models.KindComment}, "--><svg"},
		{"plain text", models.ReflectionContext{Kind: models.KindPlainText}, "<svg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidates := FilteredCandidates(tc.rctx, "wX")
			if len(candidates) == 0 {
				t.Fatal("no candidates")
			}
			if !strings.HasPrefix(candidates[0].Payload, tc.prefix) {
				t.Errorf("payload = %q, want prefix %q", candidates[0].Payload, tc.prefix)
			}
			for _, cand := range candidates {
				if cand.NeedsScriptTag {
					t.Errorf("filtered vector %q must not depend on <script", cand.Payload)
				}
				if strings.Contains(strings.ToLower(cand.Payload), "<script") {
					t.Errorf("filtered vector %q still contains <script", cand.Payload)
				}
			}
		})
	}
}

func TestTokenPairDistinct(t *testing.T) {
	for i := 0; i < 100; i++ {
		t1, t2 := tokenPair()
		if t1 == t2 {
			t.Fatal("token pair collided")
		}
		if len(t1) != 12 || len(t2) != 12 {
			t.Fatalf("token lengths = %d, %d, want 12", len(t1), len(t2))
		}
	}
}

func TestWitnessShape(t *testing.T) {
	w := newWitness()
	if len(w) != 7 || w[0] != 'w' {
		t.Errorf("witness = %q, want w followed by 6 random characters", w)
	}
}
