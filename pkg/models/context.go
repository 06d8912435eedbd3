package models

// ContextKind identifies the HTML syntactic construct enclosing a
// reflection.
type ContextKind string

const (
	KindPlainText      ContextKind = "plain_text"
	KindTitleText      ContextKind = "title_text"
	KindTagName        ContextKind = "tag_name"
	KindPartialTagName ContextKind = "partial_tag_name"
	KindAttributeValue ContextKind = "attribute_value"
	KindScriptBody     ContextKind = "script_body"
	KindComment        ContextKind = "comment"
	// KindFiltered marks a reflection whose literal "<script" keyword
	// the target strips or encodes. It is observed during
	// verification, never by the positional classifier.
	KindFiltered ContextKind = "filtered"
	KindUnknown  ContextKind = "unknown"
)

// QuoteStyle is the quoting of an attribute value reflection.
type QuoteStyle string

const (
	QuoteNone   QuoteStyle = "none"
	QuoteSingle QuoteStyle = "single"
	QuoteDouble QuoteStyle = "double"
)

// ReflectionContext describes where in the markup a token landed.
type ReflectionContext struct {
	Kind    ContextKind
	Quote   QuoteStyle // meaningful for KindAttributeValue only
	Tag     string     // lowercase name of the enclosing tag, if any
	Offset  int        // byte offset of the token occurrence
	Excerpt string     // surrounding markup, for diagnostics
}

// SameStructure reports whether two reflections sit at the identical
// structural location: same variant kind, same enclosing tag, same
// quoting. Offsets and excerpts are ignored.
func (c ReflectionContext) SameStructure(other ReflectionContext) bool {
	return c.Kind == other.Kind && c.Tag == other.Tag && c.Quote == other.Quote
}

func (c ReflectionContext) String() string {
	s := string(c.Kind)
	if c.Kind == KindAttributeValue {
		s += "(" + string(c.Quote) + ")"
	}
	if c.Tag != "" {
		s += " in <" + c.Tag + ">"
	}
	return s
}
