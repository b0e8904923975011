// Package search turns a natural-language question into a ranked set of
// document chunks and source references.
//
// A query passes through three refinements before it reaches the vector
// store. Lexical expansion appends domain synonyms (legal, academic,
// technical, business, medical, financial vocabulary) so phrasing
// differences between question and document still meet in embedding
// space. Intent detection classifies the question shape (definition,
// how-to, temporal, and so on). The relevance threshold then adapts:
// terse keyword queries are held to a tighter distance bound, while
// detected intents and long questions loosen it for recall.
//
// Results below the threshold become chunks for generation plus a
// deduplicated source list capped at a handful of documents. When the
// store has matches but none pass, the single best document is offered
// as a soft fallback rather than returning nothing.
package search
