// Package answer produces a grounded reply to a question from retrieved
// chunks. It builds the prompt, walks the generation model chain with
// retry and backoff, and normalizes the raw model output into plain
// prose.
//
// The model chain is quality-first: the strongest model is always tried
// before cheaper fallbacks, and a model only yields its place after its
// retries are spent. Rate limits and transient failures look the same
// from here; both retry, then advance.
package answer
