// Package llm provides draft providers backed by hosted language models.
//
// Gemini is the only provider. It renders the draft prompt from a change
// summary, makes one generateContent request and parses the JSON reply into
// a draft.Draft. Every failure is returned as a *draft.ProviderError so the
// draft generator can log the kind and fall back to a heuristic draft.
package llm
