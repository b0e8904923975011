// Package googleai implements ai.Provider on Google's Gemini models
// through the langchaingo googleai client. It covers both generation
// and embeddings; pair it with ai/openai when Groq should serve as the
// generation host and Gemini as the embedder, or use it alone.
package googleai
