// Package openai implements ai.Provider against OpenAI-compatible HTTP
// APIs. Groq is the primary target: its chat and embedding endpoints
// speak the OpenAI wire format, so the same client covers any other
// compatible host by changing the base URL.
package openai
