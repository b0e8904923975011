// Copyright 2025 Codemet
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the AI services used by DORA.
//
// This package defines interfaces for text embedding and grounded answer
// generation. The core engine and the ingestion pipeline depend only on
// these abstractions, never on a concrete model vendor.
//
// The key interfaces are:
//
//   - Embedder: generates vector embeddings from text
//   - Generator: produces a completion for one named model
//   - Provider: aggregates an embedder and an ordered generator chain
//
// Implementation packages:
//
//   - ai/openai: Groq and other OpenAI-compatible chat/embedding APIs
//   - ai/googleai: Gemini models
//   - ai/mock: deterministic test doubles
//
// Production constructors return interface types to enforce abstraction;
// mock constructors return concrete types so tests can inject behavior and
// assert on call counts.
//
// The package also carries two cross-cutting helpers used on every provider
// call path: RetryPolicy, an explicit retry-with-backoff policy with an
// injectable sleep function, and BatchingEmbedder, which bounds the peak
// memory of large embedding jobs by splitting them into fixed-size
// sub-batches.
package ai
