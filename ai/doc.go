// Copyright 2025 Poiesic Systems
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


// Package ai provides abstractions for the embedding services used by the
// retriever.
//
// Chunks and queries are turned into vectors by an Embedder. Indexing and
// search depend only on this interface; the concrete clients live in
// sub-packages:
//
//   - ai/openai: OpenAI-compatible servers (Ollama, LocalAI, vLLM) via langchaingo
//   - ai/goopenai: the hosted OpenAI API via go-openai
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, goopenai.NewEmbedder, ...) return
// interface types. Mock constructors return concrete types so tests can
// inject behavior and assert on call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithEmbeddingModel("nomic-embed-text"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vectors, err := provider.Embedder().EmbedTexts(ctx, []string{"merhaba"})
package ai
