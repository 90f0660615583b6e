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


// Package ingestion turns a knowledge base into a searchable corpus.
//
// The Indexer converts each source into provenance-tagged chunks: prose is
// split with the chunker, and every table row becomes a "col: val" line.
// Rows of tables with an entity column (a store name, by default) produce an
// extra entity chunk and register the name in the entity registry.
//
// Build embeds the chunks through a worker pool, builds an exact vector
// index, persists the snapshot and publishes the (index, chunks) pair
// atomically. When a snapshot is already on disk it is loaded instead; an
// unreadable snapshot is logged and rebuilt.
package ingestion
