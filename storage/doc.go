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


// Package storage provides the storage abstraction layer for retriever.
//
// This package defines repository interfaces that decouple persistence from
// indexing and classification logic, plus the binary encodings shared by the
// backends.
//
// # Backends
//
//   - storage/snapshot: the built corpus as a pair of files (vector blob and
//     chunk list) published atomically and validated on load
//   - storage/badger: learned intent patterns in a BadgerDB directory
//
// # Constructor Return Type Pattern
//
// Public constructors return the repository interface:
//
//	repo, err := badger.NewPatternRepository(backend)  // returns storage.PatternRepository
//
// # Corruption
//
// A snapshot that cannot be read back completely and consistently is reported
// as ErrCorruptSnapshot. Callers are expected to rebuild rather than fail.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
