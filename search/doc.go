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

// Package search answers top-k similarity queries over a built corpus.
//
// A query is first rewritten with canonical entity names from the registry,
// then embedded and matched against the vector index. Results are the
// corpus chunks in order of increasing distance. Searching never computes
// answers; callers receive ranked evidence only.
package search
