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


// Package intent provides a rule-based query classifier.
//
// A query is normalized, expanded through a fixed synonym table and reduced
// to coarse entities (departments, actions and capitalized names). Entities
// are scored against built-in intent patterns and against patterns learned
// from user feedback:
//   - Built-in patterns are evaluated first, in declared order
//   - Learned patterns follow, in the order they were learned
//   - The first intent with the strictly highest score wins
//
// Learned patterns live in a PatternStore that persists every append before
// it becomes visible to Predict.
package intent
