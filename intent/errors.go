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


package intent

import "errors"

var (
	// ErrPatternRepositoryRequired is returned when a pattern repository is not provided.
	ErrPatternRepositoryRequired = errors.New("pattern repository required")

	// ErrPatternStoreRequired is returned when a classifier is built without a pattern store.
	ErrPatternStoreRequired = errors.New("pattern store required")

	// ErrEmptyFeedback is returned when a feedback query has no tokens after normalization.
	ErrEmptyFeedback = errors.New("feedback query has no tokens")

	// ErrEmptyIntent is returned when feedback names no intent.
	ErrEmptyIntent = errors.New("intent name required")
)
