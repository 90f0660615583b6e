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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidSnapshot indicates a Snapshot failed validation.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrInvalidTable indicates a Table failed validation.
	ErrInvalidTable = errors.New("invalid table")

	// ErrEmptyChunkText indicates a chunk has no text.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrChunkIdMismatch indicates a chunk id does not match its position.
	ErrChunkIdMismatch = errors.New("chunk id does not match position")

	// ErrCountMismatch indicates vectors and chunks are not 1:1.
	ErrCountMismatch = errors.New("vector and chunk counts differ")

	// ErrRaggedVectors indicates vectors of differing dimension.
	ErrRaggedVectors = errors.New("vectors have inconsistent dimensions")

	// ErrRowWidth indicates a row with a different width than the header.
	ErrRowWidth = errors.New("row width does not match column count")
)
