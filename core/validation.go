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

import (
	"fmt"
	"strings"
)

// ValidateSnapshot validates a Snapshot according to domain rules.
//
// Validation rules:
//   - Vectors and Chunks have the same length
//   - Every chunk's Id equals its position
//   - Every chunk has non-blank text
//   - All vectors share one non-zero dimension
func ValidateSnapshot(snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot is nil", ErrInvalidSnapshot)
	}

	if len(snapshot.Vectors) != len(snapshot.Chunks) {
		return fmt.Errorf("%w: %w (%d vectors, %d chunks)", ErrInvalidSnapshot, ErrCountMismatch,
			len(snapshot.Vectors), len(snapshot.Chunks))
	}

	for i, chunk := range snapshot.Chunks {
		if chunk.Id != i {
			return fmt.Errorf("%w: %w at %d", ErrInvalidSnapshot, ErrChunkIdMismatch, i)
		}
		if strings.TrimSpace(chunk.Text) == "" {
			return fmt.Errorf("%w: %w at %d", ErrInvalidSnapshot, ErrEmptyChunkText, i)
		}
	}

	if len(snapshot.Vectors) == 0 {
		return nil
	}
	dim := len(snapshot.Vectors[0])
	for i, v := range snapshot.Vectors {
		if len(v) == 0 || len(v) != dim {
			return fmt.Errorf("%w: %w at %d", ErrInvalidSnapshot, ErrRaggedVectors, i)
		}
	}

	return nil
}

// ValidateTable checks that every row is as wide as the header.
func ValidateTable(table *Table) error {
	if table == nil {
		return fmt.Errorf("%w: table is nil", ErrInvalidTable)
	}
	for i, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return fmt.Errorf("%w: %w (row %d has %d cells, want %d)", ErrInvalidTable, ErrRowWidth,
				i, len(row), len(table.Columns))
		}
	}
	return nil
}
