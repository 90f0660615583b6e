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


package registry

import (
	"strings"
	"sync"
)

// separators end the "short form" of an entity name.
const separators = "-–(/|,"

// EntityRegistry maps surface variants of entity names to their canonical
// spelling. It only grows; entries are never removed.
type EntityRegistry struct {
	mu         sync.RWMutex
	variants   map[string]string
	canonicals []string
	byCanon    map[string][]string
}

// New creates an empty registry.
func New() *EntityRegistry {
	return &EntityRegistry{
		variants: make(map[string]string),
		byCanon:  make(map[string][]string),
	}
}

// Simplify returns the text before the first separator, trimmed.
// "ISTINYEPARK - Sarıyer" simplifies to "ISTINYEPARK".
func Simplify(name string) string {
	if i := strings.IndexAny(name, separators); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// Register adds name under itself and under its simplified form.
// Blank names are ignored. Registering the same name twice is a no-op.
func (r *EntityRegistry) Register(name string) {
	canonical := strings.TrimSpace(name)
	if canonical == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCanon[canonical]; !ok {
		r.canonicals = append(r.canonicals, canonical)
		r.byCanon[canonical] = nil
	}
	r.addVariant(canonical, canonical)
	if simplified := Simplify(canonical); simplified != "" && simplified != canonical {
		r.addVariant(simplified, canonical)
	}
}

func (r *EntityRegistry) addVariant(variant, canonical string) {
	if _, ok := r.variants[variant]; ok {
		return
	}
	r.variants[variant] = canonical
	r.byCanon[canonical] = append(r.byCanon[canonical], variant)
}

// Lookup returns the canonical name registered for variant.
func (r *EntityRegistry) Lookup(variant string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	canonical, ok := r.variants[variant]
	return canonical, ok
}

// Canonicals returns canonical names in registration order.
func (r *EntityRegistry) Canonicals() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.canonicals))
	copy(out, r.canonicals)
	return out
}

// Variants returns the variants that map to canonical, in the order they
// were first seen.
func (r *EntityRegistry) Variants(canonical string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vs := r.byCanon[canonical]
	out := make([]string, len(vs))
	copy(out, vs)
	return out
}

// Len returns the number of registered variants.
func (r *EntityRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.variants)
}

// entry pairs a canonical name with its variants.
type entry struct {
	canonical string
	variants  []string
}

// entries returns a consistent copy of the registry for a rewrite pass.
func (r *EntityRegistry) entries() []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entry, 0, len(r.canonicals))
	for _, c := range r.canonicals {
		vs := make([]string, len(r.byCanon[c]))
		copy(vs, r.byCanon[c])
		out = append(out, entry{canonical: c, variants: vs})
	}
	return out
}
