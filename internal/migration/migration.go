// Copyright 2026 The Genius Authors
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

// Package migration implements the versioned, idempotent on-disk schema
// upgrade of spec §4.I: an ordered chain of steps, each declaring the
// version pair it bridges, walked from a current version to a target one.
package migration

import (
	"errors"

	"github.com/GeniusVentures/geniuscore/internal/kvstore"
)

// ErrMigrationUnapplicable is returned when no declared step's
// from_version matches the current version before target is reached.
var ErrMigrationUnapplicable = errors.New("migration: no step chain connects current and target versions")

// Context gathers the stores a step needs: the destination the canonical
// records land in, the legacy outgoing/incoming stores being retired, and
// the network id used to build the canonical keyspace base.
type Context struct {
	NewStore  kvstore.Store
	LegacyOut kvstore.Store
	LegacyIn  kvstore.Store
	NetworkID string
}

// Step declares the version pair it bridges and the transform it applies.
type Step struct {
	FromVersion string
	ToVersion   string
	Apply       func(ctx Context) error
}

// Manager walks a declared, ordered chain of Steps.
type Manager struct {
	steps []Step
}

// NewManager builds a Manager over the given steps, tried in the order
// given at each point in the chain.
func NewManager(steps ...Step) *Manager {
	return &Manager{steps: steps}
}

// Migrate walks from current to target, applying any step whose
// FromVersion matches the running current version and advancing current to
// its ToVersion, until current == target. It fails with
// ErrMigrationUnapplicable if no matching step exists before reaching
// target.
func (m *Manager) Migrate(ctx Context, current, target string) (string, error) {
	for current != target {
		var next *Step
		for i := range m.steps {
			if m.steps[i].FromVersion == current {
				next = &m.steps[i]
				break
			}
		}
		if next == nil {
			return current, ErrMigrationUnapplicable
		}
		if err := next.Apply(ctx); err != nil {
			return current, err
		}
		current = next.ToVersion
	}
	return current, nil
}
