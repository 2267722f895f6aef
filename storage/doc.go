// Copyright 2025 Schooldesk Systems
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


// Package storage provides the storage abstraction layer for schooldesk.
//
// This package defines the Store interface family that decouples storage
// implementation from business logic. Two interchangeable backends exist:
//
//   - memory: an in-process store with file-backed durability for students
//   - mongo: a store backed by a remote MongoDB deployment
//
// # Constructor Return Type Pattern
//
// Backend packages return their concrete store types; callers that want the
// abstraction go through the root package's Open, which returns the
// storage.Store interface and picks the active backend:
//
//	store, err := schooldesk.Open(ctx, schooldesk.ConfigFromEnv())
//
// # Error Model
//
// Absent records are signaled with ErrNotFound, never a panic. The remote
// backend additionally maps transient read/update/delete failures to
// ErrNotFound (or empty results) after logging them, so the interface favors
// availability over strict error visibility. Create is the one operation
// that always propagates backend failures.
//
// # Thread Safety
//
// All backend implementations must be safe for concurrent use from multiple
// goroutines. Assigned IDs remain unique and strictly increasing under
// concurrent creates.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout support.
// Pass context.Background() for operations without specific timeout
// requirements.
package storage
