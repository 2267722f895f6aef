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


package storage

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	// Backends that swallow transient failures map them to ErrNotFound as
	// well, so callers cannot tell the two apart; that trade is deliberate.
	ErrNotFound = errors.New("record not found")

	// ErrNotConnected indicates that a remote backend was asked for a
	// collection before a connection was established.
	ErrNotConnected = errors.New("store is not connected")
)
