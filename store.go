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


// Package schooldesk wires the storage backends together. Callers receive a
// single storage.Store and inject it where needed; there is no package-level
// singleton.
package schooldesk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schooldesk/schooldesk/storage"
	"github.com/schooldesk/schooldesk/storage/memory"
	mongostore "github.com/schooldesk/schooldesk/storage/mongo"
)

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger handed to the chosen backend.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) { o.logger = logger }
}

// Open constructs the active store. It eagerly tries the document store:
// connect, ping, and counter initialization, bounded by
// cfg.ConnectTimeout. When that fails the error is logged and the
// file-backed memory store takes over, so the application still comes up
// without a reachable database.
//
// The returned store must be released with Close when the process shuts
// down.
func Open(ctx context.Context, cfg Config, opts ...Option) (storage.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}
	if cfg.DataFile == "" {
		return nil, fmt.Errorf("config: DataFile must not be empty")
	}

	options := &openOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger

	ms := mongostore.New(cfg.MongoURI, cfg.Database, mongostore.WithLogger(logger))
	initCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	err := ms.Init(initCtx)
	cancel()
	if err == nil {
		return ms, nil
	}
	logger.Warn("document store unavailable, falling back to memory store",
		"uri", cfg.MongoURI, "dataFile", cfg.DataFile, "err", err)

	return memory.New(cfg.DataFile, memory.WithLogger(logger)), nil
}
