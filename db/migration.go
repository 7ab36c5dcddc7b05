// Copyright 2024-2025 NetCracker Technology Corporation
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

package db

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/go-pg/pg/v10"
	log "github.com/sirupsen/logrus"
)

type schemaMigration struct {
	tableName struct{} `pg:"schema_migrations"`

	Name      string    `pg:"name,pk,type:varchar"`
	AppliedAt time.Time `pg:"applied_at,type:timestamp without time zone,notnull"`
}

const createMigrationsTable = `create table if not exists schema_migrations (
	name varchar primary key,
	applied_at timestamp without time zone not null
)`

// Migrate applies *.sql files from migrations in lexical order. Each file runs in its own transaction.
func Migrate(ctx context.Context, cp ConnectionProvider, migrations fs.FS) error {
	conn := cp.GetConnection()
	if _, err := conn.ExecContext(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	names, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	var applied []string
	err = conn.ModelContext(ctx, (*schemaMigration)(nil)).Column("name").Select(&applied)
	if err != nil && err != pg.ErrNoRows {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, name := range applied {
		done[name] = true
	}

	for _, name := range names {
		if done[name] {
			continue
		}
		data, err := fs.ReadFile(migrations, name)
		if err != nil {
			return err
		}
		log.Infof("Applying migration %s", name)
		err = conn.RunInTransaction(ctx, func(tx *pg.Tx) error {
			if _, err := tx.ExecContext(ctx, string(data)); err != nil {
				return err
			}
			_, err := tx.ModelContext(ctx, &schemaMigration{Name: name, AppliedAt: time.Now()}).Insert()
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
	}
	return nil
}
