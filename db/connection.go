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
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"github.com/go-pg/pg/v10"
	log "github.com/sirupsen/logrus"
)

type ConnectionProvider interface {
	GetConnection() *pg.DB
	Close() error
}

type Credentials struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string
}

func NewConnectionProvider(creds Credentials) ConnectionProvider {
	return &connectionProviderImpl{creds: creds}
}

type connectionProviderImpl struct {
	creds Credentials
	db    *pg.DB
	once  sync.Once
}

func (c *connectionProviderImpl) GetConnection() *pg.DB {
	c.once.Do(func() {
		opts := &pg.Options{
			Addr:            fmt.Sprintf("%s:%d", c.creds.Host, c.creds.Port),
			User:            c.creds.Username,
			Password:        c.creds.Password,
			Database:        c.creds.Database,
			PoolSize:        20,
			MaxRetries:      2,
			DialTimeout:     10 * time.Second,
			ReadTimeout:     60 * time.Second,
			WriteTimeout:    60 * time.Second,
			ApplicationName: "qubership-roadmap-service",
		}
		switch c.creds.SSLMode {
		case "", "disable":
		case "verify-full":
			opts.TLSConfig = &tls.Config{ServerName: c.creds.Host}
		default:
			opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		}
		c.db = pg.Connect(opts)
	})
	return c.db
}

func (c *connectionProviderImpl) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// WaitForConnection pings the database until it answers or attempts run out.
func WaitForConnection(ctx context.Context, cp ConnectionProvider, attempts int) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = cp.GetConnection().Ping(ctx); err == nil {
			return nil
		}
		log.Warnf("Database is not available yet (attempt %d/%d): %v", i+1, attempts, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return fmt.Errorf("database is not available: %w", err)
}
