/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/jerry-enebeli/commissions/config"
	redis_db "github.com/jerry-enebeli/commissions/internal/redis-db"
)

// Driver names passed to database/sql and sql-migrate.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

//go:embed migrations
var migrationFiles embed.FS

// Datasource is a BlobStore on the commission_blobs table.
type Datasource struct {
	Conn   *sql.DB
	Driver string
}

// NewDataSource opens the store named by the configured DNS. A redis:// DNS
// selects Redis, a postgres:// DNS selects Postgres and anything else is
// a SQLite file path. SQL stores are migrated up before use.
func NewDataSource(configuration *config.Configuration) (BlobStore, error) {
	dns := configuration.DataSource.Dns
	if strings.HasPrefix(dns, "redis://") || strings.HasPrefix(dns, "rediss://") {
		client, err := redis_db.NewRedisClient([]string{dns}, configuration.Redis.SkipTLSVerify)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client.Client(), configuration.ProjectKey()), nil
	}

	driver := DriverFor(dns)
	con, err := ConnectDB(driver, dns)
	if err != nil {
		return nil, err
	}
	if _, err := Migrate(con, driver, migrate.Up); err != nil {
		return nil, err
	}
	return &Datasource{Conn: con, Driver: driver}, nil
}

// DriverFor picks the SQL driver for a DNS.
func DriverFor(dns string) string {
	if strings.HasPrefix(dns, "postgres://") || strings.HasPrefix(dns, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// ConnectDB opens and pings the database.
func ConnectDB(driver, dns string) (*sql.DB, error) {
	db, err := sql.Open(driver, dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}
	return db, nil
}

// Migrations returns the embedded migration set for a driver.
func Migrations(driver string) migrate.MigrationSource {
	return migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations/" + driver,
	}
}

// Migrate applies the embedded migrations in the given direction and
// returns how many ran.
func Migrate(db *sql.DB, driver string, direction migrate.MigrationDirection) (int, error) {
	n, err := migrate.Exec(db, driver, Migrations(driver), direction)
	if err != nil {
		return n, fmt.Errorf("error applying migrations: %w", err)
	}
	return n, nil
}

func (d *Datasource) placeholder(n int) string {
	if d.Driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Get returns the blob stored under key.
func (d *Datasource) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT blob_value FROM commission_blobs WHERE blob_key = %s`, d.placeholder(1))

	var value []byte
	err := d.Conn.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading blob %s: %w", key, err)
	}
	return value, nil
}

// Put stores value under key, replacing any previous blob.
func (d *Datasource) Put(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO commission_blobs (blob_key, blob_value, updated_at)
		VALUES (%s, %s, %s)
		ON CONFLICT (blob_key) DO UPDATE SET blob_value = excluded.blob_value, updated_at = excluded.updated_at`,
		d.placeholder(1), d.placeholder(2), d.placeholder(3))

	_, err := d.Conn.ExecContext(ctx, query, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error writing blob %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (d *Datasource) Close() error {
	return d.Conn.Close()
}
