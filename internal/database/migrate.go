// Package database はデータベース接続とマイグレーション管理を提供する。
package database

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// appointments テーブルのスキーマ定義。ファイル名の連番がスキーマバージョンになる。
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtySchema は途中で失敗したマイグレーションが残っていることを示す。
// migrate force で修復するまで予約テーブルへの変更は適用しない。
var ErrDirtySchema = errors.New("appointments schema is dirty")

// NewMigrator は予約スキーマを適用するmigrateインスタンスを生成する。
// databaseURLはPostgreSQLの接続URLを指定する。
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointments migrator: %w", err)
	}

	return m, nil
}

// LatestSchemaVersion は埋め込まれたマイグレーションの最新バージョンを返す。
// データベースには接続しない。
func LatestSchemaVersion() (uint, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("failed to load appointments migrations: %w", err)
	}
	defer source.Close()

	v, err := source.First()
	if err != nil {
		return 0, fmt.Errorf("no appointments migrations embedded: %w", err)
	}
	for {
		next, err := source.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read appointments migrations: %w", err)
		}
		v = next
	}
}

// RunMigrations は未適用のマイグレーションをすべて適用し、適用後のスキーマバージョンを返す。
// すでに最新の場合はエラーなしで返る。dirty状態の場合はErrDirtySchemaを返す。
func RunMigrations(databaseURL string) (uint, error) {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return 0, err
	}
	defer m.Close()

	if v, dirty, err := m.Version(); err == nil && dirty {
		return v, fmt.Errorf("%w at version %d", ErrDirtySchema, v)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to migrate appointments schema: %w", err)
	}

	v, _, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("failed to read appointments schema version: %w", err)
	}
	return v, nil
}
