package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/saeidalz13/battleship-solo/db/migration"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

const (
	maxOpenConns = 300
	maxIdleConns = 100
	connMaxLife  = time.Minute * 15
)

func migrationDriver(db *sql.DB, driverName string) (database.Driver, error) {
	switch driverName {
	case DriverPostgres:
		return postgres.WithInstance(db, &postgres.Config{})
	case DriverSqlite:
		return sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return nil, fmt.Errorf("unsupported db driver: %q", driverName)
	}
}

// Migrate applies every embedded migration that is not applied yet.
func Migrate(db *sql.DB, driverName string) error {
	driver, err := migrationDriver(db, driverName)
	if err != nil {
		return err
	}

	source, err := iofs.New(migration.Files, ".")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, "battleship", driver)
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Println("migration version: none")
	case err != nil:
		return err
	case dirty:
		return fmt.Errorf("database is dirty at version %d", version)
	default:
		log.Println("migration version:", version)
	}

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return err
	}
	log.Println("migration successful...")
	return nil
}

func MustMigrate(db *sql.DB, driverName string) {
	if err := Migrate(db, driverName); err != nil {
		panic(err)
	}
}

func MustConnectToDb(driverName, dbUrl string) *sql.DB {
	// Open may just validate its arguments without creating a connection to the database
	db, err := sql.Open(driverName, dbUrl)
	if err != nil {
		panic(err)
	}

	// ping db to check connection
	if err := db.Ping(); err != nil {
		panic(err)
	}

	// sqlite allows a single writer; more open conns only produce SQLITE_BUSY
	if driverName == DriverSqlite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connMaxLife)
	}

	MustMigrate(db, driverName)
	return db
}
