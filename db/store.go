package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adlio/schema"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/shoecreatify/shoecreatify-api/db/tables"

	"go.uber.org/zap"

	sq "github.com/Masterminds/squirrel"
	fq "github.com/eisenwinter/fiql-sql-adapter"
)

//go:embed migrations
var migrations embed.FS

var (
	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("the requested entry was not found")
	// ErrAlreadyExists indicates the entity already exists within the store
	ErrAlreadyExists = errors.New("this entity already exists")
)

type DataStore struct {
	log      *zap.Logger
	db       *sqlx.DB
	sb       sq.StatementBuilderType
	adapters map[string]*fq.Adapter
	migrate  func() error
}

func (d *DataStore) Close() {
	d.db.Close()
}

// EnsureUsable applies all pending migrations
func (d *DataStore) EnsureUsable() error {
	if d.migrate != nil {
		return d.migrate()
	}
	return nil
}

// Ping checks the database connection
func (d *DataStore) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DataStore) getStatement(
	ctx context.Context,
	dest interface{},
	statement sq.SelectBuilder,
) error {
	q, a, err := statement.ToSql()
	if err != nil {
		d.log.Error("Unable to construct sql", zap.Error(err))
		return err
	}
	return d.db.GetContext(ctx, dest, q, a...)
}

func (d *DataStore) selectStatement(
	ctx context.Context,
	dest interface{},
	statement sq.SelectBuilder,
) error {
	q, a, err := statement.ToSql()
	if err != nil {
		d.log.Error("Unable to construct sql", zap.Error(err))
		return err
	}
	return d.db.SelectContext(ctx, dest, q, a...)
}

func (d *DataStore) deleteStatement(
	ctx context.Context,
	statement sq.DeleteBuilder,
) (sql.Result, error) {
	q, a, err := statement.ToSql()
	if err != nil {
		d.log.Error("Unable to construct sql", zap.Error(err))
		return nil, err
	}
	return d.db.ExecContext(ctx, q, a...)
}

func (d *DataStore) insertStatement(
	ctx context.Context,
	statement sq.InsertBuilder,
) (sql.Result, error) {
	q, a, err := statement.ToSql()
	if err != nil {
		d.log.Error("Unable to construct sql", zap.Error(err))
		return nil, err
	}
	res, err := d.db.ExecContext(ctx, q, a...)
	if err != nil && isUniqueViolation(err) {
		return nil, ErrAlreadyExists
	}
	return res, err
}

func (d *DataStore) updateStatement(
	ctx context.Context,
	statement sq.UpdateBuilder,
) (sql.Result, error) {
	q, a, err := statement.ToSql()
	if err != nil {
		d.log.Error("Unable to construct sql", zap.Error(err))
		return nil, err
	}
	res, err := d.db.ExecContext(ctx, q, a...)
	if err != nil && isUniqueViolation(err) {
		return nil, ErrAlreadyExists
	}
	return res, err
}

// affected reports whether the statement touched at least one row
func affected(rs sql.Result) (bool, error) {
	n, err := rs.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type sqlStateError interface {
	SQLState() string
}

func isUniqueViolation(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr sqlStateError
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}

func NewStore(logger *zap.Logger, cfg *config.DatabaseConfiguration) (*DataStore, error) {
	switch cfg.Type {
	case "sqlite":
		return NewSqliteStore(logger, cfg)
	case "mysql":
		return NewMysqlStore(logger, cfg)
	case "pg":
		return NewPostgresStore(logger, cfg)
	default:
		return nil, errors.New("unknown datastore")
	}
}

func withParam(dsn string, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

func NewMysqlStore(logger *zap.Logger, cfg *config.DatabaseConfiguration) (*DataStore, error) {
	db, err := sqlx.Open("mysql", withParam(cfg.DSN, "parseTime=true"))
	if err != nil {
		logger.Error("Could open database", zap.Error(err))
		return nil, err
	}

	migrate := func() error {
		migdb, err := sqlx.Open("mysql", withParam(cfg.DSN, "multiStatements=true"))
		if err != nil {
			logger.Error("Could open database", zap.Error(err))
			return err
		}
		defer migdb.Close()

		migrator := schema.NewMigrator(schema.WithDialect(schema.MySQL))
		mig, err := schema.FSMigrations(migrations, "migrations/mysql/*.sql")
		if err != nil {
			return err
		}
		return migrator.Apply(
			migdb,
			mig,
		)
	}

	return &DataStore{
		log:      logger,
		db:       db,
		sb:       sq.StatementBuilder.PlaceholderFormat(sq.Question),
		migrate:  migrate,
		adapters: createMapping(fq.WithDialectMariaDB()),
	}, nil

}

func NewPostgresStore(logger *zap.Logger, cfg *config.DatabaseConfiguration) (*DataStore, error) {
	db, err := sqlx.Open("pgx", cfg.DSN)
	if err != nil {
		logger.Error("Could open database", zap.Error(err))
		return nil, err
	}

	migrate := func() error {
		migrator := schema.NewMigrator(schema.WithDialect(schema.Postgres))
		mig, err := schema.FSMigrations(migrations, "migrations/pg/*.sql")
		if err != nil {
			return err
		}
		return migrator.Apply(
			db.DB,
			mig,
		)
	}

	return &DataStore{
		log:      logger,
		db:       db,
		sb:       sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		migrate:  migrate,
		adapters: createMapping(fq.WithDialectPostgres()),
	}, nil

}

func NewSqliteStore(logger *zap.Logger, cfg *config.DatabaseConfiguration) (*DataStore, error) {
	db, err := sqlx.Open("sqlite3", cfg.DSN)
	if err != nil {
		logger.Error("Could open database", zap.Error(err))
		return nil, err
	}
	// every connection to an in-memory database is a database of its own
	if cfg.DSN == "" || strings.Contains(cfg.DSN, ":memory:") || strings.Contains(cfg.DSN, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	// check if dsn contains a directory which needs to be created
	split := strings.Split(cfg.DSN, "?")
	if len(split) >= 1 && strings.ContainsRune(split[0], os.PathSeparator) {
		striped := strings.TrimPrefix(split[0], "file:")
		dir := filepath.Dir(striped)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			logger.Warn("Trying to create directory", zap.String("directory", dir))
			err = os.MkdirAll(dir, 0750)
			if err != nil {
				logger.Error("Could open database", zap.Error(err))
				return nil, err
			}
		}

	}

	migrate := func() error {
		migrator := schema.NewMigrator(schema.WithDialect(schema.SQLite))
		mig, err := schema.FSMigrations(migrations, "migrations/sqlite/*.sql")
		if err != nil {
			return err
		}
		return migrator.Apply(
			db.DB,
			mig,
		)
	}

	return &DataStore{
		log:      logger,
		db:       db,
		sb:       sq.StatementBuilder.PlaceholderFormat(sq.Question),
		migrate:  migrate,
		adapters: createMapping(fq.WithDialectSQLite()),
	}, nil

}

func createMapping(options ...func(*fq.Adapter)) map[string]*fq.Adapter {
	adapters := make(map[string]*fq.Adapter)
	adapters["accounts"] = fq.NewAdapterFor(tables.AccountTable{}, options...)
	return adapters
}

func (d *DataStore) Auditor() Auditor {
	return &auditor{
		db: d.db,
		sb: d.sb,
	}
}
