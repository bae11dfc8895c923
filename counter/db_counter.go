package counter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/d0ngw/statcounter/orm"
	"github.com/go-sql-driver/mysql"
)

// MySQL error numbers
const (
	erWarnDataOutOfRange = 1264 // cnt overflow
	erDataTooLong        = 1406 // key or field longer than the column
)

// DBCounter use a MySQL table implements Store,one row per key and field.
//
//	CREATE TABLE counter (
//	  id VARCHAR(255) NOT NULL,
//	  field VARCHAR(64) NOT NULL,
//	  cnt BIGINT UNSIGNED NOT NULL DEFAULT 0,
//	  PRIMARY KEY (id, field)
//	)
type DBCounter struct {
	Name       string
	db         *sql.DB
	table      string
	autoCreate bool

	incrSQL   string
	initSQL   string
	selectSQL string
}

// NewDBCounter create DBCounter on table,the table is created by Init if autoCreate is true
func NewDBCounter(name string, db *sql.DB, table string, autoCreate bool) *DBCounter {
	return &DBCounter{
		Name:       name,
		db:         db,
		table:      table,
		autoCreate: autoCreate,
		// LAST_INSERT_ID(expr) 让新值通过OK包返回,一条语句完成原子自增
		incrSQL:   fmt.Sprintf("INSERT INTO %s (id, field, cnt) VALUES (?, ?, LAST_INSERT_ID(1)) ON DUPLICATE KEY UPDATE cnt = LAST_INSERT_ID(cnt + 1)", table),
		initSQL:   fmt.Sprintf("INSERT IGNORE INTO %s (id, field, cnt) VALUES (?, ?, ?)", table),
		selectSQL: fmt.Sprintf("SELECT cnt FROM %s WHERE id = ? AND field = ?", table),
	}
}

func (p *DBCounter) createSQL() string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s ("+
		"id VARCHAR(255) NOT NULL, "+
		"field VARCHAR(64) NOT NULL, "+
		"cnt BIGINT UNSIGNED NOT NULL DEFAULT 0, "+
		"PRIMARY KEY (id, field)"+
		") DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin", p.table)
}

// Init check the counter and create the table if needed
func (p *DBCounter) Init(ctx context.Context) error {
	if p.db == nil {
		return fmt.Errorf("db counter %s: db must be set", p.Name)
	}
	if !orm.IsValidTableName(p.table) {
		return fmt.Errorf("db counter %s: invalid table name %q", p.Name, p.table)
	}
	if !p.autoCreate {
		return nil
	}
	if _, err := p.db.ExecContext(ctx, p.createSQL()); err != nil {
		return p.dbError(opInit, "", err)
	}
	return nil
}

// Ping check the database is reachable
func (p *DBCounter) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return newError(ErrUnavailable, opPing, "", err)
	}
	return nil
}

// Incr implements Store.Incr
func (p *DBCounter) Incr(ctx context.Context, key, field string) (int64, error) {
	if err := validate(opIncr, key, field); err != nil {
		return 0, err
	}
	result, err := p.db.ExecContext(ctx, p.incrSQL, key, field)
	if err != nil {
		return 0, p.dbError(opIncr, key, err)
	}
	n, err := result.LastInsertId()
	if err != nil {
		return 0, p.dbError(opIncr, key, err)
	}
	return n, nil
}

// GetOrInit implements Store.GetOrInit,INSERT IGNORE never overwrites a present value
func (p *DBCounter) GetOrInit(ctx context.Context, key, field string, def int64) (int64, error) {
	if err := validateDefault(opGetOrInit, key, field, def); err != nil {
		return 0, err
	}
	if _, err := p.db.ExecContext(ctx, p.initSQL, key, field, def); err != nil {
		return 0, p.dbError(opGetOrInit, key, err)
	}

	var cnt sql.NullInt64
	err := p.db.QueryRowContext(ctx, p.selectSQL, key, field).Scan(&cnt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, newError(ErrUnavailable, opGetOrInit, key, fmt.Errorf("row of field %s not found after insert", field))
	}
	if err != nil {
		return 0, p.dbError(opGetOrInit, key, err)
	}
	if !cnt.Valid {
		return 0, newError(ErrCorrupt, opGetOrInit, key, fmt.Errorf("null count of field %s", field))
	}
	return cnt.Int64, nil
}

func (p *DBCounter) dbError(op, key string, err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case erWarnDataOutOfRange:
			return newError(ErrCorrupt, op, key, err)
		case erDataTooLong:
			return newError(ErrInvalidKey, op, key, err)
		}
	}
	return newError(ErrUnavailable, op, key, err)
}
