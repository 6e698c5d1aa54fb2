package database

import (
	"context"
	"database/sql"
	"reports-api/utils"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rotisserie/eris"
)

const (
	MYSQL_CONN_MAX_LIFETIME = 5 * time.Minute
	MYSQL_MAX_OPEN_CONNS    = 10
	MYSQL_MAX_IDLE_CONNS    = 10
)

// OpenMySQL opens the batch-run history database. The DSN must carry
// parseTime=true so DATETIME columns scan into time.Time.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, eris.Wrapf(utils.ErrConfiguration, "mysql open: %v", err)
	}
	db.SetConnMaxLifetime(MYSQL_CONN_MAX_LIFETIME)
	db.SetMaxOpenConns(MYSQL_MAX_OPEN_CONNS)
	db.SetMaxIdleConns(MYSQL_MAX_IDLE_CONNS)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, eris.Wrapf(utils.ErrConnectivity, "mysql ping: %v", err)
	}
	return db, nil
}
