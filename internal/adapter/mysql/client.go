package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/semmidev/rewind/internal/domain"
)

// Config holds the connection settings shared by the SQL client and the
// external tool wrappers.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Client talks to the live server over a client connection. It implements
// domain.Server.
type Client struct {
	db  *sql.DB
	cfg Config
}

func NewClient(cfg Config) (*Client, error) {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.User = cfg.User
	mc.Passwd = cfg.Password

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}
	db.SetMaxOpenConns(2)

	return &Client{db: db, cfg: cfg}, nil
}

func (c *Client) Close() error { return c.db.Close() }

func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return &domain.ConnectivityError{Err: err}
	}
	return nil
}

// TableEngines returns the storage engine of every base table in db.
func (c *Client) TableEngines(ctx context.Context, db string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT ENGINE FROM information_schema.TABLES
		 WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' AND ENGINE IS NOT NULL`,
		db)
	if err != nil {
		return nil, &domain.ConnectivityError{Err: err}
	}
	defer rows.Close()

	var engines []string
	for rows.Next() {
		var engine string
		if err := rows.Scan(&engine); err != nil {
			return nil, fmt.Errorf("scan engine row: %w", err)
		}
		engines = append(engines, engine)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.ConnectivityError{Err: err}
	}
	return engines, nil
}

// ActiveBinlog returns the binlog file the server is currently writing to.
func (c *Client) ActiveBinlog(ctx context.Context) (string, error) {
	rows, err := c.db.QueryContext(ctx, "SHOW MASTER STATUS")
	if err != nil {
		return "", &domain.ConnectivityError{Err: err}
	}
	defer rows.Close()

	if !rows.Next() {
		return "", fmt.Errorf("no master status: is binary logging enabled?")
	}

	// Column count varies across server versions; only the first matters.
	cols, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("master status columns: %w", err)
	}
	values := make([]any, len(cols))
	var file string
	values[0] = &file
	for i := 1; i < len(values); i++ {
		values[i] = new(sql.RawBytes)
	}
	if err := rows.Scan(values...); err != nil {
		return "", fmt.Errorf("scan master status: %w", err)
	}
	return file, nil
}

func (c *Client) FlushLogs(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "FLUSH LOGS"); err != nil {
		return &domain.ConnectivityError{Err: err}
	}
	return nil
}

func (c *Client) CreateDatabase(ctx context.Context, db string) error {
	_, err := c.db.ExecContext(ctx, "CREATE DATABASE "+quoteIdent(db))
	if err != nil {
		return fmt.Errorf("create database %s: %w", db, err)
	}
	return nil
}

// DropDatabase uses IF EXISTS: dropping a database that is not there must
// not abort a restore.
func (c *Client) DropDatabase(ctx context.Context, db string) error {
	_, err := c.db.ExecContext(ctx, "DROP DATABASE IF EXISTS "+quoteIdent(db))
	if err != nil {
		return fmt.Errorf("drop database %s: %w", db, err)
	}
	return nil
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
