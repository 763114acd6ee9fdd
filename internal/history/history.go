// Package history persists chat messages exchanged by the demo messenger
// in a local sqlite database. The transport itself keeps no state; this is
// purely a convenience for the CLI.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
)

const Schema = `
CREATE TABLE IF NOT EXISTS message (
	id INTEGER PRIMARY KEY,
	created_at REAL NOT NULL DEFAULT (unixepoch('subsec')),
	direction TEXT NOT NULL CHECK (direction IN ('in', 'out')),
	peer TEXT NOT NULL,
	user TEXT NOT NULL,
	body TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_message_peer ON message (peer);
`

const driverName = "udpmsg_sqlite3"

var ErrNotFound = fmt.Errorf("not found: %w", sql.ErrNoRows)

var registerDriver = sync.OnceFunc(func() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(c *sqlite3.SQLiteConn) error {
			pragmas := `
				PRAGMA journal_mode = WAL;
				PRAGMA busy_timeout = 5000;
				PRAGMA synchronous = NORMAL;
				PRAGMA foreign_keys = true;
			`
			_, err := c.Exec(pragmas, nil)
			return err
		},
	})
})

// Direction of a stored message relative to the local endpoint.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

type Message struct {
	ID        int64
	CreatedAt time.Time
	Direction string
	Peer      string
	User      string
	Body      string
}

type Repo struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history database at dbFile and
// applies the schema.
func Open(ctx context.Context, dbFile string) (*Repo, error) {
	registerDriver()

	uri := &url.URL{Scheme: "file", Opaque: dbFile}
	query := uri.Query()
	query.Set("_txlock", "immediate")
	uri.RawQuery = query.Encode()

	db, err := sql.Open(driverName, uri.String())
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init db: %w", err)
	}

	return &Repo{db: db}, nil
}

func (r *Repo) Close() error {
	return r.db.Close()
}

// Add records a message and returns it with its assigned id and timestamp.
func (r *Repo) Add(ctx context.Context, msg *Message) (*Message, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO message (direction, peer, user, body)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at`,
		msg.Direction, msg.Peer, msg.User, msg.Body)

	res := *msg
	var createdAt timestamp
	if err := row.Scan(&res.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	res.CreatedAt = time.Time(createdAt)
	return &res, nil
}

// Recent returns up to limit messages, newest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, direction, peer, user, body
		FROM message ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Message
	for rows.Next() {
		var msg Message
		var createdAt timestamp
		if err := rows.Scan(&msg.ID, &createdAt, &msg.Direction, &msg.Peer, &msg.User, &msg.Body); err != nil {
			return nil, err
		}
		msg.CreatedAt = time.Time(createdAt)
		res = append(res, &msg)
	}

	return res, rows.Err()
}

// Last returns the most recent message, or ErrNotFound when the history is
// empty.
func (r *Repo) Last(ctx context.Context) (*Message, error) {
	msgs, err := r.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, ErrNotFound
	}
	return msgs[0], nil
}

// CountByPeer reports how many messages have been exchanged with peer.
func (r *Repo) CountByPeer(ctx context.Context, peer string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM message WHERE peer = ?`, peer).Scan(&n)
	return n, err
}
