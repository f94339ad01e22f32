// Package snapshot persists the in-memory state as a single durable
// document. The running process owns the state; the snapshot exists only so
// a restart can pick up where the last flush left off. A crash loses at most
// the mutations since the previous flush.
package snapshot

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/fanvault/fanvault-be/internal/models"
	"github.com/fanvault/fanvault-be/internal/store"
)

// Store is the durable snapshot boundary: load the whole state at startup,
// save the whole state on flush.
type Store interface {
	Load() (*store.State, error)
	Save(*store.State) error
	Close() error
}

// SQLiteStore keeps the snapshot in a single-row sqlite table, one JSON
// document per collection.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the snapshot database.
func NewSQLite(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err = migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER NOT NULL PRIMARY KEY CHECK (id = 1),
		users TEXT NOT NULL,
		creators TEXT NOT NULL,
		posts TEXT NOT NULL,
		transactions TEXT NOT NULL,
		subscriptions TEXT NOT NULL,
		unlocked_posts TEXT NOT NULL,
		messages TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}

// Load reads the snapshot document. A missing row means a fresh install and
// yields an empty state.
func (s *SQLiteStore) Load() (*store.State, error) {
	row := s.db.QueryRow(`SELECT users, creators, posts, transactions, subscriptions, unlocked_posts, messages FROM snapshot WHERE id = 1`)

	var users, creators, posts, transactions, subscriptions, unlockedPosts, messages string
	err := row.Scan(&users, &creators, &posts, &transactions, &subscriptions, &unlockedPosts, &messages)
	if err == sql.ErrNoRows {
		return &store.State{}, nil
	}
	if err != nil {
		return nil, err
	}

	state := &store.State{}
	for _, col := range []struct {
		raw string
		dst any
	}{
		{users, &state.Users},
		{creators, &state.Creators},
		{posts, &state.Posts},
		{transactions, &state.Transactions},
		{subscriptions, &state.Subscriptions},
		{unlockedPosts, &state.UnlockedPosts},
		{messages, &state.Messages},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// Save writes the whole state, replacing the previous document.
func (s *SQLiteStore) Save(state *store.State) error {
	users, err := marshalCollection(state.Users)
	if err != nil {
		return err
	}
	creators, err := marshalCollection(state.Creators)
	if err != nil {
		return err
	}
	posts, err := marshalCollection(state.Posts)
	if err != nil {
		return err
	}
	transactions, err := marshalCollection(state.Transactions)
	if err != nil {
		return err
	}
	subscriptions, err := marshalCollection(state.Subscriptions)
	if err != nil {
		return err
	}
	unlockedPosts, err := marshalCollection(state.UnlockedPosts)
	if err != nil {
		return err
	}
	messages, err := marshalCollection(state.Messages)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshot (id, users, creators, posts, transactions, subscriptions, unlocked_posts, messages, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			users = excluded.users,
			creators = excluded.creators,
			posts = excluded.posts,
			transactions = excluded.transactions,
			subscriptions = excluded.subscriptions,
			unlocked_posts = excluded.unlocked_posts,
			messages = excluded.messages,
			saved_at = excluded.saved_at`,
		users, creators, posts, transactions, subscriptions, unlockedPosts, messages, time.Now())
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// marshalCollection renders a collection as a JSON array, never null, so
// Load round-trips empty collections cleanly.
func marshalCollection[T models.User | models.CreatorProfile | models.Post | models.Transaction | models.Subscription | models.UnlockRecord | models.Message](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
