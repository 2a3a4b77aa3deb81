package store

const Schema = `
CREATE TABLE IF NOT EXISTS threads (
	id       INTEGER PRIMARY KEY,
	added_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
	id        INTEGER PRIMARY KEY,
	thread_id INTEGER NOT NULL,
	author    TEXT NOT NULL DEFAULT '',
	posted_at INTEGER NOT NULL,
	text      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS items_thread_posted ON items (thread_id, posted_at);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	thread_id  INTEGER NOT NULL,
	started_at INTEGER NOT NULL,
	fetched    INTEGER NOT NULL,
	skipped    INTEGER NOT NULL,
	indexed    INTEGER NOT NULL
);
`
