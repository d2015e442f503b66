package store

// schema is applied on every Open. It is idempotent (CREATE TABLE IF NOT
// EXISTS / CREATE TRIGGER IF NOT EXISTS) so re-opening an existing
// index.db is safe. The FTS5 virtual table plus its three triggers keep
// the full-text index automatically consistent with the chunks table on
// insert/update/delete, folded into the same single chunks table rather
// than a separate content table.
const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS chunks (
	id           TEXT PRIMARY KEY,
	project_id   TEXT NOT NULL,
	path         TEXT NOT NULL,
	lang         TEXT NOT NULL,
	symbol       TEXT NOT NULL DEFAULT '',
	start_line   INTEGER NOT NULL,
	end_line     INTEGER NOT NULL,
	content      TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	file_hash    TEXT NOT NULL,
	tree_sha     TEXT NOT NULL,
	rev          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_path ON chunks(path);
CREATE INDEX IF NOT EXISTS idx_chunks_content_hash ON chunks(content_hash);
CREATE INDEX IF NOT EXISTS idx_chunks_lang ON chunks(lang);

CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
	id UNINDEXED,
	content,
	tokenize = 'porter unicode61'
);

CREATE TRIGGER IF NOT EXISTS chunks_ai AFTER INSERT ON chunks BEGIN
	INSERT INTO chunks_fts(rowid, id, content) VALUES (NEW.rowid, NEW.id, NEW.content);
END;

CREATE TRIGGER IF NOT EXISTS chunks_ad AFTER DELETE ON chunks BEGIN
	INSERT INTO chunks_fts(chunks_fts, rowid, id, content) VALUES ('delete', OLD.rowid, OLD.id, OLD.content);
END;

CREATE TRIGGER IF NOT EXISTS chunks_au AFTER UPDATE ON chunks BEGIN
	INSERT INTO chunks_fts(chunks_fts, rowid, id, content) VALUES ('delete', OLD.rowid, OLD.id, OLD.content);
	INSERT INTO chunks_fts(rowid, id, content) VALUES (NEW.rowid, NEW.id, NEW.content);
END;

CREATE TABLE IF NOT EXISTS vectors (
	chunk_id          TEXT PRIMARY KEY REFERENCES chunks(id) ON DELETE CASCADE,
	embedding         BLOB NOT NULL,
	dims              INTEGER NOT NULL,
	model_fingerprint TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
	path      TEXT PRIMARY KEY,
	file_hash TEXT NOT NULL,
	size      INTEGER NOT NULL,
	mtime     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
