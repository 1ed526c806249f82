package staging

import (
	"database/sql"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    seq INTEGER NOT NULL,
    value BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_seq ON records(seq);

CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

const batchSize = 1000

type sqliteBackend[R any] struct {
	db        *sql.DB
	path      string
	temporary bool

	tx      *sql.Tx
	pending int
	seq     int64
}

// NewSQLite creates a disk-backed store in the file at path. The file is
// kept after Close so it can be reopened with OpenSealedSQLite.
func NewSQLite[R any](path string, opts ...Option[R]) (*Store[R], error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "reset staging file %s", path)
	}
	b, err := openSQLite[R](path)
	if err != nil {
		return nil, err
	}
	return newStore[R](b, Empty, opts), nil
}

// NewTempSQLite creates a disk-backed store in a fresh file under dir that
// is removed on Close. An empty dir selects the system temporary directory.
func NewTempSQLite[R any](dir string, opts ...Option[R]) (*Store[R], error) {
	f, err := os.CreateTemp(dir, "kgimport-staging-*.db")
	if err != nil {
		return nil, errors.Wrap(err, "create staging file")
	}
	path := f.Name()
	f.Close()

	b, err := openSQLite[R](path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	b.temporary = true
	return newStore[R](b, Empty, opts), nil
}

// OpenSealedSQLite reopens a store written by NewSQLite and sealed by an
// earlier run. The returned store is already Sealed.
func OpenSealedSQLite[R any](path string, opts ...Option[R]) (*Store[R], error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "open staging file %s", path)
	}
	b, err := openSQLite[R](path)
	if err != nil {
		return nil, err
	}

	var sealed string
	err = b.db.QueryRow(`SELECT value FROM meta WHERE key = 'sealed'`).Scan(&sealed)
	if err != nil && err != sql.ErrNoRows {
		b.db.Close()
		return nil, errors.Wrapf(err, "read staging metadata from %s", path)
	}
	if sealed != "1" {
		b.db.Close()
		return nil, errors.Errorf("staging file %s was never sealed", path)
	}
	return newStore[R](b, Sealed, opts), nil
}

func openSQLite[R any](path string) (*sqliteBackend[R], error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=MEMORY&_synchronous=OFF")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open staging database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create staging schema")
	}
	return &sqliteBackend[R]{db: db, path: path}, nil
}

func (b *sqliteBackend[R]) begin() error {
	if b.tx != nil {
		return nil
	}
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	b.tx = tx
	b.pending = 0
	return nil
}

func (b *sqliteBackend[R]) commit() error {
	if b.tx == nil {
		return nil
	}
	err := b.tx.Commit()
	b.tx = nil
	return err
}

func (b *sqliteBackend[R]) put(id string, rec R, merge func(old, rec R) R) error {
	if err := b.begin(); err != nil {
		return err
	}

	if merge != nil {
		var raw []byte
		err := b.tx.QueryRow(`SELECT value FROM records WHERE id = ?`, id).Scan(&raw)
		switch {
		case err == nil:
			var old R
			if err := msgpack.Unmarshal(raw, &old); err != nil {
				return err
			}
			rec = merge(old, rec)
		case err != sql.ErrNoRows:
			return err
		}
	}

	value, err := msgpack.Marshal(rec)
	if err != nil {
		return err
	}
	b.seq++
	_, err = b.tx.Exec(`
		INSERT INTO records (id, seq, value) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET value = excluded.value`,
		id, b.seq, value)
	if err != nil {
		return err
	}

	b.pending++
	if b.pending >= batchSize {
		return b.commit()
	}
	return nil
}

func (b *sqliteBackend[R]) get(id string) (R, bool, error) {
	var (
		rec R
		raw []byte
	)
	err := b.db.QueryRow(`SELECT value FROM records WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, errors.Wrapf(err, "read staged record %q", id)
	}
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		return rec, false, errors.Wrapf(err, "decode staged record %q", id)
	}
	return rec, true, nil
}

func (b *sqliteBackend[R]) each(fn func(id string, rec R) error) error {
	rows, err := b.db.Query(`SELECT id, value FROM records ORDER BY seq`)
	if err != nil {
		return errors.Wrap(err, "scan staged records")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  string
			raw []byte
			rec R
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return errors.Wrap(err, "scan staged records")
		}
		if err := msgpack.Unmarshal(raw, &rec); err != nil {
			return errors.Wrapf(err, "decode staged record %q", id)
		}
		if err := fn(id, rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (b *sqliteBackend[R]) len() (int, error) {
	var n int
	if err := b.db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count staged records")
	}
	return n, nil
}

func (b *sqliteBackend[R]) seal() error {
	if err := b.commit(); err != nil {
		return err
	}
	_, err := b.db.Exec(`INSERT INTO meta (key, value) VALUES ('sealed', '1')
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	return err
}

func (b *sqliteBackend[R]) close() error {
	if b.tx != nil {
		b.tx.Rollback()
		b.tx = nil
	}
	err := b.db.Close()
	if b.temporary {
		if rmErr := os.Remove(b.path); rmErr != nil && err == nil {
			err = rmErr
		}
	}
	return err
}
