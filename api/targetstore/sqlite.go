// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package targetstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/euniverse/core/core/idgen"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/targets"
	"github.com/euniverse/core/core/timestamper"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS target_lists (
	id TEXT PRIMARY KEY,
	user TEXT NOT NULL,
	tile_id TEXT NOT NULL,
	saved_unix_sec INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS targets (
	list_id TEXT NOT NULL REFERENCES target_lists(id),
	seq INTEGER NOT NULL,
	id TEXT NOT NULL,
	ra REAL NOT NULL,
	dec REAL NOT NULL,
	label TEXT NOT NULL,
	created_unix_ns INTEGER NOT NULL,
	PRIMARY KEY (list_id, seq)
);`

type SQLiteStore struct {
	db    *sql.DB
	idGen idgen.IDGenerator
	clock timestamper.ITimeStamper
	log   logger.ILogger
}

// NewSQLiteStore - creates the file and tables if needed
func NewSQLiteStore(dbPath string, idGen idgen.IDGenerator, clock timestamper.ITimeStamper, log logger.ILogger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %v", dbPath)
	}
	// One writer at a time, and ":memory:" DBs are per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create target tables")
	}

	log.Infof("Target lists stored in SQLite DB: %v", dbPath)
	return &SQLiteStore{db: db, idGen: idGen, clock: clock, log: log}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, user string, tileID string, records []targets.Record) (result SavedList, retErr error) {
	savedAt := s.clock.GetTimeNow()
	listID := s.idGen.GenObjectID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SavedList{}, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `INSERT INTO target_lists (id, user, tile_id, saved_unix_sec) VALUES (?, ?, ?, ?)`, listID, user, tileID, savedAt.Unix()); err != nil {
		return SavedList{}, errors.Wrap(err, "failed to save target list")
	}

	for c, rec := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO targets (list_id, seq, id, ra, dec, label, created_unix_ns) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			listID, c, rec.ID, rec.Sky.RA, rec.Sky.Dec, rec.Label, rec.CreatedAt.UnixNano(),
		)
		if err != nil {
			return SavedList{}, errors.Wrapf(err, "failed to save target %v", rec.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return SavedList{}, err
	}

	s.log.Infof("Saved %v targets for %v as list %v", len(records), user, listID)
	return SavedList{ID: listID, User: user, TileID: tileID, SavedAt: savedAt, Count: len(records)}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) ([]targets.Record, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM target_lists WHERE id = ?`, id).Scan(&count); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.Wrap(ErrListNotFound, id)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, ra, dec, label, created_unix_ns FROM targets WHERE list_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read target list %v", id)
	}
	defer func() { _ = rows.Close() }()

	result := []targets.Record{}
	for rows.Next() {
		var rec targets.Record
		var ns int64
		if err := rows.Scan(&rec.ID, &rec.Sky.RA, &rec.Sky.Dec, &rec.Label, &ns); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.Unix(0, ns).UTC()
		result = append(result, rec)
	}
	return result, rows.Err()
}
