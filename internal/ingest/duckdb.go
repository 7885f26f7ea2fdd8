// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver

	"github.com/tomtom215/songgraph/internal/logging"
	"github.com/tomtom215/songgraph/internal/metrics"
)

// songColumns maps catalogue table columns to attribute names.
var songColumns = []struct {
	column    string
	attribute string
}{
	{"energy", AttrEnergy},
	{"liveness", AttrLiveness},
	{"loudness", AttrLoudness},
	{"tempo", AttrTempo},
}

// DuckDBSource reads songs and playlists from a DuckDB catalog database.
//
// Expected schema:
//
//	songs(name VARCHAR, energy DOUBLE, liveness DOUBLE, loudness DOUBLE, tempo DOUBLE)
//	playlist_entries(user_id BIGINT, position INTEGER, song VARCHAR)
type DuckDBSource struct {
	conn          *sql.DB
	path          string
	songsTable    string
	playlistTable string
}

// NewDuckDBSource opens the database at path. Table names default to
// "songs" and "playlist_entries" when empty.
func NewDuckDBSource(path, songsTable, playlistTable string) (*DuckDBSource, error) {
	if songsTable == "" {
		songsTable = "songs"
	}
	if playlistTable == "" {
		playlistTable = "playlist_entries"
	}

	conn, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb %s: %w", path, err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping duckdb %s: %w", path, err)
	}

	return &DuckDBSource{
		conn:          conn,
		path:          path,
		songsTable:    songsTable,
		playlistTable: playlistTable,
	}, nil
}

// Name identifies the source in logs and status output.
func (s *DuckDBSource) Name() string {
	return "duckdb"
}

// Close releases the database handle.
func (s *DuckDBSource) Close() error {
	return s.conn.Close()
}

// Load reads the catalogue and all playlist entries.
func (s *DuckDBSource) Load(ctx context.Context) (*Dataset, error) {
	songs, err := s.loadSongs(ctx)
	if err != nil {
		return nil, err
	}
	playlists, err := s.loadPlaylists(ctx)
	if err != nil {
		return nil, err
	}

	metrics.RecordIngest("song", len(songs))
	metrics.RecordIngest("playlist", len(playlists))
	log := logging.WithComponent("ingest")
	log.Debug().
		Str("database", s.path).
		Int("songs", len(songs)).
		Int("playlists", len(playlists)).
		Msg("Loaded catalog database")

	return &Dataset{Songs: songs, Playlists: playlists}, nil
}

func (s *DuckDBSource) loadSongs(ctx context.Context) (songs []Song, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("SELECT", s.songsTable, time.Since(start), err) }()

	columns := make([]string, 0, len(songColumns)+1)
	columns = append(columns, "name")
	for _, c := range songColumns {
		columns = append(columns, c.column)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY name", strings.Join(columns, ", "), quoteIdent(s.songsTable))

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.songsTable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		values := make([]sql.NullFloat64, len(songColumns))
		dest := make([]interface{}, 0, len(songColumns)+1)
		dest = append(dest, &name)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.songsTable, err)
		}

		attrs := make(map[string]float64, len(songColumns))
		for i, c := range songColumns {
			if !values[i].Valid {
				return nil, fmt.Errorf("song %q: %w: %s is NULL", name, ErrMalformedRecord, c.column)
			}
			attrs[c.attribute] = values[i].Float64
		}
		songs = append(songs, Song{Name: name, Attributes: attrs})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.songsTable, err)
	}
	return songs, nil
}

// loadPlaylists groups entries by user_id. Users are numbered by their stored id.
func (s *DuckDBSource) loadPlaylists(ctx context.Context) (playlists []Playlist, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("SELECT", s.playlistTable, time.Since(start), err) }()

	query := fmt.Sprintf("SELECT user_id, song FROM %s ORDER BY user_id, position", quoteIdent(s.playlistTable))

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.playlistTable, err)
	}
	defer rows.Close()

	current := int64(-1)
	for rows.Next() {
		var userID int64
		var song string
		if err := rows.Scan(&userID, &song); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.playlistTable, err)
		}
		if userID != current || len(playlists) == 0 {
			playlists = append(playlists, Playlist{UserID: UserID(int(userID))})
			current = userID
		}
		if song = strings.TrimSpace(song); song != "" {
			last := &playlists[len(playlists)-1]
			last.Songs = append(last.Songs, song)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.playlistTable, err)
	}
	return playlists, nil
}

// Import creates the catalogue tables if needed and replaces their contents
// with ds in a single transaction. Playlist users are stored by position in
// ds.Playlists, counting from 1.
func (s *DuckDBSource) Import(ctx context.Context, ds *Dataset) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("IMPORT", s.songsTable, time.Since(start), err) }()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err := s.createTables(ctx, tx); err != nil {
		return err
	}

	songs, playlists := quoteIdent(s.songsTable), quoteIdent(s.playlistTable)
	for _, stmt := range []string{"DELETE FROM " + playlists, "DELETE FROM " + songs} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	insertSong := fmt.Sprintf("INSERT INTO %s (name, energy, liveness, loudness, tempo) VALUES (?, ?, ?, ?, ?)", songs)
	for _, song := range uniqueSongs(ds.Songs) {
		args := make([]interface{}, 0, len(songColumns)+1)
		args = append(args, song.Name)
		for _, c := range songColumns {
			args = append(args, song.Attributes[c.attribute])
		}
		if _, err := tx.ExecContext(ctx, insertSong, args...); err != nil {
			return fmt.Errorf("insert song %q: %w", song.Name, err)
		}
	}

	insertEntry := fmt.Sprintf("INSERT INTO %s (user_id, position, song) VALUES (?, ?, ?)", playlists)
	for i, p := range ds.Playlists {
		for pos, song := range p.Songs {
			if _, err := tx.ExecContext(ctx, insertEntry, i+1, pos, song); err != nil {
				return fmt.Errorf("insert playlist entry for user %d: %w", i+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	log := logging.WithComponent("ingest")
	log.Info().
		Str("database", s.path).
		Int("songs", len(ds.Songs)).
		Int("playlists", len(ds.Playlists)).
		Msg("Imported dataset into catalog database")
	return nil
}

func (s *DuckDBSource) createTables(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			name VARCHAR NOT NULL,
			energy DOUBLE NOT NULL,
			liveness DOUBLE NOT NULL,
			loudness DOUBLE NOT NULL,
			tempo DOUBLE NOT NULL
		)`, quoteIdent(s.songsTable)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			user_id BIGINT NOT NULL,
			position INTEGER NOT NULL,
			song VARCHAR NOT NULL
		)`, quoteIdent(s.playlistTable)),
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// uniqueSongs drops earlier duplicates by name, keeping first-seen order.
func uniqueSongs(songs []Song) []Song {
	last := make(map[string]int, len(songs))
	for i, s := range songs {
		last[s.Name] = i
	}
	out := make([]Song, 0, len(last))
	for i, s := range songs {
		if last[s.Name] == i {
			out = append(out, s)
		}
	}
	return out
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close duckdb connection")
	}
}
