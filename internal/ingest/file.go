// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/songgraph/internal/logging"
	"github.com/tomtom215/songgraph/internal/metrics"
)

// Column layout of the song file.
const songNameColumn = 9

var songAttributeColumns = []struct {
	index int
	name  string
}{
	{1, AttrEnergy},
	{6, AttrLiveness},
	{7, AttrLoudness},
	{13, AttrTempo},
}

// maxPlaylistLine bounds a single playlist line.
const maxPlaylistLine = 4 * 1024 * 1024

// FileSource reads the song catalogue and playlists from flat files.
type FileSource struct {
	SongPath     string
	PlaylistPath string
}

// NewFileSource creates a FileSource.
func NewFileSource(songPath, playlistPath string) *FileSource {
	return &FileSource{SongPath: songPath, PlaylistPath: playlistPath}
}

// Name identifies the source in logs and status output.
func (s *FileSource) Name() string {
	return "file"
}

// Load parses both files.
func (s *FileSource) Load(ctx context.Context) (*Dataset, error) {
	songs, err := readFile(s.SongPath, ParseSongs)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	playlists, err := readFile(s.PlaylistPath, ParsePlaylists)
	if err != nil {
		return nil, err
	}

	metrics.RecordIngest("song", len(songs))
	metrics.RecordIngest("playlist", len(playlists))
	log := logging.WithComponent("ingest")
	log.Debug().
		Str("songs_file", s.SongPath).
		Str("playlists_file", s.PlaylistPath).
		Int("songs", len(songs)).
		Int("playlists", len(playlists)).
		Msg("Loaded flat files")

	return &Dataset{Songs: songs, Playlists: playlists}, nil
}

func readFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// ParseSongs reads a song file. The first row is a header and is skipped.
func ParseSongs(r io.Reader) ([]Song, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var songs []Song
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return songs, nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			line := 0
			if errors.As(err, &parseErr) {
				line = parseErr.Line
			}
			return nil, malformed("songs", line, "%v", err)
		}

		line, _ := reader.FieldPos(0)
		song, err := parseSongRow(row, line)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
}

func parseSongRow(row []string, line int) (Song, error) {
	minColumns := songNameColumn + 1
	for _, col := range songAttributeColumns {
		if col.index+1 > minColumns {
			minColumns = col.index + 1
		}
	}
	if len(row) < minColumns {
		return Song{}, malformed("songs", line, "want at least %d columns, got %d", minColumns, len(row))
	}

	name := strings.TrimSpace(row[songNameColumn])
	if name == "" {
		return Song{}, malformed("songs", line, "empty song name")
	}

	attrs := make(map[string]float64, len(songAttributeColumns))
	for _, col := range songAttributeColumns {
		value, err := strconv.ParseFloat(strings.TrimSpace(row[col.index]), 64)
		if err != nil {
			return Song{}, malformed("songs", line, "%s %q is not a number", col.name, row[col.index])
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return Song{}, malformed("songs", line, "%s %q is not finite", col.name, row[col.index])
		}
		attrs[col.name] = value
	}

	return Song{Name: name, Attributes: attrs}, nil
}

// ParsePlaylists reads a playlist file. Every line is one user, numbered from 1,
// holding comma-separated song names. Blank tokens are dropped; a blank line
// still yields a user with an empty playlist.
func ParsePlaylists(r io.Reader) ([]Playlist, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxPlaylistLine)

	var playlists []Playlist
	for n := 1; scanner.Scan(); n++ {
		tokens := strings.Split(scanner.Text(), ",")
		songs := make([]string, 0, len(tokens))
		for _, token := range tokens {
			if token = strings.TrimSpace(token); token != "" {
				songs = append(songs, token)
			}
		}
		playlists = append(playlists, Playlist{UserID: UserID(n), Songs: songs})
	}
	if err := scanner.Err(); err != nil {
		return nil, malformed("playlists", len(playlists)+1, "%v", err)
	}
	return playlists, nil
}
