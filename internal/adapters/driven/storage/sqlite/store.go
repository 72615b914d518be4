package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/aa-dank/file-code-tagger/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to all
// catalogue and pipeline store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.filetagger/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".filetagger", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	// Open database with WAL mode for better concurrency. Pragmas go in
	// the DSN so every pooled connection gets them, foreign_keys included.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// FileStore returns a FileStore interface backed by this store.
func (s *Store) FileStore() driven.FileStore {
	return &fileStore{store: s}
}

// TagStore returns a TagStore interface backed by this store.
func (s *Store) TagStore() driven.TagStore {
	return &tagStore{store: s}
}

// LabelStore returns a LabelStore interface backed by this store.
func (s *Store) LabelStore() driven.LabelStore {
	return &labelStore{store: s}
}

// ContentStore returns a ContentStore interface backed by this store.
func (s *Store) ContentStore() driven.ContentStore {
	return &contentStore{store: s}
}

// ExclusionStore returns an ExclusionStore interface backed by this store.
func (s *Store) ExclusionStore() driven.ExclusionStore {
	return &exclusionStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Catalogue Writes ====================
//
// The pipeline itself never writes to files, file_locations or
// filing_tags; these methods serve the catalogue import command and tests.

// InsertFile stores a file row and its locations.
func (s *Store) InsertFile(ctx context.Context, file domain.File) error {
	if file.Hash == "" {
		return fmt.Errorf("%w: file hash is empty", domain.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (hash, size, extension)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			size = excluded.size,
			extension = excluded.extension
	`, file.Hash, file.Size, file.Extension)
	if err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	for _, loc := range file.Locations {
		if err := s.InsertLocation(ctx, file.Hash, loc); err != nil {
			return err
		}
	}
	return nil
}

// InsertLocation stores one location row for a file.
func (s *Store) InsertLocation(ctx context.Context, fileHash string, loc domain.Location) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO file_locations (file_hash, server_directories, filename, existence_confirmed, hash_confirmed)
		VALUES (?, ?, ?, ?, ?)
	`, fileHash, loc.ServerDirectories, loc.Filename,
		nullTime(loc.ExistenceConfirmed), nullTime(loc.HashConfirmed))
	if err != nil {
		return fmt.Errorf("saving location: %w", err)
	}
	return nil
}

// InsertTag stores a taxonomy tag.
func (s *Store) InsertTag(ctx context.Context, tag domain.Tag) error {
	if tag.Label == "" {
		return fmt.Errorf("%w: tag label is empty", domain.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO filing_tags (label, parent_label, description, importance_rank, confidence_floor)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(label) DO UPDATE SET
			parent_label = excluded.parent_label,
			description = excluded.description,
			importance_rank = excluded.importance_rank,
			confidence_floor = excluded.confidence_floor
	`, tag.Label, nullString(tag.ParentLabel), tag.Description, tag.ImportanceRank, tag.ConfidenceFloor)
	if err != nil {
		return fmt.Errorf("saving tag: %w", err)
	}
	return nil
}

// InsertRule stores a path pattern rule.
func (s *Store) InsertRule(ctx context.Context, rule domain.ExclusionRule) error {
	contextsJSON, err := json.Marshal(rule.Contexts)
	if err != nil {
		return fmt.Errorf("marshalling rule contexts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO path_patterns (pattern, pattern_type, treatment, contexts, enabled)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(pattern) DO UPDATE SET
			pattern_type = excluded.pattern_type,
			treatment = excluded.treatment,
			contexts = excluded.contexts,
			enabled = excluded.enabled
	`, rule.Pattern, string(rule.Type), rule.Treatment, string(contextsJSON), rule.Enabled)
	if err != nil {
		return fmt.Errorf("saving rule: %w", err)
	}
	return nil
}

// ==================== File Store ====================

// fileStore implements driven.FileStore.
type fileStore struct {
	store *Store
}

var _ driven.FileStore = (*fileStore)(nil)

// GetByHash retrieves a file and its locations by content hash.
func (s *fileStore) GetByHash(ctx context.Context, hash string) (*domain.File, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT hash, size, extension FROM files WHERE hash = ?
	`, hash)

	var file domain.File
	if err := row.Scan(&file.Hash, &file.Size, &file.Extension); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning file: %w", err)
	}

	locations, err := s.loadLocations(ctx, file.Hash)
	if err != nil {
		return nil, err
	}
	file.Locations = locations

	return &file, nil
}

// SelectByTag returns candidate files with a location filed under the
// tag's directory naming.
func (s *fileStore) SelectByTag(ctx context.Context, tag domain.Tag, filter domain.SelectionFilter) ([]domain.File, error) {
	where := `EXISTS (
		SELECT 1 FROM file_locations l
		WHERE l.file_hash = f.hash
		  AND instr(lower(l.server_directories), lower(?)) > 0
	)`
	return s.selectFiles(ctx, where, []any{tag.FullLabel()}, filter)
}

// SelectByLocation returns candidate files with a location equal to or
// under serverDirs.
func (s *fileStore) SelectByLocation(ctx context.Context, serverDirs string, filter domain.SelectionFilter) ([]domain.File, error) {
	where := `EXISTS (
		SELECT 1 FROM file_locations l
		WHERE l.file_hash = f.hash
		  AND (l.server_directories = ?
		       OR substr(l.server_directories, 1, length(?) + 1) = ? || '/')
	)`
	return s.selectFiles(ctx, where, []any{serverDirs, serverDirs, serverDirs}, filter)
}

// selectFiles runs a candidate selection query with the shared filter
// clauses applied.
func (s *fileStore) selectFiles(ctx context.Context, where string, args []any, filter domain.SelectionFilter) ([]domain.File, error) {
	query := "SELECT f.hash, f.size, f.extension FROM files f WHERE " + where

	if filter.MaxBytes > 0 {
		query += " AND f.size <= ?"
		args = append(args, filter.MaxBytes)
	}
	if filter.ExcludeEmbedded {
		query += " AND NOT EXISTS (SELECT 1 FROM file_contents c WHERE c.file_hash = f.hash)"
	}
	if filter.Randomize {
		query += " ORDER BY RANDOM()"
	} else {
		query += " ORDER BY f.hash"
	}
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []domain.File //nolint:prealloc // size unknown from query
	for rows.Next() {
		var file domain.File
		if err := rows.Scan(&file.Hash, &file.Size, &file.Extension); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}

	for i := range files {
		locations, err := s.loadLocations(ctx, files[i].Hash)
		if err != nil {
			return nil, err
		}
		files[i].Locations = locations
	}

	return files, nil
}

// loadLocations retrieves all location rows for a file.
func (s *fileStore) loadLocations(ctx context.Context, fileHash string) ([]domain.Location, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, file_hash, server_directories, filename, existence_confirmed, hash_confirmed
		FROM file_locations WHERE file_hash = ?
		ORDER BY id
	`, fileHash)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	var locations []domain.Location //nolint:prealloc // size unknown from query
	for rows.Next() {
		var loc domain.Location
		var existenceConfirmed, hashConfirmed sql.NullTime
		if err := rows.Scan(&loc.ID, &loc.FileHash, &loc.ServerDirectories, &loc.Filename,
			&existenceConfirmed, &hashConfirmed); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		if existenceConfirmed.Valid {
			loc.ExistenceConfirmed = existenceConfirmed.Time
		}
		if hashConfirmed.Valid {
			loc.HashConfirmed = hashConfirmed.Time
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locations: %w", err)
	}

	return locations, nil
}

// ==================== Tag Store ====================

// tagStore implements driven.TagStore.
type tagStore struct {
	store *Store
}

var _ driven.TagStore = (*tagStore)(nil)

// GetByLabel retrieves a tag by its bare label.
func (s *tagStore) GetByLabel(ctx context.Context, label string) (*domain.Tag, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT label, parent_label, description, importance_rank, confidence_floor
		FROM filing_tags WHERE label = ?
	`, label)

	var tag domain.Tag
	var parentLabel sql.NullString
	if err := row.Scan(&tag.Label, &parentLabel, &tag.Description,
		&tag.ImportanceRank, &tag.ConfidenceFloor); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tag %q: %w", label, domain.ErrTagNotFound)
		}
		return nil, fmt.Errorf("scanning tag: %w", err)
	}
	tag.ParentLabel = parentLabel.String

	return &tag, nil
}

// List returns every tag in the taxonomy.
func (s *tagStore) List(ctx context.Context) ([]domain.Tag, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT label, parent_label, description, importance_rank, confidence_floor
		FROM filing_tags
		ORDER BY label
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag //nolint:prealloc // size unknown from query
	for rows.Next() {
		var tag domain.Tag
		var parentLabel sql.NullString
		if err := rows.Scan(&tag.Label, &parentLabel, &tag.Description,
			&tag.ImportanceRank, &tag.ConfidenceFloor); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tag.ParentLabel = parentLabel.String
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	return tags, nil
}

// ==================== Label Store ====================

// labelStore implements driven.LabelStore.
type labelStore struct {
	store *Store
}

var _ driven.LabelStore = (*labelStore)(nil)

// Exists reports whether the (file, tag) pair is already labelled.
func (s *labelStore) Exists(ctx context.Context, fileHash, tag string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM file_tag_labels WHERE file_hash = ? AND tag = ?
	`, fileHash, tag).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking label: %w", err)
	}
	return count > 0, nil
}

// Add inserts a label. Re-inserting an existing (file, tag) pair leaves
// the stored row untouched.
func (s *labelStore) Add(ctx context.Context, label domain.TagLabel) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO file_tag_labels (file_hash, tag, is_primary, source, split)
		VALUES (?, ?, ?, ?, ?)
	`, label.FileHash, label.Tag, label.IsPrimary, string(label.Source), label.Split)
	if err != nil {
		return fmt.Errorf("adding label: %w", err)
	}
	return nil
}

// AddAll inserts the labels inside one transaction, so a mid-batch
// failure leaves no partial set behind. Existing (file, tag) pairs are
// left untouched.
func (s *labelStore) AddAll(ctx context.Context, labels []domain.TagLabel) (int, error) {
	if len(labels) == 0 {
		return 0, nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning label transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	applied := 0
	for _, label := range labels {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO file_tag_labels (file_hash, tag, is_primary, source, split)
			VALUES (?, ?, ?, ?, ?)
		`, label.FileHash, label.Tag, label.IsPrimary, string(label.Source), label.Split)
		if err != nil {
			return 0, fmt.Errorf("adding label %s/%s: %w", label.FileHash, label.Tag, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("adding label %s/%s: %w", label.FileHash, label.Tag, err)
		}
		applied += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing labels: %w", err)
	}
	return applied, nil
}

// ListByFile returns all labels recorded for a file.
func (s *labelStore) ListByFile(ctx context.Context, fileHash string) ([]domain.TagLabel, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT file_hash, tag, is_primary, source, split
		FROM file_tag_labels WHERE file_hash = ?
		ORDER BY tag
	`, fileHash)
	if err != nil {
		return nil, fmt.Errorf("querying labels: %w", err)
	}
	defer rows.Close()

	var labels []domain.TagLabel //nolint:prealloc // size unknown from query
	for rows.Next() {
		var label domain.TagLabel
		var source string
		if err := rows.Scan(&label.FileHash, &label.Tag, &label.IsPrimary, &source, &label.Split); err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		label.Source = domain.LabelSource(source)
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating labels: %w", err)
	}

	return labels, nil
}

// ==================== Content Store ====================

// contentStore implements driven.ContentStore.
type contentStore struct {
	store *Store
}

var _ driven.ContentStore = (*contentStore)(nil)

// Save stores or updates a content row. The write is committed before
// Save returns.
func (s *contentStore) Save(ctx context.Context, content domain.Content) error {
	if content.UpdatedAt.IsZero() {
		content.UpdatedAt = time.Now().UTC()
	}

	embeddingBlob := float32SliceToBytes(content.Embedding)

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO file_contents (file_hash, source_text, text_length, model_name, embedding, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_hash) DO UPDATE SET
			source_text = excluded.source_text,
			text_length = excluded.text_length,
			model_name = excluded.model_name,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`, content.FileHash, content.SourceText, content.TextLength,
		content.ModelName, embeddingBlob, content.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving content: %w", err)
	}
	return nil
}

// Get retrieves the content row for a file.
func (s *contentStore) Get(ctx context.Context, fileHash string) (*domain.Content, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT file_hash, source_text, text_length, model_name, embedding, updated_at
		FROM file_contents WHERE file_hash = ?
	`, fileHash)

	content, err := scanContent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return content, err
}

// Exists reports whether a content row exists for the file.
func (s *contentStore) Exists(ctx context.Context, fileHash string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM file_contents WHERE file_hash = ?
	`, fileHash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking content: %w", err)
	}
	return count > 0, nil
}

// List returns every stored content row.
func (s *contentStore) List(ctx context.Context) ([]domain.Content, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT file_hash, source_text, text_length, model_name, embedding, updated_at
		FROM file_contents
	`)
	if err != nil {
		return nil, fmt.Errorf("querying contents: %w", err)
	}
	defer rows.Close()

	var contents []domain.Content //nolint:prealloc // size unknown from query
	for rows.Next() {
		content, err := scanContent(rows.Scan)
		if err != nil {
			return nil, err
		}
		contents = append(contents, *content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contents: %w", err)
	}

	return contents, nil
}

// scanContent scans one content row via the given Scan function.
func scanContent(scan func(dest ...any) error) (*domain.Content, error) {
	var content domain.Content
	var embeddingBlob []byte
	var updatedAt sql.NullTime

	if err := scan(&content.FileHash, &content.SourceText, &content.TextLength,
		&content.ModelName, &embeddingBlob, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning content: %w", err)
	}

	content.Embedding = bytesToFloat32Slice(embeddingBlob)
	if updatedAt.Valid {
		content.UpdatedAt = updatedAt.Time
	}

	return &content, nil
}

// ==================== Exclusion Store ====================

// exclusionStore implements driven.ExclusionStore.
type exclusionStore struct {
	store *Store
}

var _ driven.ExclusionStore = (*exclusionStore)(nil)

// ActiveRules returns all enabled rules with the given treatment.
func (s *exclusionStore) ActiveRules(ctx context.Context, treatment string) ([]domain.ExclusionRule, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, pattern, pattern_type, treatment, contexts, enabled
		FROM path_patterns
		WHERE treatment = ? AND enabled = 1
		ORDER BY id
	`, treatment)
	if err != nil {
		return nil, fmt.Errorf("querying rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.ExclusionRule //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rule domain.ExclusionRule
		var patternType, contextsJSON string
		if err := rows.Scan(&rule.ID, &rule.Pattern, &patternType,
			&rule.Treatment, &contextsJSON, &rule.Enabled); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}
		rule.Type = domain.PatternType(patternType)
		if contextsJSON != "" {
			if err := json.Unmarshal([]byte(contextsJSON), &rule.Contexts); err != nil {
				return nil, fmt.Errorf("unmarshalling rule contexts: %w", err)
			}
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return rules, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
