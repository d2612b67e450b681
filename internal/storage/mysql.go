package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"tda/internal/domain"
)

const createCasesTable = `CREATE TABLE IF NOT EXISTS discovered_cases (
	id CHAR(36) NOT NULL PRIMARY KEY,
	fully_qualified_name VARCHAR(1024) NOT NULL,
	display_name VARCHAR(512) NOT NULL,
	executor_uri VARCHAR(255) NOT NULL,
	source VARCHAR(1024) NOT NULL,
	engine_id VARCHAR(255) NOT NULL DEFAULT '',
	class_name VARCHAR(1024) NOT NULL DEFAULT '',
	method_name VARCHAR(512) NOT NULL DEFAULT '',
	categories TEXT,
	position INT NOT NULL,
	adapter_version VARCHAR(64) NOT NULL DEFAULT '',
	discovered_at DATETIME NOT NULL
)`

const upsertCase = `INSERT INTO discovered_cases
	(id, fully_qualified_name, display_name, executor_uri, source, engine_id, class_name, method_name, categories, position, adapter_version, discovered_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
	fully_qualified_name = VALUES(fully_qualified_name),
	display_name = VALUES(display_name),
	engine_id = VALUES(engine_id),
	class_name = VALUES(class_name),
	method_name = VALUES(method_name),
	categories = VALUES(categories),
	position = VALUES(position),
	adapter_version = VALUES(adapter_version),
	discovered_at = VALUES(discovered_at)`

const selectCases = `SELECT id, fully_qualified_name, display_name, executor_uri, source, engine_id, class_name, method_name, categories, position, adapter_version, discovered_at
FROM discovered_cases
WHERE discovered_at = (SELECT MAX(discovered_at) FROM discovered_cases)
ORDER BY position`

// MySQLStore keeps a catalog of discovered cases in MySQL, one row per
// case id. Re-discovering a case updates its row.
type MySQLStore struct {
	db *sql.DB
}

// OpenMySQL connects to dsn and creates the catalog table if needed.
func OpenMySQL(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}

	if _, err := db.Exec(createCasesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create discovered_cases table: %w", err)
	}
	return &MySQLStore{db: db}, nil
}

// Save upserts every case of output in one transaction.
func (s *MySQLStore) Save(output *domain.DiscoveryOutput) error {
	discoveredAt, err := time.Parse(time.RFC3339, output.Meta.Timestamp)
	if err != nil {
		discoveredAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertCase)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i, c := range output.Cases {
		if _, err := stmt.Exec(
			c.ID, c.FullyQualifiedName, c.DisplayName, c.ExecutorURI, c.Source,
			c.EngineID, c.ClassName, c.MethodName, joinCategories(c.Categories),
			i, output.Meta.AdapterVersion, discoveredAt.UTC(),
		); err != nil {
			return fmt.Errorf("save case %s: %w", c.FullyQualifiedName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// catalogRow is one scanned discovered_cases row.
type catalogRow struct {
	c        domain.DiscoveredCase
	position int
	version  string
	at       time.Time
}

// Load returns the cases recorded by the most recent Save, in discovery
// order. Cases from earlier runs stay in the catalog but are not returned.
func (s *MySQLStore) Load() (*domain.DiscoveryOutput, error) {
	rows, err := s.db.Query(selectCases)
	if err != nil {
		return nil, fmt.Errorf("query discovered cases: %w", err)
	}
	defer rows.Close()

	var catalog []catalogRow
	for rows.Next() {
		var r catalogRow
		var categories sql.NullString
		if err := rows.Scan(&r.c.ID, &r.c.FullyQualifiedName, &r.c.DisplayName, &r.c.ExecutorURI, &r.c.Source,
			&r.c.EngineID, &r.c.ClassName, &r.c.MethodName, &categories, &r.position, &r.version, &r.at); err != nil {
			return nil, fmt.Errorf("scan discovered case: %w", err)
		}
		r.c.Categories = splitCategories(categories.String)
		catalog = append(catalog, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read discovered cases: %w", err)
	}
	return latestRun(catalog), nil
}

// latestRun keeps the rows sharing the newest discovered_at, ordered by
// their position in that run.
func latestRun(catalog []catalogRow) *domain.DiscoveryOutput {
	output := &domain.DiscoveryOutput{Cases: []domain.DiscoveredCase{}}

	var latest time.Time
	for _, r := range catalog {
		if r.at.After(latest) {
			latest = r.at
		}
	}
	if latest.IsZero() {
		return output
	}

	var run []catalogRow
	for _, r := range catalog {
		if r.at.Equal(latest) {
			run = append(run, r)
		}
	}
	sort.SliceStable(run, func(i, j int) bool { return run[i].position < run[j].position })

	sources := make(map[string]bool)
	for _, r := range run {
		output.Cases = append(output.Cases, r.c)
		sources[r.c.Source] = true
		output.Meta.AdapterVersion = r.version
	}
	output.Meta.TotalSources = len(sources)
	output.Meta.DiscoveredCases = len(output.Cases)
	output.Meta.Timestamp = latest.Format(time.RFC3339)
	return output
}

// Close closes the database handle.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func joinCategories(categories []string) string {
	return strings.Join(categories, ",")
}

func splitCategories(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
