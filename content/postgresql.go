// content/postgresql.go
package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore is the database/sql variant of the custom theme store, for
// deployments that prefer raw SQL over GORM.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(host string, port int, user, password, dbname string) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS custom_themes (
            id SERIAL PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            access_code VARCHAR(64) UNIQUE NOT NULL,
            entries JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_custom_themes_access_code ON custom_themes(access_code);
    `)
	return err
}

func (s *PostgresStore) CustomTheme(ctx context.Context, accessCode string) (*Theme, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var name string
	var data []byte
	query := `SELECT name, entries FROM custom_themes WHERE access_code = $1`
	err := s.db.QueryRowContext(ctx, query, accessCode).Scan(&name, &data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrThemeNotFound
		}
		return nil, err
	}

	var entries []WordEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	return &Theme{Name: name, AccessCode: accessCode, Entries: entries}, nil
}

func (s *PostgresStore) SaveCustomTheme(ctx context.Context, theme *Theme) error {
	data, err := json.Marshal(theme.Entries)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO custom_themes (name, access_code, entries)
        VALUES ($1, $2, $3)
        ON CONFLICT (access_code)
        DO UPDATE SET name = $1, entries = $3, updated_at = CURRENT_TIMESTAMP
    `
	_, err = s.db.ExecContext(ctx, query, theme.Name, theme.AccessCode, data)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
