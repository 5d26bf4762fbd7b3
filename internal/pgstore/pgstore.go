package pgstore

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"campus-rag/internal/config"
	"campus-rag/internal/models"
	"campus-rag/internal/vectordb"
)

// Document is the persisted row for one indexed chunk. The vector dimension
// matches the all-MiniLM-L6-v2 embedding family.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`
	ID            int64             `bun:"id,pk,autoincrement"`
	Content       string            `bun:"content,notnull"`
	Metadata      map[string]string `bun:"metadata,type:jsonb"`
	Embedding     []float32         `bun:"embedding,notnull,type:vector(384)"`
}

// Store implements the vector store over Postgres with the pgvector
// extension, for deployments that keep the index in a managed database
// instead of on local disk.
type Store struct {
	db *bun.DB
}

var _ vectordb.Store = (*Store)(nil)

func Connect(cfg *config.DatabaseConfig) *Store {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn(cfg.URL)), pgdriver.WithPassword(cfg.Password())))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Store{db: db}
}

// Reset drops and recreates the documents table for a full rebuild.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.NewDropTable().Model((*Document)(nil)).IfExists().Exec(ctx); err != nil {
		return err
	}
	_, err := s.db.NewCreateTable().Model((*Document)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *Store) Add(ctx context.Context, docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}
	rows := make([]Document, len(docs))
	for i, doc := range docs {
		rows[i] = Document{
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: doc.Embedding,
		}
	}
	_, err := s.db.NewInsert().Model(&rows).Exec(ctx)
	return err
}

type searchRow struct {
	Content  string            `bun:"content"`
	Metadata map[string]string `bun:"metadata"`
	Score    float32           `bun:"score"`
}

func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]models.SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}
	var rows []searchRow
	err := s.db.NewSelect().
		Model((*Document)(nil)).
		Column("content", "metadata").
		ColumnExpr("1 - (embedding <=> ?) AS score", embedding).
		OrderExpr("embedding <=> ?", embedding).
		Limit(k).
		Scan(ctx, &rows)
	if err != nil {
		return nil, wrapMissingTable(err)
	}
	out := make([]models.SearchResult, len(rows))
	for i, row := range rows {
		out[i] = models.SearchResult{
			Content:    row.Content,
			Metadata:   row.Metadata,
			Similarity: row.Score,
		}
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*Document)(nil)).Count(ctx)
	if err != nil {
		return 0, wrapMissingTable(err)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// dsn defaults sslmode to disable when the URL does not choose one, leaving
// an explicit sslmode and any other query parameters untouched.
func dsn(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// wrapMissingTable maps "relation does not exist" onto the not-built-yet
// state so callers see the same signal as with the on-disk store.
func wrapMissingTable(err error) error {
	if err != nil && strings.Contains(err.Error(), "does not exist") {
		return vectordb.ErrNotFound
	}
	return err
}
