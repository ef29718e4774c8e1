package sqlstore

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/resumid-ai/resumid/app/store"
	"github.com/resumid-ai/resumid/pkg/register"
	"github.com/resumid-ai/resumid/pkg/sqlstore"
	"github.com/resumid-ai/resumid/pkg/types"
)

func init() {
	sq.StatementBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

var provider = &Provider{
	stores: &Stores{},
}

func GetProvider() *Provider {
	return provider
}

type Provider struct {
	*sqlstore.SqlProvider
	stores *Stores

	vectorIndex bool
}

type Stores struct {
	store.KnowledgeChunkStore
	store.VectorStore
	store.ProjectStore
	store.BulletPointStore
	store.BranchStore
	store.PageStore
	store.AudioSummaryStore
}

type RegisterKey struct{}

func MustSetup(m sqlstore.ConnectConfig, s ...sqlstore.ConnectConfig) func() *Provider {
	provider.SqlProvider = sqlstore.MustSetupProvider(m, s...)

	for _, f := range register.ResolveFuncHandlers[*Provider](RegisterKey{}) {
		f(provider)
	}

	provider.probeVectorIndex()

	return func() *Provider {
		return provider
	}
}

// probeVectorIndex checks once at startup whether the pgvector extension is
// installed. Without it nearest neighbor queries fall back to a full scan.
func (p *Provider) probeVectorIndex() {
	var count int
	err := p.GetMaster().Get(&count, "SELECT COUNT(*) FROM pg_extension WHERE extname = 'vector'")
	if err != nil {
		slog.Warn("failed to probe pgvector extension, falling back to scan search", slog.String("error", err.Error()))
		p.vectorIndex = false
		return
	}
	p.vectorIndex = count > 0
}

func (p *Provider) HasVectorIndex() bool {
	return p.vectorIndex
}

// Install applies unexecuted migration files in lexical order.
func (p *Provider) Install() error {
	if err := p.enableExtensions(); err != nil {
		return err
	}

	if err := p.ensureMigrationTable(); err != nil {
		return err
	}

	files, err := CreateTableFiles.ReadDir(".")
	if err != nil {
		return err
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		if executed, err := p.isFileExecuted(file.Name()); err != nil {
			return err
		} else if executed {
			continue
		}

		content, err := CreateTableFiles.ReadFile(file.Name())
		if err != nil {
			return err
		}

		if _, err = p.GetMaster().Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file.Name(), err)
		}

		if err = p.markFileExecuted(file.Name()); err != nil {
			return err
		}
	}

	p.probeVectorIndex()
	return nil
}

func (p *Provider) enableExtensions() error {
	extensions := []string{
		"CREATE EXTENSION IF NOT EXISTS vector;",
	}

	for _, ext := range extensions {
		if _, err := p.GetMaster().Exec(ext); err != nil {
			slog.Warn("failed to enable extension", slog.String("sql", ext), slog.String("error", err.Error()))
		}
	}
	return nil
}

func (p *Provider) ensureMigrationTable() error {
	createTableSQL := `
CREATE TABLE IF NOT EXISTS ` + types.TABLE_PREFIX + `schema_migrations (
    filename VARCHAR(255) PRIMARY KEY,
    executed_at BIGINT NOT NULL
);`
	_, err := p.GetMaster().Exec(createTableSQL)
	return err
}

func (p *Provider) isFileExecuted(filename string) (bool, error) {
	var count int
	err := p.GetReplica().Get(&count,
		"SELECT COUNT(*) FROM "+types.TABLE_PREFIX+"schema_migrations WHERE filename = $1", filename)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *Provider) markFileExecuted(filename string) error {
	_, err := p.GetMaster().Exec(
		"INSERT INTO "+types.TABLE_PREFIX+"schema_migrations (filename, executed_at) VALUES ($1, $2) ON CONFLICT (filename) DO NOTHING",
		filename, time.Now().Unix())
	return err
}

func (p *Provider) KnowledgeChunkStore() store.KnowledgeChunkStore {
	return p.stores.KnowledgeChunkStore
}

func (p *Provider) VectorStore() store.VectorStore {
	return p.stores.VectorStore
}

func (p *Provider) ProjectStore() store.ProjectStore {
	return p.stores.ProjectStore
}

func (p *Provider) BulletPointStore() store.BulletPointStore {
	return p.stores.BulletPointStore
}

func (p *Provider) BranchStore() store.BranchStore {
	return p.stores.BranchStore
}

func (p *Provider) PageStore() store.PageStore {
	return p.stores.PageStore
}

func (p *Provider) AudioSummaryStore() store.AudioSummaryStore {
	return p.stores.AudioSummaryStore
}
