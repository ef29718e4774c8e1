package sqlstore

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/resumid-ai/resumid/pkg/utils"
)

type SqlCommons interface {
	GetTable(...interface{}) string
}

type ConnectConfig interface {
	FormatDSN() string
}

// SqlProvider holds one master connection for writes and one or more
// replicas for reads. With no replicas configured the master serves both.
type SqlProvider struct {
	master   *sqlx.DB
	replicas []*sqlx.DB
}

func MustSetupProvider(m ConnectConfig, s ...ConnectConfig) *SqlProvider {
	provider := &SqlProvider{
		master: sqlx.MustOpen("postgres", m.FormatDSN()),
	}

	if len(s) == 0 {
		provider.replicas = []*sqlx.DB{provider.master}
		return provider
	}
	for _, conf := range s {
		provider.replicas = append(provider.replicas, sqlx.MustOpen("postgres", conf.FormatDSN()))
	}
	return provider
}

func (s *SqlProvider) GetMaster() *sqlx.DB {
	return s.master
}

func (s *SqlProvider) GetReplica() *sqlx.DB {
	return s.replicas[utils.Random(0, len(s.replicas)-1)]
}

type TransactionKey struct{}

// GetTxFromCtx returns the transaction bound to ctx by Transaction, or nil.
func (s *SqlProvider) GetTxFromCtx(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(TransactionKey{}).(*sqlx.Tx)
	return tx
}

// Transaction runs next inside a single transaction and binds it to the
// context so nested store calls share it. A nested Transaction call joins
// the outer one. Rollback happens on error and on panic; the panic is
// re-raised after the rollback.
func (s *SqlProvider) Transaction(ctx context.Context, next func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.GetTxFromCtx(ctx) != nil {
		return next(ctx)
	}

	tx, err := s.master.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		r := recover()
		if r == nil && err == nil {
			return
		}
		errMsg := ""
		if err != nil {
			errMsg = err.Error()
		}
		slog.Error("transaction rolled back", slog.Any("recover", r), slog.String("error", errMsg))
		_ = tx.Rollback()
		if r != nil {
			panic(r)
		}
	}()

	if err = next(context.WithValue(ctx, TransactionKey{}, tx)); err != nil {
		return err
	}

	return tx.Commit()
}
