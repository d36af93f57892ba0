package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
)

const settingsTable = "settings"

// RuleSetRepository persiste o documento único de regras comerciais.
// A tabela settings tem uma linha só (id = 1) com o documento em JSONB.
type RuleSetRepository interface {
	Get() (*domain.RuleSet, error)
	Save(ruleSet *domain.RuleSet) error
}

type ruleSetRepository struct {
	conn *postgres.Connection
}

func NewRuleSetRepository(conn *postgres.Connection) RuleSetRepository {
	return &ruleSetRepository{
		conn: conn,
	}
}

func (r *ruleSetRepository) Get() (*domain.RuleSet, error) {
	settingsSQL, settingsArgs, err := squirrel.
		Select("document").
		From(settingsTable).
		Where(squirrel.Eq{"id": 1}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = r.conn.QueryRow(settingsSQL, settingsArgs...).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ruleSet domain.RuleSet
	if err := json.Unmarshal(raw, &ruleSet); err != nil {
		return nil, err
	}

	return &ruleSet, nil
}

func (r *ruleSetRepository) Save(ruleSet *domain.RuleSet) error {
	raw, err := json.Marshal(ruleSet)
	if err != nil {
		return err
	}

	settingsSQL, settingsArgs, err := squirrel.
		Insert(settingsTable).
		Columns("id", "document", "updated_at").
		Values(1, raw, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(settingsSQL, settingsArgs...)
	return err
}
