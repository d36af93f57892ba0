package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
)

const statsSnapshotsTable = "stats_snapshots"

// StatsSnapshotRepository guarda o último agregado de cada período para
// servir de fallback quando os upstreams caem.
type StatsSnapshotRepository interface {
	Upsert(period string, totals []domain.AggregatedSubTotal) error
	GetByPeriod(period string) (*domain.StatsSnapshot, error)
}

type statsSnapshotRepository struct {
	conn *postgres.Connection
}

func NewStatsSnapshotRepository(conn *postgres.Connection) StatsSnapshotRepository {
	return &statsSnapshotRepository{
		conn: conn,
	}
}

func (r *statsSnapshotRepository) Upsert(period string, totals []domain.AggregatedSubTotal) error {
	raw, err := json.Marshal(totals)
	if err != nil {
		return err
	}

	snapshotSQL, snapshotArgs, err := squirrel.
		Insert(statsSnapshotsTable).
		Columns("period", "totals", "fetched_at").
		Values(period, raw, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (period) DO UPDATE SET totals = EXCLUDED.totals, fetched_at = NOW()").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(snapshotSQL, snapshotArgs...)
	return err
}

func (r *statsSnapshotRepository) GetByPeriod(period string) (*domain.StatsSnapshot, error) {
	snapshotSQL, snapshotArgs, err := squirrel.
		Select("period", "totals", "fetched_at").
		From(statsSnapshotsTable).
		Where(squirrel.Eq{"period": period}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var snapshot domain.StatsSnapshot
	var raw []byte
	err = r.conn.QueryRow(snapshotSQL, snapshotArgs...).Scan(
		&snapshot.Period,
		&raw,
		&snapshot.FetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &snapshot.Totals); err != nil {
		return nil, err
	}

	return &snapshot, nil
}
