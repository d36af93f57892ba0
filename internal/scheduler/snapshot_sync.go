package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-dashboard-api/internal/config"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
	"github.com/vfg2006/affiliate-dashboard-api/internal/usecases/reporting"
)

// SnapshotSyncConfig representa a configuração do agendador de snapshots
type SnapshotSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// Períodos padrão mantidos aquecidos como fallback
var snapshotPeriods = []string{
	domain.PeriodToday,
	domain.PeriodYesterday,
	domain.PeriodWeek,
	domain.PeriodMonth,
}

// SnapshotSyncService agenda a atualização periódica dos snapshots de
// estatísticas usados quando os upstreams ficam indisponíveis. O próprio
// fluxo de agregação persiste o snapshot a cada busca bem-sucedida; o job
// só garante que isso aconteça mesmo sem tráfego no painel.
type SnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              SnapshotSyncConfig
	appConfig           *config.Config
	reporter            reporting.CombinedReporter
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewSnapshotSyncService cria uma nova instância do serviço de sincronização de snapshots
func NewSnapshotSyncService(
	reporter reporting.CombinedReporter,
	appConfig *config.Config,
) *SnapshotSyncService {
	// Criar a configuração com base na config global
	syncConfig := SnapshotSyncConfig{
		CronSchedule: appConfig.SnapshotSync.CronSchedule,
		SyncEnabled:  appConfig.SnapshotSync.Enabled,
	}

	// Criar o agendador
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de snapshots carregada")

	return &SnapshotSyncService{
		scheduler:   scheduler,
		config:      syncConfig,
		appConfig:   appConfig,
		reporter:    reporter,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *SnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de snapshots desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de snapshots")

	// Agendar a sincronização
	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllSnapshots()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de snapshots: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de snapshots")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllSnapshots refaz a agregação de cada período padrão. A persistência
// do snapshot acontece dentro do fluxo de agregação.
func (s *SnapshotSyncService) syncAllSnapshots() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de snapshots já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando sincronização de snapshots para os períodos padrão")

	for _, period := range snapshotPeriods {
		totals, err := s.reporter.AggregatedTotals(period, nil)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"period": period,
				"error":  err.Error(),
			}).Error("Erro ao atualizar snapshot do período")
			continue
		}

		logrus.WithFields(logrus.Fields{
			"period": period,
			"sub1s":  len(totals),
		}).Info("Snapshot do período atualizado")
	}

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration": duration.String(),
		"periods":  len(snapshotPeriods),
	}).Info("Sincronização de snapshots concluída")

	s.lastSyncCompletedAt = time.Now()
}

// TriggerManualSync inicia manualmente uma sincronização de snapshots
func (s *SnapshotSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de snapshots já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização manual de snapshots")
	go s.syncAllSnapshots()
}

// GetStatus retorna o status atual do agendador
func (s *SnapshotSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"periods":                snapshotPeriods,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
