package persistence

import (
	"sync"

	"github.com/KanoeWallet/Kanoe/internal/persistence/interfaces"
	"github.com/KanoeWallet/Kanoe/internal/providers"
	"github.com/KanoeWallet/Kanoe/internal/structures"
	"github.com/go-co-op/gocron/v2"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	fileManager *FileManager
	cron        gocron.Scheduler
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() error {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = cron.NewJob(
		gocron.DurationJob(s.config.Persistence.SaveInterval),
		gocron.NewTask(s.persistJob),
		gocron.WithName("snapshot-persist"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = cron.Shutdown()
		return err
	}

	s.cron = cron
	s.cron.Start()
	return nil
}

func (s *Scheduler) persistJob() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := s.fileManager.Save(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return
	}
	s.logger.Debugf(providers.TypeApp, "Persisted snapshot to %s", s.config.Persistence.FilePath)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		if err := s.cron.Shutdown(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while stopping scheduler: %s", err)
		}
		s.cron = nil
	}
}

func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	return s.fileManager.Load()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting snapshot to %s...", s.config.Persistence.FilePath)
	err := s.fileManager.Save()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		fileManager: fileManager,
	}
}
