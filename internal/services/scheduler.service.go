package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/config"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/database"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/repositories"

	"github.com/go-co-op/gocron"
)

type Schedule string

const (
	ScheduleHourly Schedule = "hourly"
	ScheduleDaily  Schedule = "daily"
)

// Job is implemented by background tasks registered with the scheduler.
type Job interface {
	Name() string
	Schedule() Schedule
	Execute(ctx context.Context) error
}

type SchedulerService struct {
	scheduler  *gocron.Scheduler
	db         database.DB
	config     config.Config
	repository repositories.Repository
	log        logger.Logger
	jobs       map[string]Job
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	running    bool
}

func NewSchedulerService(
	db database.DB,
	config config.Config,
	repository repositories.Repository,
) *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler:  gocron.NewScheduler(time.UTC),
		db:         db,
		config:     config,
		repository: repository,
		log:        logger.New("SchedulerService"),
		jobs:       make(map[string]Job),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *SchedulerService) AddJob(job Job) error {
	log := s.log.Function("AddJob")

	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return log.ErrMsg("job already registered: " + name)
	}

	var err error
	switch job.Schedule() {
	case ScheduleHourly:
		_, err = s.scheduler.Every(1).Hour().Tag(name).Do(s.executeJob, job)
	case ScheduleDaily:
		_, err = s.scheduler.Every(1).Day().At("06:00").Tag(name).Do(s.executeJob, job)
	default:
		return log.ErrMsg("unknown schedule: " + string(job.Schedule()))
	}
	if err != nil {
		return log.Err("failed to schedule job", err, "job", name)
	}

	s.jobs[name] = job
	log.Info("job registered", "job", name, "schedule", string(job.Schedule()))
	return nil
}

func (s *SchedulerService) Start() {
	log := s.log.Function("Start")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		log.Warn("scheduler already running")
		return
	}

	s.scheduler.StartAsync()
	s.running = true
	log.Info("scheduler started", "jobs", len(s.jobs))
}

func (s *SchedulerService) Stop() {
	log := s.log.Function("Stop")

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.scheduler.Stop()
	s.running = false
	log.Info("scheduler stopped")
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *SchedulerService) JobCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// TriggerJob runs a registered job immediately, outside its schedule.
func (s *SchedulerService) TriggerJob(name string) error {
	log := s.log.Function("TriggerJob")

	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return log.ErrMsg("job not found: " + name)
	}

	s.executeJob(job)
	return nil
}

func (s *SchedulerService) executeJob(job Job) {
	log := s.log.Function("executeJob")

	defer func() {
		if r := recover(); r != nil {
			log.Error("job panicked", "job", job.Name(), "panic", fmt.Sprintf("%v", r))
		}
	}()

	start := time.Now()
	log.Info("job starting", "job", job.Name())

	if err := job.Execute(s.ctx); err != nil {
		log.Er("job failed", err, "job", job.Name(), "duration", time.Since(start).String())
		return
	}

	log.Info("job completed", "job", job.Name(), "duration", time.Since(start).String())
}
