package database

import (
	"fmt"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

type CacheClient valkey.Client

type Cache struct {
	General CacheClient
	Fleet   CacheClient
	Events  CacheClient
}

// Valkey database index organization. Each index provides logical separation
// for a cache category.
const (
	// GENERAL_CACHE_INDEX (DB 0) - miscellaneous caching
	GENERAL_CACHE_INDEX = iota

	// FLEET_CACHE_INDEX (DB 1) - fleet status snapshots and readiness
	// derivations, invalidated on any cycle/engine/mount mutation
	FLEET_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 2) - pub/sub for resource-changed and alert
	// notifications
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := logger.New("database").Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	var cacheDB Cache

	var err error
	cacheDB.General, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    GENERAL_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	cacheDB.Fleet, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    FLEET_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create fleet valkey client", err)
	}

	cacheDB.Events, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    EVENTS_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB

	return nil
}
