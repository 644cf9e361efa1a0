// Cueboard Core - Cue Switchboard Engine
//
// This is the main entry point for the Cueboard Core application: a cue
// table and sequence execution engine driving a DLI-style relay device over
// its digest-authenticated REST API. Cues are selected from the HTTP API,
// OSC consoles, or MQTT; selections coalesce through a debounce coordinator
// so a device with one request in flight is never overlapped.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ovationworks/cueboard-core/migrations"

	"github.com/ovationworks/cueboard-core/internal/api"
	"github.com/ovationworks/cueboard-core/internal/cue"
	"github.com/ovationworks/cueboard-core/internal/dispatch"
	"github.com/ovationworks/cueboard-core/internal/executor"
	"github.com/ovationworks/cueboard-core/internal/infrastructure/config"
	"github.com/ovationworks/cueboard-core/internal/infrastructure/database"
	"github.com/ovationworks/cueboard-core/internal/infrastructure/influxdb"
	"github.com/ovationworks/cueboard-core/internal/infrastructure/logging"
	"github.com/ovationworks/cueboard-core/internal/infrastructure/mqtt"
	"github.com/ovationworks/cueboard-core/internal/osctrigger"
	"github.com/ovationworks/cueboard-core/internal/relay"
	"github.com/ovationworks/cueboard-core/internal/sequence"
	"github.com/ovationworks/cueboard-core/internal/status"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error { //nolint:gocognit // Wiring: each component initialised, connected, and deferred in order
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Cueboard Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Load the cue table. A missing document is fine on first boot; the
	// table starts empty and is populated via PUT /api/v1/cues.
	table := cue.NewTable(cfg.Cues.Path)
	if loadErr := table.Load(); loadErr != nil {
		return fmt.Errorf("loading cue table: %w", loadErr)
	}
	log.Info("cue table loaded", "path", cfg.Cues.Path, "cues", table.Len())

	// Sequence library. The directory is created up front so the watcher
	// has something to watch on a fresh deployment.
	if mkErr := os.MkdirAll(cfg.Sequences.Dir, 0750); mkErr != nil {
		return fmt.Errorf("creating sequence directory: %w", mkErr)
	}
	seqStore := sequence.NewStore(cfg.Sequences.Dir)
	if cfg.Sequences.Watch {
		watcher, watchErr := sequence.NewWatcher(seqStore, log.Component("watcher"))
		if watchErr != nil {
			log.Warn("sequence watcher unavailable, edits need a restart", "error", watchErr)
		} else {
			go func() {
				if runErr := watcher.Run(ctx); runErr != nil {
					log.Error("sequence watcher stopped", "error", runErr)
				}
			}()
		}
	}

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		mqttClient.SetLogger(log)
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Relay device client and cue runner
	device := relay.NewClient(cfg.Device, log)
	history := executor.NewSQLiteRepository(db.DB)
	runner := executor.NewRunner(device, seqStore, history, log)
	var metrics *status.InfluxMetrics
	if influxClient != nil {
		metrics = status.NewInfluxMetrics(influxClient)
		runner.SetMetrics(metrics)
	}

	// WebSocket hub, shared between the API server and the coordinator's
	// notifier fan-out.
	hub := api.NewHub(log)
	go hub.Run(ctx)

	notifiers := []dispatch.Notifier{api.NewHubNotifier(hub)}
	if mqttClient != nil {
		notifiers = append(notifiers, status.NewMQTTNotifier(mqttClient, byte(cfg.MQTT.QoS), log))
	}
	fanout := status.NewFanout(notifiers...)

	// Dispatch coordinator
	debounce := time.Duration(cfg.Dispatch.DebounceMS) * time.Millisecond
	coordinator := dispatch.NewCoordinator(runner, dispatch.NewTimerScheduler(), fanout, log.Component("dispatch"), debounce)
	if metrics != nil {
		coordinator.SetMetrics(metrics)
	}
	go func() {
		//nolint:errcheck // Run only returns after ctx cancellation
		coordinator.Run(ctx)
	}()
	log.Info("dispatch coordinator started", "debounce", debounce)

	// Inbound MQTT cue selection
	if mqttClient != nil {
		if bindErr := status.BindSelectTopic(mqttClient, table, coordinator, byte(cfg.MQTT.QoS), log); bindErr != nil {
			return fmt.Errorf("binding MQTT select topic: %w", bindErr)
		}
	}

	// HTTP API server
	apiServer, err := api.New(api.Deps{
		Config:      cfg.API,
		Logger:      log,
		Table:       table,
		Sequences:   seqStore,
		Coordinator: coordinator,
		Runner:      runner,
		History:     history,
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// OSC trigger listener (optional)
	if cfg.OSC.Enabled {
		oscListener := osctrigger.New(cfg.OSC, table, coordinator, log)
		go func() {
			if oscErr := oscListener.Run(ctx); oscErr != nil {
				log.Error("OSC listener stopped", "error", oscErr)
			}
		}()
	} else {
		log.Info("OSC listener disabled")
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, apiServer, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("Cueboard Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses CUEBOARD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("CUEBOARD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, apiServer *api.Server, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
