package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"mako/api/httpserver"
	"mako/infra/kafka"
	"mako/infra/outbox"
	entrywal "mako/infra/wal/entry"
	"mako/jobs/broadcaster"
	"mako/ops"
	"mako/service"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := ops.Default()
	if *configPath != "" {
		loaded, err := ops.Load(*configPath)
		if err != nil {
			log.WithError(err).Fatal("config load failed")
		}
		cfg = loaded
	}

	// ---------------- Entry WAL ----------------

	entryWAL, err := entrywal.Open(entrywal.Config{
		Dir:         cfg.WALDir,
		SegmentSize: cfg.WALSegment,
	})
	if err != nil {
		log.WithError(err).Fatal("entry WAL init failed")
	}
	defer entryWAL.Close()

	// ---------------- Outbox ----------------

	ob, err := outbox.Open(cfg.OutboxDir)
	if err != nil {
		log.WithError(err).Fatal("outbox init failed")
	}
	defer ob.Close()

	// ---------------- Live feed ----------------

	var live *kafka.Producer
	if cfg.KafkaEnabled {
		live = kafka.NewProducer(cfg.Brokers, cfg.LiveTopic)
		defer live.Close()
	}

	// ---------------- Service ----------------

	svc := service.New(log, service.Options{
		WAL:    entryWAL,
		Outbox: ob,
		Live:   live,
	})

	// ---------------- WAL REPLAY ----------------

	if err := svc.Replay(cfg.WALDir); err != nil {
		log.WithError(err).Fatal("WAL replay failed")
	}

	// ---------------- Background Jobs ----------------

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.KafkaEnabled {
		bc, err := broadcaster.New(ob, cfg.Brokers, cfg.DurableTopic, cfg.BroadcastInterval, log)
		if err != nil {
			log.WithError(err).Fatal("broadcaster init failed")
		}
		defer bc.Close()
		go bc.Run(ctx)
	}

	// ---------------- HTTP ----------------

	r := mux.NewRouter()
	httpserver.NewHandler(svc, log).SetupRoutes(r)

	log.WithField("addr", cfg.ListenAddr).Info("matching engine running")
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		log.WithError(err).Fatal("http server exited")
	}
}
