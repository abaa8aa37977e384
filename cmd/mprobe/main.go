// Command mprobe decodes a MongoDB FTDC archive and renders it as a set
// of static HTML pages, optionally fetching the archive from MongoDB
// Cloud first. Plain flag.StringVar calls, config.Init right after flag
// parsing and log/metrics setup, a single linear main with early
// log.Fatalf on setup errors.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nelusnegur/mprobe-go/internal/config"
	"github.com/nelusnegur/mprobe-go/internal/fetch"
	"github.com/nelusnegur/mprobe-go/internal/render"
	"github.com/nelusnegur/mprobe-go/internal/skipper"
	"github.com/nelusnegur/mprobe-go/pkg/ftdc"
	"github.com/nelusnegur/mprobe-go/pkg/log"
)

func main() {
	var (
		hostname    string
		startFlag   string
		endFlag     string
		dir         string
		out         string
		loglevel    string
		configFile  string
		envFile     string
		lineProto   string
		fetchJobID  string
		metricsAddr string
	)

	flag.StringVar(&hostname, "host", "", "restrict decoding to chunks captured from this hostname")
	flag.StringVar(&startFlag, "start", "", "RFC3339 start of the time window (inclusive)")
	flag.StringVar(&endFlag, "end", "", "RFC3339 end of the time window (inclusive)")
	flag.StringVar(&dir, "dir", "", "already-extracted FTDC archive root directory")
	flag.StringVar(&out, "out", "./var/render", "directory to write rendered HTML into")
	flag.StringVar(&loglevel, "loglevel", "info", "debug, info, notice, warn, err, crit")
	flag.StringVar(&configFile, "config", "./config.json", "path to the JSON config file")
	flag.StringVar(&envFile, "env", ".env", "path to the .env file holding fetch credentials")
	flag.StringVar(&lineProto, "lp", "", "also write the decoded metrics as InfluxDB line protocol to this path")
	flag.StringVar(&fetchJobID, "fetch-job", "", "poll and download an already-created log collection job instead of reading -dir directly")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics (skipped-chunk counters) on this address until the run finishes")
	flag.Parse()

	log.SetLogLevel(loglevel)

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	if err := config.Init(configFile, envFile); err != nil {
		log.Fatalf("config: %v", err)
	}

	if dir == "" {
		log.Fatal("mprobe: -dir is required")
	}

	if fetchJobID != "" {
		if err := fetchArchive(fetchJobID, dir); err != nil {
			log.Fatalf("fetch: %v", err)
		}
	}

	filter, err := buildFilter(hostname, startFlag, endFlag)
	if err != nil {
		log.Fatalf("mprobe: %v", err)
	}

	it, err := ftdc.Open(dir, filter)
	if err != nil {
		log.Fatalf("mprobe: open %s: %v", dir, err)
	}
	defer it.Close()

	w := render.NewWriter()
	if err := w.Consume(skipper.New(it)); err != nil {
		log.Fatalf("mprobe: decode: %v", err)
	}

	if err := w.Write(out); err != nil {
		log.Fatalf("mprobe: render: %v", err)
	}

	if lineProto != "" {
		if err := w.WriteLineProtocol(lineProto); err != nil {
			log.Fatalf("mprobe: line protocol export: %v", err)
		}
	}

	fmt.Printf("wrote %s\n", out)
}

func buildFilter(hostname, startFlag, endFlag string) (ftdc.Filter, error) {
	filter := ftdc.Filter{Hostname: hostname}

	if startFlag != "" {
		t, err := time.Parse(time.RFC3339, startFlag)
		if err != nil {
			return ftdc.Filter{}, fmt.Errorf("parse -start: %w", err)
		}
		filter.Start = &t
	}
	if endFlag != "" {
		t, err := time.Parse(time.RFC3339, endFlag)
		if err != nil {
			return ftdc.Filter{}, fmt.Errorf("parse -end: %w", err)
		}
		filter.End = &t
	}

	return filter, nil
}

func fetchArchive(jobID, dir string) error {
	client := fetch.NewLogClient(
		config.Keys.Fetch.BaseURL,
		config.Keys.Fetch.GroupID,
		fetch.Credentials{
			PublicKey:  config.Keys.Fetch.PublicKey,
			PrivateKey: config.Keys.Fetch.PrivateKey,
		},
		config.Keys.Fetch.RequestsPerSecond,
	)

	ctx := context.Background()
	job, err := client.WaitUntilDone(ctx, jobID, config.PollInterval())
	if err != nil {
		return err
	}
	if job.Status != fetch.JobSuccess {
		return fmt.Errorf("job %s finished with status %s", jobID, job.Status)
	}

	tmp, err := os.CreateTemp("", "mprobe-archive-*.tar.gz")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := client.Download(ctx, jobID, tmp); err != nil {
		return err
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		return err
	}

	return fetch.Extract(tmp, dir)
}
