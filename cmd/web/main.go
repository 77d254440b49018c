package main

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/tomz197/lasereye/internal/config"
	"go.uber.org/zap"
)

//go:embed index.html
var htmlPage string

var page = template.Must(template.New("index").Parse(htmlPage))

type pageData struct {
	SSHHost string
	SSHPort string
}

func main() {
	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "lasereye-web: %v\n", err)
		os.Exit(1)
	}
	cfg.Web.Host = config.GetEnv("WEB_HOST", cfg.Web.Host)
	cfg.Web.Port = config.GetEnv("WEB_PORT", cfg.Web.Port)
	cfg.Web.DisplayHost = config.GetEnv("SSH_DISPLAY_HOST", cfg.Web.DisplayHost)
	cfg.Web.SSHPort = config.GetEnv("SSH_DISPLAY_PORT", cfg.Web.SSHPort)

	log, err := config.NewLogger(cfg.Logging, "stderr")
	if err != nil {
		fmt.Fprintf(os.Stderr, "lasereye-web: create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	data := pageData{SSHHost: cfg.Web.DisplayHost, SSHPort: cfg.Web.SSHPort}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, data); err != nil {
			log.Warn("render page", zap.Error(err))
		}
	})

	addr := net.JoinHostPort(cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("starting web server", zap.String("addr", "http://"+addr), zap.String("ssh_host", data.SSHHost))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
}
