package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/mush1e/ascii-cam/internal/config"
	"github.com/mush1e/ascii-cam/internal/converter"
	fl "github.com/mush1e/ascii-cam/internal/filelogger"
	. "github.com/mush1e/ascii-cam/internal/logx"
)

func main() {
	cfgpath := flag.String("config", "", "TOML config file")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	flag.Parse()

	cfg := config.Default
	if *cfgpath != "" {
		var err error
		cfg, err = config.Load(*cfgpath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	lgr := fl.NewFileLogger(os.Stderr, cfg.LogLevel(), cfg.LogColor())
	log := NewLogToX(lgr, "main")

	conv := converter.New(converter.OptionsFromConfig(cfg), lgr)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      conv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	log.LogPrintf(NOTICE, "Server started on %s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.LogPrintf(CRITICAL, "server: %v", err)
		os.Exit(1)
	}
}
