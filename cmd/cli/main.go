package main

import (
	"log"
	"os"
	"time"

	"colegios-api/config"
	"colegios-api/internal/session"
	"colegios-api/internal/source"
	"colegios-api/internal/storage"
)

func main() {
	cfg := config.LoadConfig()

	local := storage.NewLocal(cfg.CSVPath)
	remote := storage.NewRemote(cfg.APIBaseURL, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second)
	selector := source.NewSelector(local, remote)

	s := session.New(os.Stdin, os.Stdout, selector, cfg.CSVPath, cfg.APIBaseURL)
	if err := s.Run(); err != nil {
		log.Fatal(err)
	}
}
