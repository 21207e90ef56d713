package main

import (
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/unidoc/unipdf/v3/common/license"

	"voterreg/internal/config"
	"voterreg/internal/db"
	"voterreg/internal/handlers"
	"voterreg/internal/router"
	"voterreg/internal/storage"
	"voterreg/internal/votercard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}

	if cfg.UniPDFLicenseKey != "" {
		if err := license.SetMeteredKey(cfg.UniPDFLicenseKey); err != nil {
			log.Fatal("unipdf license: ", err)
		}
	}

	db.Init(cfg.DatabaseURL)
	records := db.NewApplicationStore(db.DB)

	var locks *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("redis: ", err)
		}
		locks = redis.NewClient(opts)
	} else {
		log.Println("Warning: REDIS_URL not set, concurrent regenerations are not serialized")
	}

	artifacts := storage.NewPinataStore(cfg.PinataJWT, cfg.PinataGateway)
	cards := votercard.NewService(cfg.PublicBaseURL, records, artifacts, locks)

	h := &handlers.Handler{Records: records, Cards: cards, Cfg: cfg}
	log.Println("Server started at :" + cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router.RegisterRouter(h, []byte(cfg.JWTSecret))); err != nil {
		log.Fatal(err)
	}
}
