package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/concept"
	"github.com/flmvela/gemeos/core/domain"
	logsvc "github.com/flmvela/gemeos/services/logger"
	storagesvc "github.com/flmvela/gemeos/services/storage"
	"github.com/flmvela/gemeos/storage/database"
	sqlxrepos "github.com/flmvela/gemeos/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	detector, err := concept.NewDetector(conf.Ingest)
	if err != nil {
		logger.Fatal(fmt.Sprintf("configuring duplicate detection: %v", err), err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	concept.InitValidators(validate, translator)

	domainRepo := sqlxrepos.NewDomainRepository(db)
	cli := commandLine{
		db:        db,
		domainSvc: domain.NewService(domainRepo),
		conceptSvc: concept.NewService(concept.Options{
			Repo:       sqlxrepos.NewConceptRepository(db),
			DomainRepo: domainRepo,
			Logger:     logger,
			Detector:   detector,
		}),
		validate: validate,
		openBucket: func(ctx context.Context) (objectReader, error) {
			return storagesvc.NewGCSReader(ctx, conf.Storage.GCSCredentialsFile)
		},
		in:  os.Stdin,
		out: os.Stdout,
	}

	err = cli.run(context.Background(), os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
