package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/k0kubun/pp/v3"

	"github.com/masa23/jobmaild/analyzer"
	"github.com/masa23/jobmaild/config"
	"github.com/masa23/jobmaild/mailsource"
	"github.com/masa23/jobmaild/objectstorage"
	"github.com/masa23/jobmaild/scan"
	"github.com/masa23/jobmaild/store"
)

var (
	conf    *config.Config
	version = "dev"
)

func main() {
	var confPath string
	var daysBack int
	var verbose bool
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.StringVar(&confPath, "conf", "./config.yaml", "Path to the configuration file")
	flag.IntVar(&daysBack, "days", 0, "Scan window in days (default from config)")
	flag.BoolVar(&verbose, "verbose", false, "Dump the scan result")
	flag.Parse()

	if showVersion {
		log.Printf("Version: %s", version)
		return
	}

	var err error
	conf, err = config.Load(confPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if conf.LogFile != "" {
		logFd, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Error opening log file: %v", err)
		}
		defer logFd.Close()
		log.SetOutput(logFd)
	}

	if daysBack < 1 {
		daysBack = conf.Scan.DaysBack
	}

	log.Printf("start mailbox scan pid=%d days=%d", os.Getpid(), daysBack)

	db, err := store.Open(conf.Database)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	ctx := context.Background()

	var src mailsource.Source
	if conf.Mailbox == "imap" {
		imapSrc := mailsource.NewIMAPSource(conf.IMAP, conf.Scan.MaxMessages)
		defer imapSrc.Close()
		src = imapSrc
	} else {
		src, err = mailsource.NewGmailSource(ctx, conf.Gmail, conf.Scan.MaxMessages)
		if err != nil {
			log.Fatalf("Error setting up mail source: %v", err)
		}
	}

	sc := &scan.Scanner{
		Source:   src,
		Analyzer: analyzer.New(conf.LLM),
		Sink:     db,
		Workers:  conf.Scan.Workers,
	}

	if conf.ObjectStorage.Bucket != "" {
		storage, err := objectstorage.New(conf.ObjectStorage)
		if err != nil {
			log.Fatalf("Error setting up object storage: %v", err)
		}
		sc.Archive = storage
	}

	res, err := sc.Scan(ctx, daysBack)
	if errors.Is(err, mailsource.ErrNoCredentials) {
		log.Fatalf("Mailbox authorization required: %v", err)
	}
	if err != nil {
		log.Fatalf("Error scanning mailbox: %v", err)
	}

	log.Printf("scan finished: persisted=%d filtered=%d days=%d", res.Count, res.FilteredOut, res.DaysBack)
	if verbose {
		log.Println(pp.Sprintf("scan result: %v", res))
	}
}
