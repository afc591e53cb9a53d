package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/masa23/jobmaild/analyzer"
	"github.com/masa23/jobmaild/config"
	"github.com/masa23/jobmaild/mailsource"
	"github.com/masa23/jobmaild/model"
	"github.com/masa23/jobmaild/objectstorage"
	"github.com/masa23/jobmaild/scan"
	"github.com/masa23/jobmaild/store"
)

var (
	conf     *config.Config
	db       *store.Store
	storage  *objectstorage.Storage
	scanner  *scan.Scanner
	sourceMu sync.Mutex
	version  = "dev"
)

type scanRequest struct {
	DaysBack int `json:"days_back"`
}

func postScan(c echo.Context) error {
	req := scanRequest{DaysBack: conf.Scan.DaysBack}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "invalid request"})
	}
	if req.DaysBack < 1 {
		req.DaysBack = conf.Scan.DaysBack
	}

	// the source is set up lazily so a missing token surfaces as 401
	// on the scan call instead of killing the server at startup
	if err := ensureSource(c.Request().Context()); err != nil {
		if errors.Is(err, mailsource.ErrNoCredentials) {
			return c.JSON(401, map[string]string{"error": "mailbox authorization required"})
		}
		c.Logger().Error("mail source setup failed:", err)
		return c.JSON(500, map[string]string{"error": "mail source unavailable"})
	}

	res, err := scanner.Scan(c.Request().Context(), req.DaysBack)
	if errors.Is(err, mailsource.ErrNoCredentials) {
		return c.JSON(401, map[string]string{"error": "mailbox authorization required"})
	}
	if err != nil {
		c.Logger().Error("scan failed:", err)
		return c.JSON(500, map[string]string{"error": "scan failed"})
	}

	return c.JSON(200, res)
}

func getList(c echo.Context) error {
	records, err := db.List(c.Request().Context())
	if err != nil {
		return c.JSON(500, map[string]string{"error": "Failed to fetch records"})
	}
	return c.JSON(200, records)
}

type recordWithBody struct {
	Body string `json:"body"`
	model.ApplicationRecord
}

func getMessage(c echo.Context) error {
	id := c.Param("id")

	rec, err := db.Get(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(404, map[string]string{"error": "Record not found"})
	}
	if err != nil {
		return c.JSON(500, map[string]string{"error": "Failed to fetch record"})
	}

	body := rec.BodyExcerpt
	if rec.ObjectStorageKey != "" && storage != nil {
		obj, err := storage.Download(rec.ObjectStorageKey)
		if err != nil {
			c.Logger().Error("Failed to download body:", err)
		} else {
			defer obj.Close()
			if b, err := io.ReadAll(obj); err == nil {
				body = string(b)
			}
		}
	}

	return c.JSON(200, recordWithBody{
		Body:              body,
		ApplicationRecord: *rec,
	})
}

func ensureSource(ctx context.Context) error {
	// concurrent scan requests must not race on the source field
	sourceMu.Lock()
	defer sourceMu.Unlock()

	if scanner.Source != nil {
		return nil
	}
	if conf.Mailbox == "imap" {
		scanner.Source = mailsource.NewIMAPSource(conf.IMAP, conf.Scan.MaxMessages)
		return nil
	}
	src, err := mailsource.NewGmailSource(ctx, conf.Gmail, conf.Scan.MaxMessages)
	if err != nil {
		return err
	}
	scanner.Source = src
	return nil
}

func main() {
	var confPath string
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.StringVar(&confPath, "config", "config.yaml", "Path to config file")
	flag.Parse()

	if showVersion {
		log.Printf("Version: %s", version)
		return
	}

	var err error
	conf, err = config.Load(confPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if conf.LogFile != "" {
		logFd, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Error opening log file: %v", err)
		}
		defer logFd.Close()
		log.SetOutput(logFd)
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	db, err = store.Open(conf.Database)
	if err != nil {
		e.Logger.Fatal("DB connection failed:", err)
	}

	if conf.ObjectStorage.Bucket != "" {
		storage, err = objectstorage.New(conf.ObjectStorage)
		if err != nil {
			e.Logger.Fatal("Object storage setup failed:", err)
		}
	}

	scanner = &scan.Scanner{
		Analyzer: analyzer.New(conf.LLM),
		Sink:     db,
		Workers:  conf.Scan.Workers,
	}
	if storage != nil {
		scanner.Archive = storage
	}

	// ルーティング
	e.POST("/api/scan", postScan)
	e.GET("/api/list", getList)
	e.GET("/api/message/:id", getMessage)

	e.Logger.Fatal(e.Start(conf.Listen))
}
