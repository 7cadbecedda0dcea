package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/job-application-tracker/internal/config"
	"github.com/iliyamo/job-application-tracker/internal/database"
	"github.com/iliyamo/job-application-tracker/internal/handler"
	"github.com/iliyamo/job-application-tracker/internal/middleware"
	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/queue"
	"github.com/iliyamo/job-application-tracker/internal/repository"
	"github.com/iliyamo/job-application-tracker/internal/router"
	"github.com/iliyamo/job-application-tracker/internal/workflow"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.InitSchema(ctx, db); err != nil {
		log.Fatalf("database: %v", err)
	}

	// Repositories and the transactional store behind the state machine.
	counters := repository.NewCounterRepo(db)
	users := repository.NewUserRepo(db, counters)
	jobs := repository.NewJobRepo(db, counters)
	apps := repository.NewApplicationRepo(db)
	logs := repository.NewActivityLogRepo(db)
	tokens := repository.NewTokenRepo(db)
	store := repository.NewStore(db, jobs, apps, logs, counters)

	machine := workflow.NewStateMachine(store)
	automation := workflow.NewAutomation(store)

	if cfg.SeedUsers {
		seedUsers(ctx, users, cfg.BcryptCost)
	}

	// Redis is optional; cache and rate limiting simply disable themselves
	// when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterJobs(e, handler.NewJobHandler(jobs), cfg.JWTSecret,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterApplications(e,
		handler.NewApplicationHandler(machine, apps, jobs, logs, users), cfg.JWTSecret)
	router.RegisterBot(e, handler.NewBotHandler(automation), cfg.JWTSecret)

	// Background consumer mirrors status change events into logs/status.log.
	go func() {
		if err := queue.StartStatusConsumer(); err != nil {
			log.Printf("status consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedUsers creates the three sample accounts the manual test flow uses:
// an applicant, an admin and the bot.  Seeding is skipped when the
// applicant account already exists.
func seedUsers(ctx context.Context, users *repository.UserRepo, bcryptCost int) {
	const password = "password123"

	if _, err := users.GetByEmail(ctx, "applicant@example.com"); err == nil {
		return
	} else if err != sql.ErrNoRows {
		log.Printf("seed: lookup failed: %v", err)
		return
	}

	seeds := []struct {
		email string
		name  string
		role  string
	}{
		{"applicant@example.com", "John Applicant", model.RoleApplicant},
		{"admin@example.com", "Admin User", model.RoleAdmin},
		{"bot@example.com", "Bot Mimic", model.RoleBotMimic},
	}
	for _, s := range seeds {
		if _, err := users.Create(ctx, s.email, password, s.name, s.role, bcryptCost); err != nil {
			if err == repository.ErrEmailExists {
				continue
			}
			log.Printf("seed: create %s failed: %v", s.email, err)
			return
		}
		log.Printf("seed: created %s (%s)", s.email, s.role)
	}
}
