package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/atlashr/personnel-backend-go/internal/config"
	appHTTP "github.com/atlashr/personnel-backend-go/internal/handler/http"
	"github.com/atlashr/personnel-backend-go/internal/pkg/cron"
	"github.com/atlashr/personnel-backend-go/internal/pkg/database"
	"github.com/atlashr/personnel-backend-go/internal/repository/postgresql"
	absenceService "github.com/atlashr/personnel-backend-go/internal/service/absence"
	leaveService "github.com/atlashr/personnel-backend-go/internal/service/leave"
	reconcileService "github.com/atlashr/personnel-backend-go/internal/service/reconcile"
	reportService "github.com/atlashr/personnel-backend-go/internal/service/report"
	"github.com/go-chi/jwtauth/v5"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	personRepo := postgresql.NewPersonRepository(db)
	categoryRegistry := postgresql.NewCategoryRegistry(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	absenceRecordRepo := postgresql.NewAbsenceRecordRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	requestSvc := leaveService.NewRequestService(db, leaveRequestRepo, personRepo, categoryRegistry)
	recordSvc := absenceService.NewRecordService(db, absenceRecordRepo, personRepo, categoryRegistry)
	reconcileSvc := reconcileService.NewService(db, personRepo, leaveRequestRepo)
	reportSvc := reportService.NewService(reportRepo)

	scheduler := cron.NewScheduler()
	reconcileJobs := cron.NewReconcileJobs(reconcileSvc, cfg.Reconcile.Interval, cfg.Reconcile.NightlyInterval)
	reconcileJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JWT.Secret), nil)

	leaveHandler := appHTTP.NewLeaveHandler(requestSvc)
	absenceHandler := appHTTP.NewAbsenceHandler(recordSvc)
	categoryHandler := appHTTP.NewCategoryHandler(categoryRegistry)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	reconcileHandler := appHTTP.NewReconcileHandler(reconcileSvc)

	router := appHTTP.NewRouter(
		tokenAuth,
		leaveHandler,
		absenceHandler,
		categoryHandler,
		reportHandler,
		reconcileHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down")
	if err := server.Close(); err != nil {
		fmt.Println("Server close error:", err)
	}
}
