package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rotaguide/rota-backend/config"
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/repository"
	"github.com/rotaguide/rota-backend/internal/app/service"
	"github.com/rotaguide/rota-backend/internal/db"
	"github.com/rotaguide/rota-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// Imported places are owned by this account.
const (
	seedUserID    = 1
	seedUserEmail = "catalog@rota.local"
	seedUserName  = "Rota Catalog"
)

func main() {
	approve := flag.Bool("approve", false, "mark imported places approved")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: go run ./cmd/seed [--approve] [--yes] <xlsx_file_path>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	drafts, lines, skipped, err := readDrafts(f)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	for _, s := range skipped {
		fmt.Printf("Skipping %s\n", s)
	}
	fmt.Printf("Total places to import: %d\n", len(drafts))

	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	conn := db.GetDB()
	userRepo := repository.NewUserRepository(conn)
	owner := model.User{ID: seedUserID, Email: seedUserEmail, Name: seedUserName, Role: model.RoleAdmin}
	if err := userRepo.Upsert(&owner); err != nil {
		log.Fatal("Failed to create catalog user:", err)
	}

	places := service.NewPlaceService(conn,
		repository.NewPlaceRepository(conn),
		repository.NewPlaceImageRepository(conn),
		repository.NewReviewRepository(conn),
		repository.NewFavoriteRepository(conn),
		service.CatalogOptions{
			PublicListLimit: cfg.Catalog.PublicListLimit,
			MaxImages:       cfg.Catalog.MaxImages,
		},
	)

	summary, err := importDrafts(places, model.Actor{UserID: owner.ID, Role: owner.Role}, drafts, lines, *approve)
	if err != nil {
		log.Fatal("Import aborted:", err)
	}
	for _, r := range summary.Rejected {
		fmt.Printf("Rejected %s\n", r)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Created: %d, already present: %d, rejected: %d\n",
		summary.Created, summary.Duplicates, len(summary.Rejected))
}
