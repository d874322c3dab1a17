package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/magicmenu/magicmenu-backend/config"
	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/app/repository"
	"github.com/magicmenu/magicmenu-backend/internal/db"
	"github.com/magicmenu/magicmenu-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

func main() {
	sample := flag.Bool("sample", false, "seed the built-in sample dataset instead of importing a file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if *sample {
		created, err := db.SeedSampleData(db.GetDB())
		if err != nil {
			log.Fatal("Failed to seed sample data:", err)
		}
		fmt.Printf("Sample data seeded. Restaurants created: %d\n", created)
		return
	}

	if flag.NArg() < 1 {
		log.Fatal("Usage: go run cmd/seed/main.go [-sample] <xlsx_file_path>")
	}
	filePath := flag.Arg(0)

	restaurantRepo := repository.NewRestaurantRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	restaurants, skipped, err := readRestaurantsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Rows skipped (missing fields or duplicate slug): %d\n", skipped)
	fmt.Printf("Total restaurants to import: %d\n", len(restaurants))
	if len(restaurants) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 1000
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := restaurantRepo.BulkCreate(restaurants, batchSize); err != nil {
		log.Fatal("Failed to bulk create restaurants:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total restaurants imported: %d\n", len(restaurants))
}

// readRestaurantsFromXLSX expects a sheet with a header row and the columns
// name, description, phone, address. Rows with missing fields or a slug
// already seen in the file are skipped, not repaired.
func readRestaurantsFromXLSX(filePath string) ([]model.Restaurant, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var restaurants []model.Restaurant
	seenSlugs := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 4 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		phone := strings.TrimSpace(row[2])
		address := strings.TrimSpace(row[3])

		if name == "" || description == "" || phone == "" || address == "" {
			skipped++
			continue
		}

		slug := util.GenerateSlug(name)
		if slug == "" || seenSlugs[slug] {
			skipped++
			continue
		}
		seenSlugs[slug] = true

		restaurants = append(restaurants, model.Restaurant{
			Slug:        slug,
			Name:        name,
			Description: description,
			Phone:       phone,
			Address:     address,
			LogoURL:     "/placeholder-logo.png",
		})
	}

	return restaurants, skipped, nil
}
