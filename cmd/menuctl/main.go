package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/magicmenu/magicmenu-backend/config"
	"github.com/magicmenu/magicmenu-backend/internal/app/repository"
	"github.com/magicmenu/magicmenu-backend/internal/app/service"
	"github.com/magicmenu/magicmenu-backend/internal/db"
	"github.com/magicmenu/magicmenu-backend/internal/storage"
	"github.com/magicmenu/magicmenu-backend/internal/ws"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
)

// menuctl is a stdio tool process. Each stdin line is one JSON request
// {"id":N,"tool":"...","params":{...}}; each stdout line is one JSON
// response {"id":N,"result":...} or {"id":N,"error":"..."}. Logs go to
// stderr so stdout stays a clean protocol stream.

type request struct {
	ID     int64           `json:"id"`
	Tool   string          `json:"tool"`
	Params json.RawMessage `json:"params"`
}

type response struct {
	ID     int64       `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type toolRunner struct {
	restaurantRepo    repository.RestaurantRepository
	restaurantService service.RestaurantService
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	logger.Initialize(logger.Config{
		Level:  "warn",
		Format: "json",
		Output: os.Stderr,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to connect to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	store := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)
	hub := ws.NewHub()
	go hub.Run()

	restaurantRepo := repository.NewRestaurantRepository(db.GetDB())
	runner := &toolRunner{
		restaurantRepo:    restaurantRepo,
		restaurantService: service.NewRestaurantService(db.GetDB(), restaurantRepo, store, hub, cfg.App.PublicURL),
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	encoder := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			encoder.Encode(response{Error: "malformed request: " + err.Error()})
			continue
		}

		result, err := runner.dispatch(context.Background(), req)
		if err != nil {
			encoder.Encode(response{ID: req.ID, Error: err.Error()})
			continue
		}
		encoder.Encode(response{ID: req.ID, Result: result})
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "stdin read error:", err)
		os.Exit(1)
	}
}

func (r *toolRunner) dispatch(ctx context.Context, req request) (interface{}, error) {
	switch req.Tool {
	case "get-restaurant-by-slug":
		return r.getRestaurantBySlug(req.Params)
	case "generate-restaurant-qr":
		return r.generateRestaurantQR(ctx, req.Params)
	case "check-database":
		return r.checkDatabase()
	case "add-sample-data":
		return r.addSampleData()
	default:
		return nil, fmt.Errorf("unknown tool: %s", req.Tool)
	}
}

func (r *toolRunner) getRestaurantBySlug(params json.RawMessage) (interface{}, error) {
	var p struct {
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(params, &p); err != nil || p.Slug == "" {
		return nil, fmt.Errorf("a slug parameter is required")
	}

	restaurant, err := r.restaurantRepo.FindBySlug(p.Slug, true)
	if err != nil {
		return nil, fmt.Errorf("restaurant not found: %s", p.Slug)
	}
	return restaurant, nil
}

func (r *toolRunner) generateRestaurantQR(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		RestaurantID string `json:"restaurant_id"`
		Slug         string `json:"slug"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters")
	}

	id := p.RestaurantID
	if id == "" && p.Slug != "" {
		restaurant, err := r.restaurantRepo.FindBySlug(p.Slug, false)
		if err != nil {
			return nil, fmt.Errorf("restaurant not found: %s", p.Slug)
		}
		id = restaurant.ID
	}
	if id == "" {
		return nil, fmt.Errorf("a restaurant_id or slug parameter is required")
	}

	url, err := r.restaurantService.GenerateQR(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{"qr_url": url}, nil
}

func (r *toolRunner) checkDatabase() (interface{}, error) {
	tables := db.CheckTables()

	missing := make([]string, 0)
	for _, table := range db.RequiredTables() {
		if !tables[table] {
			missing = append(missing, table)
		}
	}

	return map[string]interface{}{
		"tables":  tables,
		"missing": missing,
		"healthy": len(missing) == 0,
	}, nil
}

func (r *toolRunner) addSampleData() (interface{}, error) {
	created, err := db.SeedSampleData(db.GetDB())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"restaurants_created": created,
	}, nil
}
