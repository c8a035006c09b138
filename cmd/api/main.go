package main

import (
	"log"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/nvarma/eldercare-hub/internal/config"
	"github.com/nvarma/eldercare-hub/internal/dbmigrate"
	"github.com/nvarma/eldercare-hub/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)

	if cfg.RunMigrationsOnStartup {
		dbURL, source, _, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			log.Fatalf("FATAL startup migrations: %v", err)
		}

		log.Printf("startup migrations: command=up using=%s", source)
		if err := dbmigrate.Run("up", dbURL, dbmigrate.DefaultMigrationsDir); err != nil {
			log.Fatalf("FATAL startup migrations failed: %v", err)
		}
		log.Printf("startup migrations: completed")
	}

	validateProductionConfig(cfg)

	server := httpserver.New(cfg)

	log.Fatal(server.Start())
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// No secrets are ever printed — only masked indicators ("set" / "not set").
func printStartupBanner(cfg *config.Config) {
	log.Println("========= Eldercare Hub API =========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)

	// ---- Database ----
	log.Println("---- database ----")
	log.Printf("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
	log.Printf("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
	log.Printf("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
	log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
	if cfg.RunMigrationsOnStartup {
		if cfg.DatabaseURLDirect != "" {
			log.Printf("  migrations_via   = DATABASE_URL_DIRECT")
		} else {
			log.Printf("  migrations_via   = (will fail — DATABASE_URL_DIRECT not set)")
		}
	}

	// ---- Documents / Blob ----
	log.Println("---- documents ----")
	log.Printf("  upload_max_mb    = %d", cfg.UploadMaxMB)
	log.Printf("  allowed_mime     = %s", cfg.UploadAllowedMime)
	log.Printf("  blob_mode        = %s", cfg.Blob.Mode)
	if cfg.Blob.Mode != config.BlobModeOff {
		log.Printf("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}

	// ---- Chat ----
	log.Println("---- chat ----")
	log.Printf("  history_limit    = %d", cfg.ChatHistoryLimit)

	// ---- AI ----
	log.Println("---- ai ----")
	log.Printf("  ai_mode          = %s", cfg.AIMode)
	if cfg.AIMode == "groq" {
		log.Printf("  groq_model       = %s", cfg.GroqModel)
		log.Printf("  groq_api_key     = %s", setOrNot(cfg.GroqAPIKey))
		log.Printf("  max_output_tokens = %d", cfg.AIMaxOutputTokens)
		log.Printf("  temperature      = %.2f", cfg.AITemperature)
		log.Printf("  timeout_seconds  = %d", cfg.AITimeoutSeconds)
	}

	log.Println("====================================")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	// S3 hard-mode validation
	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("FATAL blob: BLOB_MODE=s3 but S3 config is incomplete — missing: %s", strings.Join(missing, ", "))
		}
	}

	// DATABASE_URL must be set in production
	if isProd && cfg.DatabaseURL == "" {
		log.Fatalf("FATAL db: no DATABASE_URL configured in %s", cfg.Env)
	}

	// The mock client is a dev tool; in production a real provider is required.
	if isProd && cfg.AIMode != "groq" {
		log.Fatalf("FATAL ai: AI_MODE must be 'groq' in %s (got %q)", cfg.Env, cfg.AIMode)
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
