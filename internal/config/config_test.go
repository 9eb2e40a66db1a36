package config

import "testing"

// Les tests s'exécutent depuis internal/config, où aucun fichier
// configs/config.yaml n'existe: LoadConfig doit retomber sur les défauts.

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Errorf("port = %d, want 8081", cfg.Server.Port)
	}
	if cfg.Database.Name != "short_links.db" {
		t.Errorf("db = %q, want short_links.db", cfg.Database.Name)
	}
	if cfg.Logs.BufferSize != 1000 {
		t.Errorf("buffer_size = %d, want 1000", cfg.Logs.BufferSize)
	}
	if cfg.Logs.WorkerCount != 5 {
		t.Errorf("worker_count = %d, want 5", cfg.Logs.WorkerCount)
	}
	if cfg.AccessPassword != "" {
		t.Errorf("access_password = %q, doit être vide par défaut", cfg.AccessPassword)
	}
}

func TestLoadConfigReadsAccessPasswordFromEnv(t *testing.T) {
	t.Setenv("ACCESS_PASSWORD", "s3cret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AccessPassword != "s3cret" {
		t.Errorf("access_password = %q, want la valeur de l'environnement", cfg.AccessPassword)
	}
}
