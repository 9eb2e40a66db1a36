package workers

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mengnanen/short-links/internal/models"
	"github.com/mengnanen/short-links/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("impossible d'ouvrir la base de test: %v", err)
	}
	if err := db.AutoMigrate(&models.LogEntry{}); err != nil {
		t.Fatalf("impossible de migrer la base de test: %v", err)
	}
	return db
}

func TestLogWorkersPersistEvents(t *testing.T) {
	db := setupTestDB(t)
	logRepo := repository.NewLogRepository(db)

	ch := make(chan models.LogEvent, 10)
	StartLogWorkers(2, ch, logRepo)

	// Publier quelques visites pour le même slug.
	for i := 0; i < 3; i++ {
		ch <- models.LogEvent{
			URL:       "https://example.com/page",
			Slug:      "go01",
			Referer:   "https://referrer.example/",
			UA:        "test-agent",
			IP:        "203.0.113.7",
			Timestamp: time.Now(),
		}
	}
	close(ch)

	// Les workers sont asynchrones: on attend que les trois insertions
	// apparaissent, avec une échéance raisonnable.
	deadline := time.Now().Add(5 * time.Second)
	for {
		count, err := logRepo.CountLogsBySlug("go01")
		if err != nil {
			t.Fatalf("comptage des logs: %v", err)
		}
		if count == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("count = %d après l'échéance, want 3", count)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Vérifier le contenu d'une ligne persistée.
	var entry models.LogEntry
	if err := db.Where("slug = ?", "go01").First(&entry).Error; err != nil {
		t.Fatalf("log introuvable: %v", err)
	}
	if entry.URL != "https://example.com/page" {
		t.Errorf("url = %q", entry.URL)
	}
	if entry.IP == nil || *entry.IP != "203.0.113.7" {
		t.Errorf("ip = %v, want 203.0.113.7", entry.IP)
	}
}

func TestLogWorkersStoreEmptyFieldsAsNull(t *testing.T) {
	db := setupTestDB(t)
	logRepo := repository.NewLogRepository(db)

	ch := make(chan models.LogEvent, 1)
	StartLogWorkers(1, ch, logRepo)

	ch <- models.LogEvent{
		URL:       "https://example.com/page",
		Slug:      "anon",
		Timestamp: time.Now(),
	}
	close(ch)

	deadline := time.Now().Add(5 * time.Second)
	for {
		count, err := logRepo.CountLogsBySlug("anon")
		if err != nil {
			t.Fatalf("comptage des logs: %v", err)
		}
		if count == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("le log n'a jamais été persisté")
		}
		time.Sleep(10 * time.Millisecond)
	}

	var entry models.LogEntry
	if err := db.Where("slug = ?", "anon").First(&entry).Error; err != nil {
		t.Fatalf("log introuvable: %v", err)
	}
	if entry.Referer != nil || entry.UA != nil || entry.IP != nil {
		t.Errorf("les champs absents doivent être nil: %+v", entry)
	}
}
