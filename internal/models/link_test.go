package models

import (
	"testing"
	"time"
)

func TestLinkIsActive(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"statut 1 actif", 1, true},
		{"statut 0 désactivé", 0, false},
		{"statut 2 désactivé", 2, false},
		{"statut négatif désactivé", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Link{Status: tt.status}
			if got := l.IsActive(); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLinkIsExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{"sans expiration", nil, false},
		{"expiration passée", &past, true},
		{"expiration future", &future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Link{ExpiresAt: tt.expiresAt}
			if got := l.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}
