package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/church-livestream/cls/internal/domain"
	"github.com/church-livestream/cls/internal/ports"
)

const settingsKey = "cls_settings"

// SettingsRepository stocke l'enregistrement de configuration unique en JSON.
type SettingsRepository struct {
	db *sql.DB
}

var _ ports.SettingsRepository = (*SettingsRepository)(nil)

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get fusionne la valeur stockée sur les défauts: un champ absent du JSON
// (ajouté dans une version plus récente) garde sa valeur par défaut.
func (r *SettingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	var b []byte
	err := r.db.QueryRowContext(ctx, `SELECT value_json FROM settings WHERE key = ?`, settingsKey).Scan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, err
	}

	s := domain.DefaultSettings()
	if err := json.Unmarshal(b, &s); err != nil {
		// Valeur corrompue: on repart des défauts plutôt que de bloquer le service.
		return domain.DefaultSettings(), nil
	}
	return s.Sanitize(), nil
}

func (r *SettingsRepository) Put(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	b, err := json.Marshal(settings)
	if err != nil {
		return domain.Settings{}, err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings(key, value_json, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at
	`, settingsKey, b, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return domain.Settings{}, err
	}
	return r.Get(ctx)
}

// UpdatedAt renvoie la date de dernière écriture (zéro si jamais écrit).
func (r *SettingsRepository) UpdatedAt(ctx context.Context) (time.Time, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT updated_at FROM settings WHERE key = ?`, settingsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, raw)
}
