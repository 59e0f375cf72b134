package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/tango/internal/model"
)

// Setting keys stored in the settings table.
const (
	KeyAutoPlayAudio   = "auto_play_audio"
	KeyShowHints       = "show_hints"
	KeyDefaultQuizType = "default_quiz_type"
)

// randomQuizType is the stored value for "no default quiz type".
const randomQuizType = "random"

// EnableKey returns the settings key toggling a quiz type.
func EnableKey(qt model.QuizType) string {
	return "enable_" + qt.String()
}

// SettingKeys lists every settings key in display order.
func SettingKeys() []string {
	keys := []string{KeyAutoPlayAudio, KeyShowHints, KeyDefaultQuizType}
	for _, qt := range model.AllQuizTypes {
		keys = append(keys, EnableKey(qt))
	}
	return keys
}

// Settings loads the quiz settings, filling absent keys with defaults.
func (s *Store) Settings(ctx context.Context) (model.Settings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return model.Settings{}, err
	}
	defer closeRows(rows)

	settings := model.DefaultSettings()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return model.Settings{}, err
		}
		// Unknown or malformed rows keep the default.
		_ = applySetting(&settings, key, value)
	}
	if err := rows.Err(); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

// UpdateSettings stores every field of settings.
func (s *Store) UpdateSettings(ctx context.Context, settings model.Settings) error {
	values := SettingValues(settings)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return putSettings(ctx, tx, values)
	})
}

// SetSetting validates and stores a single key.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	var probe model.Settings
	probe.Enabled = map[model.QuizType]bool{}
	if err := applySetting(&probe, key, value); err != nil {
		return err
	}
	normalized := SettingValues(probe)[key]
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, normalized)
	return err
}

// SettingValues renders settings as stored key/value pairs.
func SettingValues(settings model.Settings) map[string]string {
	values := map[string]string{
		KeyAutoPlayAudio:   strconv.FormatBool(settings.AutoPlayAudio),
		KeyShowHints:       strconv.FormatBool(settings.ShowHints),
		KeyDefaultQuizType: randomQuizType,
	}
	if settings.DefaultQuizType != nil {
		values[KeyDefaultQuizType] = settings.DefaultQuizType.String()
	}
	for _, qt := range model.AllQuizTypes {
		values[EnableKey(qt)] = strconv.FormatBool(settings.Enabled[qt])
	}
	return values
}

func putSettings(ctx context.Context, tx *sql.Tx, values map[string]string) error {
	for _, key := range SettingKeys() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, values[key]); err != nil {
			return err
		}
	}
	return nil
}

func applySetting(settings *model.Settings, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeyAutoPlayAudio:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		settings.AutoPlayAudio = b
	case KeyShowHints:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		settings.ShowHints = b
	case KeyDefaultQuizType:
		if value == "" || strings.EqualFold(value, randomQuizType) {
			settings.DefaultQuizType = nil
			return nil
		}
		qt, err := model.ParseQuizType(value)
		if err != nil {
			return err
		}
		settings.DefaultQuizType = &qt
	default:
		for _, qt := range model.AllQuizTypes {
			if key == EnableKey(qt) {
				b, err := parseBool(value)
				if err != nil {
					return err
				}
				settings.Enabled[qt] = b
				return nil
			}
		}
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", value)
	}
}
