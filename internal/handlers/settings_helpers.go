package handlers

import (
	"database/sql"
	"encoding/json"
	"log"

	"github.com/wyshkit/wyshkit-golang/internal/pricing"
)

//
// --- Settings Helpers ---
//
// Pricing configuration lives in the settings table as JSON values so admins
// can retune fees without a deploy. Missing or malformed rows fall back to
// the compiled-in defaults.
//

const (
	settingDeliveryFeeConfig = "delivery_fee_config"
	settingPlatformFeeConfig = "platform_fee_config"
	settingSurgeConditions   = "surge_conditions"
	settingMaintenanceMode   = "maintenance_mode"
)

// SurgeConditions are the live courier conditions an admin keeps current.
// Express delivery quotes read these; the timestamp factors come from the
// clock at quote time.
type SurgeConditions struct {
	Weather string `json:"weather,omitempty"` // "rain", "extreme_heat" or empty
	Demand  int    `json:"demand"`            // 0-100
}

func getSettingJSON(db *sql.DB, key string, dest interface{}) error {
	var raw []byte
	err := db.QueryRow("SELECT setting_value FROM settings WHERE setting_key = ?", key).Scan(&raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// loadDeliveryFeeConfig returns the configured delivery fee table, or the
// platform default when the setting is absent.
func (h *Handlers) loadDeliveryFeeConfig() pricing.DeliveryFeeConfig {
	var config pricing.DeliveryFeeConfig
	if err := getSettingJSON(h.DB, settingDeliveryFeeConfig, &config); err != nil {
		if err != sql.ErrNoRows {
			log.Printf("WARN: could not load %s setting, using defaults: %v", settingDeliveryFeeConfig, err)
		}
		return pricing.NewDefaultDeliveryFeeConfig()
	}
	return config
}

// loadPlatformFeeConfig returns the configured platform fee, or the default.
func (h *Handlers) loadPlatformFeeConfig() pricing.PlatformFeeConfig {
	var config pricing.PlatformFeeConfig
	if err := getSettingJSON(h.DB, settingPlatformFeeConfig, &config); err != nil {
		if err != sql.ErrNoRows {
			log.Printf("WARN: could not load %s setting, using defaults: %v", settingPlatformFeeConfig, err)
		}
		return pricing.NewDefaultPlatformFeeConfig()
	}
	return config
}

// loadSurgeConditions returns the live surge conditions; calm defaults when
// the setting is absent.
func (h *Handlers) loadSurgeConditions() SurgeConditions {
	var conditions SurgeConditions
	if err := getSettingJSON(h.DB, settingSurgeConditions, &conditions); err != nil {
		if err != sql.ErrNoRows {
			log.Printf("WARN: could not load %s setting, using defaults: %v", settingSurgeConditions, err)
		}
		return SurgeConditions{}
	}
	return conditions
}

// saveSettingJSON upserts one JSON-valued settings row.
func saveSettingJSON(db *sql.DB, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO settings (setting_key, setting_value)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)`,
		key, raw)
	return err
}
