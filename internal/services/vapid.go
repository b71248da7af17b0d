package services

import (
	"encoding/json"
	"os"
	"path/filepath"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/apex/log"
)

// VAPIDKeys is the key pair identifying this server to browser push
// services. Generated once and persisted in the data directory.
type VAPIDKeys struct {
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
}

func (k *VAPIDKeys) valid() bool {
	return k != nil && k.PrivateKey != "" && k.PublicKey != ""
}

// InitVAPIDKeys loads the key pair from dataDir, generating and saving a new
// one when none exists. Returns nil when keys can neither be loaded nor
// generated; web push stays disabled in that case.
func InitVAPIDKeys(dataDir string) *VAPIDKeys {
	keysPath := filepath.Join(dataDir, "vapid_keys.json")

	if data, err := os.ReadFile(keysPath); err == nil {
		var keys VAPIDKeys
		if err := json.Unmarshal(data, &keys); err == nil && keys.valid() {
			log.Info("VAPID keys loaded from file")
			return &keys
		}
	}

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		log.Errorf("Failed to generate VAPID keys: %v", err)
		return nil
	}
	keys := &VAPIDKeys{PrivateKey: privateKey, PublicKey: publicKey}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Errorf("Failed to create data directory: %v", err)
		return keys // usable for this process, just not persisted
	}

	data, _ := json.MarshalIndent(keys, "", "  ")
	if err := os.WriteFile(keysPath, data, 0o600); err != nil {
		log.Errorf("Failed to save VAPID keys: %v", err)
	} else {
		log.Infof("VAPID keys generated and saved to %s", keysPath)
	}

	return keys
}
