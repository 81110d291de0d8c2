package dispatch

import (
	"os"

	json "github.com/goccy/go-json"

	"github.com/ejfox/dispatch-obsidian/internal/dispatch/interfaces"
	"github.com/ejfox/dispatch-obsidian/internal/models"
	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/services"
)

// StateManager persists the daemon's private state (streak history) as a
// zstd-compressed JSON blob, written atomically via tmp file and rename.
type StateManager struct {
	streaks    services.StreakServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewStateManager(compressor interfaces.CompressorInterface, streaks services.StreakServiceInterface, logger providers.Logger) *StateManager {
	return &StateManager{
		compressor: compressor,
		streaks:    streaks,
		logger:     logger,
	}
}

func (sm *StateManager) SaveToFile(fileName string) error {
	state := models.PluginState{Streaks: sm.streaks.Data()}

	jsonData, err := json.Marshal(state)
	if err != nil {
		return err
	}
	data, err := sm.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (sm *StateManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := sm.compressor.Decompress(data)
	if err != nil {
		// Early versions wrote the state uncompressed.
		sm.logger.Warnf(providers.TypeApp, "State file not compressed, trying plain JSON")
		decompressed = data
	}

	var state models.PluginState
	if err := json.Unmarshal(decompressed, &state); err != nil {
		return err
	}
	sm.streaks.Put(state.Streaks)
	return nil
}
