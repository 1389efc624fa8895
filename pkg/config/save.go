package config

import (
	"fmt"
	"os"
	"time"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/logging"
	gotoml "github.com/pelletier/go-toml/v2"
)

// SaveGame records the game installation in the user config file,
// keeping every other table the user wrote. An unparseable file is moved
// aside to "<file>.corrupt-<unix>" before a fresh one is written.
func SaveGame(userFile string, game GameConfig) error {
	logger := logging.GetLogger("config.save")
	fsys := filesystem.NewOS()

	doc := map[string]interface{}{}
	data, err := os.ReadFile(userFile)
	switch {
	case err == nil:
		if err := gotoml.Unmarshal(data, &doc); err != nil {
			backup := fmt.Sprintf("%s.corrupt-%d", userFile, time.Now().Unix())
			if renameErr := os.Rename(userFile, backup); renameErr != nil {
				return errors.Wrapf(err, errors.ErrConfigParse, "config %s is corrupt and could not be backed up", userFile).
					WithDetail(errors.DetailPath, userFile)
			}
			logger.Warn().Err(err).Str("backup", backup).Msg("Corrupt config file moved aside")
			doc = map[string]interface{}{}
		}
	case os.IsNotExist(err):
	default:
		return errors.IOFailure(err, "read", userFile)
	}

	doc["game"] = game

	out, err := gotoml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigSave, "failed to encode config")
	}
	if err := filesystem.WriteFileAtomic(fsys, userFile, out, 0644); err != nil {
		return errors.IOFailure(err, "write", userFile)
	}

	logger.Info().Str("path", userFile).Str("gameRoot", game.RootPath).Msg("Game configuration saved")
	return nil
}
