package crypto

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"

	"go.uber.org/zap"
)

// Виды протекторов, выбираемые конфигурацией.
const (
	KindAuto    = "auto"
	KindKeyFile = "keyfile"
	KindKeyring = "keyring"
)

// NewProtector выбирает реализацию при старте.
// auto пробует системное хранилище и откатывается на файл ключа.
// Если файл ключа уже существует, auto всегда выбирает его: данные,
// зашифрованные им раньше, должны остаться читаемыми.
func NewProtector(kind, keyFile string, logger *zap.SugaredLogger) (Protector, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	switch kind {
	case KindKeyFile:
		return NewKeyFileProtector(keyFile), nil
	case KindKeyring:
		return NewKeyringProtector(KeyringService, currentAccount()), nil
	case KindAuto, "":
		if _, err := os.Stat(keyFile); err == nil {
			logger.Debugw("existing key file found, keeping key file protector", "key_file", keyFile)
			return NewKeyFileProtector(keyFile), nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat key file: %w", err)
		}
		kr := NewKeyringProtector(KeyringService, currentAccount())
		if err := kr.Probe(); err != nil {
			logger.Infow("OS keyring unavailable, using key file", "key_file", keyFile, "error", err)
			return NewKeyFileProtector(keyFile), nil
		}
		return kr, nil
	default:
		return nil, fmt.Errorf("unknown protector %q", kind)
	}
}

func currentAccount() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "default"
}
