// Package auth keeps the local API bearer token on disk for companion UIs.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenFileName — имя файла с токеном локального API внутри каталога данных.
const TokenFileName = "api.token"

// TokenPath returns the full path to the API token file under dataDir.
func TokenPath(dataDir string) string {
	return filepath.Join(dataDir, TokenFileName)
}

// SaveToken пишет токен в файл с правами 0600.
func SaveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

// LoadToken reads the token, trimming trailing whitespace.
func LoadToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", errors.New("empty token file")
	}
	return tok, nil
}

// RemoveToken удаляет файл токена; отсутствие файла не ошибка.
func RemoveToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
