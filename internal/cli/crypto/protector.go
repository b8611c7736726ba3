package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"
	"sync"
)

// ErrProtection — секрет недоступен: повреждённый или чужой шифртекст, нет ключа.
// Это не порча данных: запись остаётся как есть.
var ErrProtection = errors.New("secret protection failed")

// Protector обратимо шифрует одну строку (URL вебхука) для текущего пользователя.
type Protector interface {
	// Protect возвращает шифртекст; для пустой строки или пробелов — "".
	Protect(plaintext string) (string, error)
	// Unprotect обратен Protect; для "" возвращает "".
	Unprotect(ciphertext string) (string, error)
}

// keySource отдаёт рабочий ключ AES-256.
type keySource func() ([]byte, error)

// sealer реализует формат base64(nonce || ciphertext) поверх произвольного источника ключа.
type sealer struct {
	source keySource

	mu  sync.Mutex
	key []byte
}

func (s *sealer) workingKey() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key != nil {
		return s.key, nil
	}
	k, err := s.source()
	if err != nil {
		return nil, err
	}
	s.key = k
	return k, nil
}

// Protect implements Protector.
func (s *sealer) Protect(plaintext string) (string, error) {
	if strings.TrimSpace(plaintext) == "" {
		return "", nil
	}
	key, err := s.workingKey()
	if err != nil {
		return "", fmt.Errorf("%w: key: %v", ErrProtection, err)
	}
	ct, nonce, err := Encrypt([]byte(plaintext), key)
	if err != nil {
		return "", fmt.Errorf("%w: encrypt: %v", ErrProtection, err)
	}
	buf := make([]byte, 0, len(nonce)+len(ct))
	buf = append(buf, nonce...)
	buf = append(buf, ct...)
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Unprotect implements Protector.
func (s *sealer) Unprotect(ciphertext string) (string, error) {
	if strings.TrimSpace(ciphertext) == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(ciphertext))
	if err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrProtection, err)
	}
	if len(raw) <= NonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrProtection)
	}
	key, err := s.workingKey()
	if err != nil {
		return "", fmt.Errorf("%w: key: %v", ErrProtection, err)
	}
	plain, err := Decrypt(raw[NonceSize:], raw[:NonceSize], key)
	if err != nil {
		return "", fmt.Errorf("%w: decrypt: %v", ErrProtection, err)
	}
	return string(plain), nil
}

// KeyFileProtector хранит мастер-ключ в файле с правами 0600 рядом с данными.
// Рабочий ключ выводится из мастер-ключа и идентичности "пользователь@машина",
// поэтому скопированный файл ключа на другой машине не подойдёт.
type KeyFileProtector struct {
	*sealer
	path  string
	scope string
}

// KeyFileOption настраивает KeyFileProtector.
type KeyFileOption func(*KeyFileProtector)

// WithScope переопределяет идентичность, к которой привязан ключ.
func WithScope(scope string) KeyFileOption {
	return func(p *KeyFileProtector) { p.scope = scope }
}

// NewKeyFileProtector создаёт протектор поверх файла ключа path. Ключ создаётся при первом использовании.
func NewKeyFileProtector(path string, opts ...KeyFileOption) *KeyFileProtector {
	p := &KeyFileProtector{path: path, scope: LocalScope()}
	for _, o := range opts {
		o(p)
	}
	p.sealer = &sealer{source: func() ([]byte, error) {
		master, err := LoadOrCreateKey(p.path)
		if err != nil {
			return nil, err
		}
		return DeriveKey(master, p.scope)
	}}
	return p
}

// Path returns the key file location.
func (p *KeyFileProtector) Path() string { return p.path }

// LocalScope возвращает "пользователь@машина" для текущего процесса.
func LocalScope() string {
	name := "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return name + "@" + host
}
