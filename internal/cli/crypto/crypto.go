package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/hkdf"
)

// keyLen — длина ключа для AES‑256 (в байтах).
const keyLen = 32

// LoadOrCreateKey загружает существующий ключ из файла path или создаёт новый случайный.
// Каталог создаётся с правами 0700, файл ключа — 0600.
func LoadOrCreateKey(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("empty key file path")
	}
	if b, err := os.ReadFile(path); err == nil {
		if len(b) != keyLen {
			return nil, errors.New("invalid key length")
		}
		return b, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	// создаём новый ключ
	key, err := NewKey()
	if err != nil {
		return nil, err
	}
	// O_EXCL: если параллельный процесс успел создать ключ, используем его
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return LoadOrCreateKey(path)
		}
		return nil, err
	}
	if _, err := f.Write(key); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return key, nil
}

// NewKey возвращает новый случайный ключ AES‑256.
func NewKey() ([]byte, error) {
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveKey выводит рабочий ключ из мастер-ключа через HKDF-SHA256.
// info привязывает результат к контексту (пользователь, машина).
func DeriveKey(master []byte, info string) ([]byte, error) {
	if len(master) != keyLen {
		return nil, errors.New("invalid key length")
	}
	out := make([]byte, keyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), out); err != nil {
		return nil, err
	}
	return out, nil
}

// Encrypt шифрует данные plain с помощью AES‑GCM и заданного ключа.
// Возвращает шифртекст и nonce.
func Encrypt(plain []byte, key []byte) ([]byte, []byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}
	out := gcm.Seal(nil, nonce, plain, nil)
	return out, nonce, nil
}

// Decrypt расшифровывает шифртекст cipher с использованием AES‑GCM, ключа и nonce.
func Decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.New("invalid nonce size")
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// NonceSize — размер nonce для AES-GCM.
const NonceSize = 12

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
