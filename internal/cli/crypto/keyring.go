package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService — имя сервиса в системном хранилище учётных данных.
const KeyringService = "Webhook-Messenger"

// KeyringProtector хранит мастер-ключ в системном хранилище учётных данных
// (Keychain, Credential Manager, Secret Service).
type KeyringProtector struct {
	*sealer
	service string
	account string
}

// NewKeyringProtector создаёт протектор для учётной записи account.
func NewKeyringProtector(service, account string) *KeyringProtector {
	p := &KeyringProtector{service: service, account: account}
	p.sealer = &sealer{source: p.masterKey}
	return p
}

// Probe проверяет доступность хранилища, при необходимости создавая ключ.
func (p *KeyringProtector) Probe() error {
	_, err := p.workingKey()
	return err
}

func (p *KeyringProtector) masterKey() ([]byte, error) {
	stored, err := keyring.Get(p.service, p.account)
	if err == nil {
		key, derr := base64.StdEncoding.DecodeString(stored)
		if derr != nil {
			return nil, fmt.Errorf("keyring: decode key: %w", derr)
		}
		if len(key) != keyLen {
			return nil, errors.New("keyring: invalid key length")
		}
		return key, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("keyring: %w", err)
	}
	key, err := NewKey()
	if err != nil {
		return nil, err
	}
	if err := keyring.Set(p.service, p.account, base64.StdEncoding.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("keyring: store key: %w", err)
	}
	return key, nil
}
