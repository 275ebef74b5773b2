// Package secrets keeps API keys and mail passwords in the OS keychain so
// they never live in the config file.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// service groups this app's secrets in the OS keychain.
	service = "jobscout"

	AccountAdzuna = "adzuna"
)

func Get(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	pw, err := keyring.Get(service, account)
	if err != nil || strings.TrimSpace(pw) == "" {
		return "", fmt.Errorf("secret %q not found in keychain", account)
	}
	return pw, nil
}

func Set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	return keyring.Set(service, account, value)
}

func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(service, account)
}

// IMAPAccount names the keychain entry for a mailbox login.
func IMAPAccount(username, host string) string {
	return fmt.Sprintf("imap:%s@%s", username, host)
}

// SMTPAccount names the keychain entry for the notifier's sender login.
func SMTPAccount(from string) string {
	return fmt.Sprintf("smtp:%s", from)
}
