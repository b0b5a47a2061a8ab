package sshserver

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"pkt.systems/pslog"
)

// EnsureHostKey loads the ed25519 host key at path, generating it on first
// start. A leading "~/" expands to the home directory.
func EnsureHostKey(path string) (ssh.Signer, error) {
	return ensureHostKey(path, nil)
}

func ensureHostKey(path string, log pslog.Logger) (ssh.Signer, error) {
	path, err := expandHome(strings.TrimSpace(path))
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.New("ssh host key path is required")
	}
	if _, err := os.Stat(path); err == nil {
		signer, err := loadHostKey(path)
		if err == nil && log != nil {
			log.Debug("ssh host key loaded", "path", path, "fingerprint", ssh.FingerprintSHA256(signer.PublicKey()))
		}
		return signer, err
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat host key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create host key dir: %w", err)
	}
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "ravenshell host key")
	if err != nil {
		return nil, fmt.Errorf("marshal host key: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			// created by another process since the stat
			return loadHostKey(path)
		}
		return nil, fmt.Errorf("write host key: %w", err)
	}
	if err := pem.Encode(file, block); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("encode host key: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("close host key: %w", err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		return nil, err
	}
	if log != nil {
		log.Info("ssh host key generated", "path", path, "fingerprint", ssh.FingerprintSHA256(signer.PublicKey()))
	}
	return signer, nil
}

func loadHostKey(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read host key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("parse host key: %w", err)
	}
	return signer, nil
}

func expandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand host key path: %w", err)
	}
	return filepath.Join(home, rest), nil
}
