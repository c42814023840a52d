package server

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// EnsureHostKey writes a new ed25519 host key to path unless a file is
// already there. Reports whether a key was generated.
func EnsureHostKey(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return false, fmt.Errorf("generate host key: %w", err)
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return false, fmt.Errorf("marshal host key: %w", err)
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if err := pem.Encode(f, pemBlock); err != nil {
		return false, fmt.Errorf("write host key: %w", err)
	}
	return true, nil
}
