package pgp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"

	"github.com/CarloDePieri/pass2keepass2/internal/domain"
)

var armorHeader = []byte("-----BEGIN")

// ErrLockedKey is returned when the secret key needs a passphrase and none
// was given
var ErrLockedKey = errors.New("secret key is locked and no passphrase was given")

// Decryptor implements ports.Decryptor without an external gpg process,
// using a secret keyring exported with gpg --export-secret-keys
type Decryptor struct {
	root       string
	keyring    openpgp.EntityList
	passphrase []byte
}

// NewDecryptor loads the keyring at keyringPath, armored or binary
func NewDecryptor(root, keyringPath, passphrase string) (*Decryptor, error) {
	f, err := os.Open(keyringPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	defer f.Close()

	keyring, err := ReadKeyring(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring %s: %w", keyringPath, err)
	}

	return &Decryptor{
		root:       root,
		keyring:    keyring,
		passphrase: []byte(passphrase),
	}, nil
}

// ReadKeyring parses an armored or binary keyring
func ReadKeyring(r io.Reader) (openpgp.EntityList, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(armorHeader))
	if bytes.Equal(head, armorHeader) {
		return openpgp.ReadArmoredKeyRing(br)
	}
	return openpgp.ReadKeyRing(br)
}

// Decrypt returns the plaintext of the entry with the given identifier
func (d *Decryptor) Decrypt(ctx context.Context, identifier string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(d.root, filepath.FromSlash(identifier)+domain.EntryExtension))
	if err != nil {
		return "", err
	}

	return d.decryptBytes(data)
}

func (d *Decryptor) decryptBytes(data []byte) (string, error) {
	var in io.Reader = bytes.NewReader(data)
	if bytes.HasPrefix(data, armorHeader) {
		block, err := armor.Decode(in)
		if err != nil {
			return "", fmt.Errorf("failed to decode armor: %w", err)
		}
		in = block.Body
	}

	md, err := openpgp.ReadMessage(in, d.keyring, d.prompt, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	plaintext, err := io.ReadAll(md.UnverifiedBody)
	if err != nil {
		return "", fmt.Errorf("failed to read plaintext: %w", err)
	}
	return string(plaintext), nil
}

// prompt unlocks the candidate keys. ReadMessage calls it again while no key
// is usable, so a wrong passphrase must be reported as an error.
func (d *Decryptor) prompt(keys []openpgp.Key, symmetric bool) ([]byte, error) {
	if len(d.passphrase) == 0 {
		return nil, ErrLockedKey
	}
	if symmetric {
		return d.passphrase, nil
	}

	for _, k := range keys {
		if k.PrivateKey == nil || !k.PrivateKey.Encrypted {
			continue
		}
		if err := k.PrivateKey.Decrypt(d.passphrase); err != nil {
			return nil, fmt.Errorf("wrong passphrase: %w", err)
		}
	}
	return nil, nil
}
