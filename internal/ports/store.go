package ports

import "context"

// StoreScanner enumerates the record identifiers of a password store
type StoreScanner interface {
	// Scan returns every record identifier ("web/emails/test4") under the
	// store root. The order is stable for an unchanged store.
	Scan(ctx context.Context) ([]string, error)

	// Root returns the absolute store root
	Root() string
}

// Decryptor turns a record identifier into its decrypted plaintext
type Decryptor interface {
	Decrypt(ctx context.Context, identifier string) (string, error)
}
