package ports

import "context"

// Decrypter turns secrets-backend ciphertext into plaintext.
type Decrypter interface {
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

// Encrypter protects a plaintext for the application file. It is independent
// of Decrypter: different key material, different backend.
type Encrypter interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
}
