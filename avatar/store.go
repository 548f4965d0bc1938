package avatar

import "context"

// Store persists an uploaded image and returns its public URL.
type Store interface {
	// Upload reads the file at path and stores it under a fresh key. The
	// caller owns path and removes it afterwards.
	Upload(ctx context.Context, path string, contentType string) (string, error)
}
