package storage

import (
	"context"
	"errors"
	"io"
)

// ErrUpload wraps any backend failure so callers can treat the media store as
// one opaque collaborator.
var ErrUpload = errors.New("media upload failed")

type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string // stable public URL, stored on the donation record
}

// Storage is the media store boundary: accept a binary upload, hand back a
// public URL. The donation flow only ever needs Put; Delete exists for
// operator cleanup.
type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}
