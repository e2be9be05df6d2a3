package store

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
	"github.com/sirupsen/logrus"
)

// NewDiskv returns a Backend that keeps one file per record under basePath,
// one directory per bucket.
func NewDiskv(basePath string, log logrus.FieldLogger) (Backend, error) {
	expanded, err := homedir.Expand(basePath)
	if err != nil {
		return nil, fmt.Errorf("store: expand %s: %w", basePath, err)
	}
	if expanded == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &diskvBackend{
		d: diskv.New(diskv.Options{
			BasePath:          expanded,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: expanded,
		log:      log,
	}, nil
}

type diskvBackend struct {
	d        *diskv.Diskv
	basePath string
	log      logrus.FieldLogger
}

func (p *diskvBackend) All(ctx context.Context, bucket string) (map[string][]byte, error) {
	all := make(map[string][]byte)
	prefix := toBucket(bucket) + "-"
	for key := range p.d.KeysPrefix(prefix, ctx.Done()) {
		data, err := p.read(key)
		if err != nil {
			// Another process may have erased it since the walk.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		_, recordKey, ok := fromKey(key)
		if !ok {
			p.log.WithField("key", key).Warn("store: skipping unrecognized file")
			continue
		}
		all[recordKey] = data
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return all, nil
}

// read goes to disk so writes from other processes are seen.
func (p *diskvBackend) read(key string) ([]byte, error) {
	rc, err := p.d.ReadStream(key, true)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *diskvBackend) Read(_ context.Context, bucket, key string) ([]byte, error) {
	data, err := p.read(toKey(bucket, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (p *diskvBackend) Write(_ context.Context, bucket, key string, data []byte) error {
	return p.d.Write(toKey(bucket, key), data)
}

func (p *diskvBackend) Erase(_ context.Context, bucket, key string) error {
	err := p.d.Erase(toKey(bucket, key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func (p *diskvBackend) Close() error { return nil }

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `bucket-key` with both halves hex encoded so neither can
// contain the separator.
func toKey(bucket, key string) string {
	return toBucket(bucket) + "-" + hex.EncodeToString([]byte(key))
}

func fromKey(s string) (bucket, key string, ok bool) {
	encBucket, encKey, found := strings.Cut(s, "-")
	if !found {
		return "", "", false
	}
	b, err := hex.DecodeString(encBucket)
	if err != nil {
		return "", "", false
	}
	k, err := hex.DecodeString(encKey)
	if err != nil {
		return "", "", false
	}
	return string(b), string(k), true
}

func toBucket(s string) string {
	return hex.EncodeToString([]byte(s))
}

func fromBucket(s string) string {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(b)
}
