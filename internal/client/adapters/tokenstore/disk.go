package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/client/ports/store"
	"aitsclient/pkg/logger"
)

const (
	filePerm = 0o600
	pathPerm = 0o700
)

// DiskStore хранит токены в каталоге: по файлу на ключ access_token и refresh_token.
// Кэш diskv выключен, чтобы изменения других процессов были видны сразу.
type DiskStore struct {
	mu sync.Mutex
	dv *diskv.Diskv
}

// NewDiskStore создает файловое хранилище в каталоге dir.
func NewDiskStore(dir string) (store.TokenStore, error) {
	if err := os.MkdirAll(dir, pathPerm); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteTokens, err)
	}

	flatTransform := func(string) []string { return []string{} }

	dv := diskv.New(diskv.Options{
		BasePath:  dir,
		TempDir:   filepath.Join(dir, ".tmp"),
		Transform: flatTransform,
		FilePerm:  filePerm,
		PathPerm:  pathPerm,
	})

	return &DiskStore{dv: dv}, nil
}

func (s *DiskStore) Get(ctx context.Context) (*entities.CredentialPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	access, err := s.read(KeyAccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.read(KeyRefreshToken)
	if err != nil {
		return nil, err
	}

	pair := &entities.CredentialPair{AccessToken: access, RefreshToken: refresh}
	if !pair.IsComplete() {
		if access != "" || refresh != "" {
			logger.Log(ctx).Debug(ctx, LogPartialPair, zap.String("store", "file"))
		}
		return nil, nil
	}
	return pair, nil
}

func (s *DiskStore) read(key string) (string, error) {
	val, err := s.dv.Read(key)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrReadTokens, key, err)
	}
	return string(val), nil
}

func (s *DiskStore) Set(ctx context.Context, pair *entities.CredentialPair) error {
	if !pair.IsComplete() {
		return ErrIncompletePair
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// refresh пишется первым: при сбое между записями пара остается неполной или старой
	if err := s.dv.Write(KeyRefreshToken, []byte(pair.RefreshToken)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTokens, err)
	}
	if err := s.dv.Write(KeyAccessToken, []byte(pair.AccessToken)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTokens, err)
	}

	logger.Log(ctx).Debug(ctx, LogTokensStored, zap.String("store", "file"))
	return nil
}

func (s *DiskStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, key := range []string{KeyAccessToken, KeyRefreshToken} {
		if err := s.dv.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrClearTokens, err)
	}

	logger.Log(ctx).Debug(ctx, LogTokensCleared, zap.String("store", "file"))
	return nil
}
