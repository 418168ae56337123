package thumbnail_usecase

import (
	"context"
	"image"
	"time"

	"github.com/stretchr/testify/mock"

	"thumbcache/domain"
	"thumbcache/port/source_port"
)

// --- Mock implementations ---

type mockLocalSource struct {
	mock.Mock
}

func (m *mockLocalSource) Stat(ctx context.Context, source string) (*source_port.LocalFileInfo, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*source_port.LocalFileInfo), args.Error(1)
}

func (m *mockLocalSource) Read(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockRemoteSource struct {
	mock.Mock
}

func (m *mockRemoteSource) FetchHeaders(ctx context.Context, rawURL string) (*domain.RemoteHeaders, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemoteHeaders), args.Error(1)
}

func (m *mockRemoteSource) FetchContent(ctx context.Context, rawURL string) (*domain.RemoteContent, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemoteContent), args.Error(1)
}

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Thumbnail(ctx context.Context, data []byte, spec domain.ResizeSpec) (*domain.ProcessedImage, error) {
	args := m.Called(ctx, data, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessedImage), args.Error(1)
}

func (m *mockProcessor) Decode(ctx context.Context, data []byte) (image.Image, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(image.Image), args.Error(1)
}

type mockStorage struct {
	mock.Mock
	root string
}

func (m *mockStorage) Root() string {
	return m.root
}

func (m *mockStorage) Stat(ctx context.Context, relPath string) (*domain.CacheEntry, error) {
	args := m.Called(ctx, relPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CacheEntry), args.Error(1)
}

func (m *mockStorage) Read(ctx context.Context, relPath string) ([]byte, error) {
	args := m.Called(ctx, relPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockStorage) Save(ctx context.Context, relPath string, data []byte) (*domain.CacheEntry, error) {
	args := m.Called(ctx, relPath, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CacheEntry), args.Error(1)
}

func (m *mockStorage) Remove(ctx context.Context, relPath string) error {
	return m.Called(ctx, relPath).Error(0)
}

func (m *mockStorage) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStorage) RemoveExpired(ctx context.Context, now time.Time, expiry time.Duration) (int, error) {
	args := m.Called(ctx, now, expiry)
	return args.Int(0), args.Error(1)
}
