package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"imageconv/internal/converter"
	"imageconv/internal/intake"
	"imageconv/internal/model"
	repoMocks "imageconv/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransformer is a testify mock for the Transformer seam; the real
// converter is exercised in its own package tests.
type MockTransformer struct {
	mock.Mock
}

func (m *MockTransformer) Process(ctx context.Context, raw []byte, id string, opts *converter.ResizeOptions) error {
	args := m.Called(ctx, raw, id, opts)
	return args.Error(0)
}

func (m *MockTransformer) FilePath(id string) string {
	args := m.Called(id)
	return args.String(0)
}

func TestImageService_Upload(t *testing.T) {
	ctx := context.Background()
	payload := []byte("image-bytes")
	fullParams := intake.Params{"quality": 80, "x": 640, "y": 480}

	tests := []struct {
		name       string
		payload    []byte
		params     intake.Params
		setupMocks func(mConv *MockTransformer, mRepo *repoMocks.MockImageRepository)
		wantID     string
		wantErr    error
		wantErrMsg string
	}{
		{
			name:    "happy path with resize params",
			payload: payload,
			params:  fullParams,
			setupMocks: func(mConv *MockTransformer, mRepo *repoMocks.MockImageRepository) {
				mRepo.On("Create", ctx).Return(&model.Image{ID: "img-1"}, nil)
				mConv.On("Process", ctx, payload, "img-1",
					&converter.ResizeOptions{Quality: 80, Width: 640, Height: 480}).Return(nil)
			},
			wantID: "img-1",
		},
		{
			name:    "partial params treated as none",
			payload: payload,
			params:  intake.Params{"quality": 80, "x": 640},
			setupMocks: func(mConv *MockTransformer, mRepo *repoMocks.MockImageRepository) {
				mRepo.On("Create", ctx).Return(&model.Image{ID: "img-2"}, nil)
				mConv.On("Process", ctx, payload, "img-2", (*converter.ResizeOptions)(nil)).Return(nil)
			},
			wantID: "img-2",
		},
		{
			name:    "zero-valued params treated as none",
			payload: payload,
			params:  intake.Params{"quality": 0, "x": 0, "y": 0},
			setupMocks: func(mConv *MockTransformer, mRepo *repoMocks.MockImageRepository) {
				mRepo.On("Create", ctx).Return(&model.Image{ID: "img-5"}, nil)
				mConv.On("Process", ctx, payload, "img-5", (*converter.ResizeOptions)(nil)).Return(nil)
			},
			wantID: "img-5",
		},
		{
			name:       "empty payload rejected before any side effect",
			payload:    nil,
			params:     fullParams,
			setupMocks: func(mConv *MockTransformer, mRepo *repoMocks.MockImageRepository) {},
			wantErr:    ErrEmptyPayload,
		},
		{
			name:    "placeholder create failure",
			payload: payload,
			params:  fullParams,
			setupMocks: func(mConv *MockTransformer, mRepo *repoMocks.MockImageRepository) {
				mRepo.On("Create", ctx).Return(nil, errors.New("db down"))
			},
			wantErrMsg: "create placeholder: db down",
		},
		{
			name:    "transform failure with successful compensation",
			payload: payload,
			params:  fullParams,
			setupMocks: func(mConv *MockTransformer, mRepo *repoMocks.MockImageRepository) {
				mRepo.On("Create", ctx).Return(&model.Image{ID: "img-3"}, nil)
				mConv.On("Process", ctx, payload, "img-3", mock.Anything).
					Return(errors.New("decode failed"))
				mRepo.On("Delete", ctx, "img-3").Return(nil)
			},
			wantErr: ErrTransformFailed,
		},
		{
			name:    "transform failure with failed compensation escalates",
			payload: payload,
			params:  fullParams,
			setupMocks: func(mConv *MockTransformer, mRepo *repoMocks.MockImageRepository) {
				mRepo.On("Create", ctx).Return(&model.Image{ID: "img-4"}, nil)
				mConv.On("Process", ctx, payload, "img-4", mock.Anything).
					Return(errors.New("decode failed"))
				mRepo.On("Delete", ctx, "img-4").Return(errors.New("db down"))
			},
			wantErr: ErrCompensateFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mConv := new(MockTransformer)
			mRepo := new(repoMocks.MockImageRepository)
			svc := NewImageService(mConv, mRepo, io.Discard)

			tt.setupMocks(mConv, mRepo)

			id, err := svc.Upload(ctx, tt.payload, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}

			mConv.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestImageService_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("record and file both present", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "img-1.jpg")
		require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))

		mConv := new(MockTransformer)
		mRepo := new(repoMocks.MockImageRepository)
		mRepo.On("FindByID", ctx, "img-1").Return(&model.Image{ID: "img-1"}, nil)
		mConv.On("FilePath", "img-1").Return(path)

		svc := NewImageService(mConv, mRepo, io.Discard)
		got, err := svc.Fetch(ctx, "img-1")

		assert.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("unknown record id", func(t *testing.T) {
		mConv := new(MockTransformer)
		mRepo := new(repoMocks.MockImageRepository)
		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		svc := NewImageService(mConv, mRepo, io.Discard)
		_, err := svc.Fetch(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("record without backing file is the same not-found class", func(t *testing.T) {
		mConv := new(MockTransformer)
		mRepo := new(repoMocks.MockImageRepository)
		mRepo.On("FindByID", ctx, "orphan").Return(&model.Image{ID: "orphan"}, nil)
		mConv.On("FilePath", "orphan").Return(filepath.Join(t.TempDir(), "orphan.jpg"))

		svc := NewImageService(mConv, mRepo, io.Discard)
		_, err := svc.Fetch(ctx, "orphan")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("generic repository error passes through", func(t *testing.T) {
		mConv := new(MockTransformer)
		mRepo := new(repoMocks.MockImageRepository)
		mRepo.On("FindByID", ctx, "img-x").Return(nil, errors.New("db down"))

		svc := NewImageService(mConv, mRepo, io.Discard)
		_, err := svc.Fetch(ctx, "img-x")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}
