package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

type mockSnapshotRepo struct {
	mock.Mock
}

func (that *mockSnapshotRepo) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	args := that.Called(ctx, snapshot)
	return args.Error(0)
}

func (that *mockSnapshotRepo) Load(ctx context.Context) (*entity.Snapshot, error) {
	args := that.Called(ctx)

	snapshot, _ := args.Get(0).(*entity.Snapshot)

	return snapshot, args.Error(1)
}

func (that *mockSnapshotRepo) Delete(ctx context.Context) error {
	args := that.Called(ctx)
	return args.Error(0)
}

type mockPreferenceRepo struct {
	mock.Mock
}

func (that *mockPreferenceRepo) DarkMode(ctx context.Context) (bool, error) {
	args := that.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (that *mockPreferenceRepo) SetDarkMode(ctx context.Context, enabled bool) error {
	args := that.Called(ctx, enabled)
	return args.Error(0)
}

type recordingNotifier struct {
	notifications []entity.Notification
}

func (that *recordingNotifier) Notify(notification entity.Notification) {
	that.notifications = append(that.notifications, notification)
}
