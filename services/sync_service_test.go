package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishguard/directory"
	"phishguard/models"
	"phishguard/store"
)

// fakeDirectory serves a fixed user list, or fails outright.
type fakeDirectory struct {
	users []directory.User
	err   error
}

func (f *fakeDirectory) TestConnection(ctx context.Context) error { return f.err }

func (f *fakeDirectory) ListUsers(ctx context.Context) ([]directory.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

// flakyStore fails recipient inserts for selected emails.
type flakyStore struct {
	*store.MemoryStore
	failEmails map[string]bool
}

func (f *flakyStore) CreateRecipient(ctx context.Context, r *models.Recipient) error {
	if f.failEmails[r.Email] {
		return errors.New("insert failed")
	}
	return f.MemoryStore.CreateRecipient(ctx, r)
}

func directoryUsers(emails ...string) []directory.User {
	users := make([]directory.User, 0, len(emails))
	for _, e := range emails {
		users = append(users, directory.User{Mail: e, GivenName: "Test", SN: "User"})
	}
	return users
}

func TestSyncToCampaign_EnrollsDirectoryUsers(t *testing.T) {
	mem := store.NewMemoryStore()
	dir := &fakeDirectory{users: directoryUsers("a@example.com", "b@example.com")}
	svc := NewSyncService(mem, dir)
	ctx := context.Background()

	result, err := svc.SyncToCampaign(ctx, "c1")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalFound)
	assert.Equal(t, 2, result.Synced)
	assert.Zero(t, result.Skipped)
	assert.Zero(t, result.Errors)
	assert.Len(t, result.Details, 2)

	roster, err := mem.ListRecipientsByCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}

func TestSyncToCampaign_Idempotent(t *testing.T) {
	mem := store.NewMemoryStore()
	dir := &fakeDirectory{users: directoryUsers("a@example.com", "b@example.com", "c@example.com")}
	svc := NewSyncService(mem, dir)
	ctx := context.Background()

	first, err := svc.SyncToCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, first.Synced)

	second, err := svc.SyncToCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, second.Synced, "an unchanged directory enrolls nobody new")
	assert.Equal(t, second.TotalFound, second.Skipped)

	roster, err := mem.ListRecipientsByCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, roster, 3)
}

func TestSyncToCampaign_DedupesCaseInsensitively(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := NewSyncService(mem, &fakeDirectory{users: directoryUsers("Jane.Doe@Example.com")})
	ctx := context.Background()

	_, err := svc.SyncToCampaign(ctx, "c1")
	require.NoError(t, err)

	svc.Directory = &fakeDirectory{users: directoryUsers("jane.doe@example.com")}
	result, err := svc.SyncToCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, result.Synced)
	assert.Equal(t, 1, result.Skipped)
}

func TestSyncToCampaign_DirectoryFailureAbortsRun(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := NewSyncService(mem, &fakeDirectory{err: errors.New("bind failed")})
	ctx := context.Background()

	result, err := svc.SyncToCampaign(ctx, "c1")
	assert.Error(t, err)
	assert.Nil(t, result, "no partial summary when the fetch itself fails")

	roster, err := mem.ListRecipientsByCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, roster)
}

func TestSyncToCampaign_PerRowErrorsAreTallied(t *testing.T) {
	flaky := &flakyStore{
		MemoryStore: store.NewMemoryStore(),
		failEmails:  map[string]bool{"bad@example.com": true},
	}
	dir := &fakeDirectory{users: directoryUsers("good@example.com", "bad@example.com", "fine@example.com")}
	svc := NewSyncService(flaky, dir)
	ctx := context.Background()

	result, err := svc.SyncToCampaign(ctx, "c1")
	require.NoError(t, err, "one bad row must not abort the run")

	assert.Equal(t, 3, result.TotalFound)
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 1, result.Errors)

	var errDetail *SyncDetail
	for i := range result.Details {
		if result.Details[i].Status == SyncStatusError {
			errDetail = &result.Details[i]
		}
	}
	require.NotNil(t, errDetail)
	assert.Equal(t, "bad@example.com", errDetail.Email)
	assert.Equal(t, "insert failed", errDetail.Message)

	roster, err := flaky.ListRecipientsByCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}

func TestSyncToCampaign_EmptyDirectory(t *testing.T) {
	svc := NewSyncService(store.NewMemoryStore(), &fakeDirectory{})
	ctx := context.Background()

	result, err := svc.SyncToCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, result.TotalFound)
	assert.Empty(t, result.Details)
}
