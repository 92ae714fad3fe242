package terms

import (
	"context"
	"testing"

	"cleanly/database/repository/memrepo"
	"cleanly/models"
	"cleanly/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*DefaultTermsService, *memrepo.Terms, *memrepo.Users) {
	t.Helper()
	repo := memrepo.NewTerms()
	users := memrepo.NewUsers()
	return &DefaultTermsService{Repo: repo, Users: users, Cache: utils.NewMemoryCache()}, repo, users
}

func TestPublishIncrementsVersionPerType(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	v1, err := svc.Publish(ctx, "owner", models.PublishTermsRequest{Type: "cleaner", Title: "T", Content: "C1"})
	require.NoError(t, err)
	assert.Equal(t, 1, v1.Version)

	// Populate the cache, then make sure publish invalidates it.
	cur, err := svc.Current(ctx, "cleaner")
	require.NoError(t, err)
	assert.Equal(t, v1.ID, cur.ID)

	v2, err := svc.Publish(ctx, "owner", models.PublishTermsRequest{Type: "cleaner", Title: "T", Content: "C2"})
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Version)

	h1, err := svc.Publish(ctx, "owner", models.PublishTermsRequest{Type: "homeowner", Title: "T", Content: "H"})
	require.NoError(t, err)
	assert.Equal(t, 1, h1.Version)

	cur, err = svc.Current(ctx, "cleaner")
	require.NoError(t, err)
	assert.Equal(t, v2.ID, cur.ID)

	hist, err := svc.History(ctx, "cleaner")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 2, hist[0].Version)
}

func TestPublishValidation(t *testing.T) {
	svc, _, _ := newService(t)
	tests := []struct {
		name string
		req  models.PublishTermsRequest
	}{
		{"bad type", models.PublishTermsRequest{Type: "owner", Title: "T", Content: "C"}},
		{"blank title", models.PublishTermsRequest{Type: "cleaner", Title: "  ", Content: "C"}},
		{"blank content", models.PublishTermsRequest{Type: "cleaner", Title: "T", Content: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Publish(context.Background(), "owner", tt.req)
			assert.True(t, utils.IsCode(err, utils.CodeValidation))
		})
	}
}

func TestCurrentNotFound(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Current(context.Background(), "homeowner")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestAcceptAndStatus(t *testing.T) {
	ctx := context.Background()
	svc, repo, users := newService(t)
	require.NoError(t, users.Create(ctx, &models.User{ID: "c1", Username: "cleaner1", Email: "c1@x.io", Type: "cleaner"}))

	v1, err := svc.Publish(ctx, "owner", models.PublishTermsRequest{Type: "cleaner", Title: "T", Content: "C1"})
	require.NoError(t, err)

	st, err := svc.Status(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, st.RequiresAcceptance)
	assert.Equal(t, 1, st.CurrentVersion)

	acc, err := svc.Accept(ctx, "c1", v1.ID, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", acc.IPAddress)
	require.Len(t, repo.Acceptances, 1)

	st, err = svc.Status(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, st.RequiresAcceptance)
	assert.Equal(t, 1, st.AcceptedVersion)

	v2, err := svc.Publish(ctx, "owner", models.PublishTermsRequest{Type: "cleaner", Title: "T", Content: "C2"})
	require.NoError(t, err)

	// Old version is no longer acceptable.
	_, err = svc.Accept(ctx, "c1", v1.ID, "")
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	st, err = svc.Status(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, st.RequiresAcceptance)

	_, err = svc.Accept(ctx, "c1", v2.ID, "")
	require.NoError(t, err)
	u, err := users.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, u.TermsAcceptedVersion)
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	require.NoError(t, svc.SeedDefaults(ctx))
	require.NoError(t, svc.SeedDefaults(ctx))

	for _, typ := range []string{"homeowner", "cleaner"} {
		hist, err := svc.History(ctx, typ)
		require.NoError(t, err)
		assert.Len(t, hist, 1, typ)
	}
}
