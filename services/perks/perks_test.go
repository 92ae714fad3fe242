package perks

import (
	"context"
	"testing"

	"cleanly/database/repository/memrepo"
	"cleanly/models"
	"cleanly/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTiers(t *testing.T) {
	valid := DefaultTiers()
	require.NoError(t, ValidateTiers(valid))

	tests := []struct {
		name  string
		tiers []models.Tier
	}{
		{"empty", nil},
		{"first not zero", []models.Tier{{Name: "A", MinCompletedJobs: 1, BonusPercent: "0"}}},
		{"not increasing", []models.Tier{
			{Name: "A", MinCompletedJobs: 0, BonusPercent: "0"},
			{Name: "B", MinCompletedJobs: 0, BonusPercent: "1"},
		}},
		{"duplicate names", []models.Tier{
			{Name: "A", MinCompletedJobs: 0, BonusPercent: "0"},
			{Name: "a", MinCompletedJobs: 5, BonusPercent: "1"},
		}},
		{"bonus too high", []models.Tier{{Name: "A", MinCompletedJobs: 0, BonusPercent: "50.5"}}},
		{"bonus negative", []models.Tier{{Name: "A", MinCompletedJobs: 0, BonusPercent: "-1"}}},
		{"bonus not a number", []models.Tier{{Name: "A", MinCompletedJobs: 0, BonusPercent: "lots"}}},
		{"delay too long", []models.Tier{{Name: "A", MinCompletedJobs: 0, BonusPercent: "0", PayoutDelayDays: 31}}},
		{"missing name", []models.Tier{{Name: "", MinCompletedJobs: 0, BonusPercent: "0"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, utils.IsCode(ValidateTiers(tt.tiers), utils.CodeValidation))
		})
	}
}

func TestResolve(t *testing.T) {
	tiers := DefaultTiers()

	cur, next := Resolve(tiers, 0)
	assert.Equal(t, "Bronze", cur.Name)
	require.NotNil(t, next)
	assert.Equal(t, "Silver", next.Name)

	cur, _ = Resolve(tiers, 10)
	assert.Equal(t, "Silver", cur.Name)

	cur, next = Resolve(tiers, 24)
	assert.Equal(t, "Silver", cur.Name)
	assert.Equal(t, "Gold", next.Name)

	cur, next = Resolve(tiers, 80)
	assert.Equal(t, "Platinum", cur.Name)
	assert.Nil(t, next)
}

func TestProgressAndUpdate(t *testing.T) {
	ctx := context.Background()
	repos := memrepo.New()
	svc := &DefaultPerksService{Settings: repos.Settings, Users: repos.Users}

	require.NoError(t, repos.Users.Create(ctx, &models.User{ID: "c1", Username: "cleaner1", Email: "c1@x.io", Type: models.UserTypeCleaner, CompletedJobs: 12}))

	p, err := svc.Progress(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Silver", p.Current.Name)
	assert.Equal(t, 13, p.JobsToNext)

	_, err = svc.UpdateConfig(ctx, "owner", []models.Tier{
		{Name: " Starter ", MinCompletedJobs: 0, BonusPercent: "0", PayoutDelayDays: 7},
		{Name: "Pro", MinCompletedJobs: 5, BonusPercent: "3.5", PayoutDelayDays: 2},
	})
	require.NoError(t, err)

	p, err = svc.Progress(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Pro", p.Current.Name)
	assert.Nil(t, p.Next)
	assert.Zero(t, p.JobsToNext)

	tier, err := svc.TierFor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Starter", tier.Name)

	_, err = svc.Progress(ctx, "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
