package recognition

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/domain/identity"
	"github.com/kudos/backend/internal/domain/recognition"
	"github.com/kudos/backend/internal/domain/shared"
	"github.com/kudos/backend/internal/infrastructure/persistence"
	"github.com/kudos/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	profileRepo   *persistence.GormProfileRepository
	allowanceRepo *persistence.GormAllowanceRepository
	postRepo      *persistence.GormPostRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ProfileModel{},
		&models.PostModel{},
		&models.WeeklyAllowanceModel{},
	))

	allowanceRepo := persistence.NewGormAllowanceRepository(db)
	return &testEnv{
		profileRepo:   persistence.NewGormProfileRepository(db),
		allowanceRepo: allowanceRepo,
		postRepo:      persistence.NewGormPostRepository(db, allowanceRepo),
	}
}

func (e *testEnv) createProfile(t *testing.T, email string) *identity.Profile {
	t.Helper()
	profile, err := identity.NewProfile(email)
	require.NoError(t, err)
	require.NoError(t, e.profileRepo.Create(context.Background(), profile))
	return profile
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestTransferService_SendThanks(t *testing.T) {
	ctx := context.Background()

	t.Run("commits transfer and reports remaining budget", func(t *testing.T) {
		env := setupEnv(t)
		svc := NewTransferService(env.postRepo, env.allowanceRepo, env.profileRepo, zap.NewNop())
		sender := env.createProfile(t, "sender@example.com")
		recipient := env.createProfile(t, "recipient@example.com")

		result, err := svc.SendThanks(ctx, SendThanksInput{
			SenderID:    sender.ID,
			RecipientID: recipient.ID,
			Message:     "thanks for the on-call cover",
			Points:      30,
		})
		require.NoError(t, err)

		assert.Equal(t, 70, result.Remaining)
		assert.Equal(t, sender.ID, result.Post.Sender.ID)
		assert.Equal(t, recipient.ID, result.Post.Recipient.ID)
		assert.Equal(t, "thanks for the on-call cover", result.Post.Message)
		assert.Equal(t, 30, result.Post.Points)

		post, err := env.postRepo.FindByID(ctx, result.Post.ID)
		require.NoError(t, err)
		assert.Equal(t, 30, post.Points)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		env := setupEnv(t)
		svc := NewTransferService(env.postRepo, env.allowanceRepo, env.profileRepo, zap.NewNop())
		sender := env.createProfile(t, "sender@example.com")

		_, err := svc.SendThanks(ctx, SendThanksInput{
			SenderID:    sender.ID,
			RecipientID: uuid.New(),
			Message:     "hello",
			Points:      10,
		})
		assert.Equal(t, "RECIPIENT_NOT_FOUND", domainCode(t, err))
	})

	t.Run("validation errors surface before any lookup", func(t *testing.T) {
		env := setupEnv(t)
		svc := NewTransferService(env.postRepo, env.allowanceRepo, env.profileRepo, zap.NewNop())
		sender := env.createProfile(t, "sender@example.com")

		_, err := svc.SendThanks(ctx, SendThanksInput{
			SenderID:    sender.ID,
			RecipientID: sender.ID,
			Message:     "well done me",
			Points:      10,
		})
		assert.Equal(t, "SELF_THANKS", domainCode(t, err))

		_, err = svc.SendThanks(ctx, SendThanksInput{
			SenderID:    sender.ID,
			RecipientID: uuid.New(),
			Message:     "too generous",
			Points:      101,
		})
		assert.Equal(t, "POINTS_OUT_OF_RANGE", domainCode(t, err))
	})

	t.Run("advisory check rejects an over-budget transfer with the exact remainder", func(t *testing.T) {
		env := setupEnv(t)
		svc := NewTransferService(env.postRepo, env.allowanceRepo, env.profileRepo, zap.NewNop())
		sender := env.createProfile(t, "sender@example.com")
		recipient := env.createProfile(t, "recipient@example.com")

		weekStart := recognition.WeekStart(time.Now())
		require.NoError(t, env.allowanceRepo.Record(ctx, nil, sender.ID, weekStart, 95))

		_, err := svc.SendThanks(ctx, SendThanksInput{
			SenderID:    sender.ID,
			RecipientID: recipient.ID,
			Message:     "one more",
			Points:      10,
		})
		require.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_ALLOWANCE", domainCode(t, err))
		assert.Contains(t, err.Error(), "5 remaining")

		// spending exactly the remainder still works
		result, err := svc.SendThanks(ctx, SendThanksInput{
			SenderID:    sender.ID,
			RecipientID: recipient.ID,
			Message:     "the last five",
			Points:      5,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Remaining)
	})
}

func TestTransferService_GetAllowance(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	svc := NewTransferService(env.postRepo, env.allowanceRepo, env.profileRepo, zap.NewNop())
	sender := env.createProfile(t, "sender@example.com")
	recipient := env.createProfile(t, "recipient@example.com")

	t.Run("fresh week starts at the full budget", func(t *testing.T) {
		allowance, err := svc.GetAllowance(ctx, sender.ID)
		require.NoError(t, err)
		assert.Equal(t, recognition.WeeklyLimit, allowance.Limit)
		assert.Equal(t, 0, allowance.TotalSent)
		assert.Equal(t, recognition.WeeklyLimit, allowance.Remaining)
		assert.Equal(t, recognition.WeekStart(time.Now()), allowance.WeekStart)
	})

	t.Run("reflects committed transfers", func(t *testing.T) {
		_, err := svc.SendThanks(ctx, SendThanksInput{
			SenderID:    sender.ID,
			RecipientID: recipient.ID,
			Message:     "thanks",
			Points:      40,
		})
		require.NoError(t, err)

		allowance, err := svc.GetAllowance(ctx, sender.ID)
		require.NoError(t, err)
		assert.Equal(t, 40, allowance.TotalSent)
		assert.Equal(t, 60, allowance.Remaining)
	})
}
