package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redwanhasan980/TaskManagement/auth"
)

func TestInitializePasswordResetHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a token and emails the link for a known account", func(t *testing.T) {
		userID := uuid.New()

		var storedToken string
		var storedExpiry *time.Time

		users := &stubUsers{
			getByEmailTx: func(ctx context.Context, email string) (*auth.User, error) {
				return &auth.User{ID: userID, Email: email}, nil
			},
			setResetTokenTx: func(ctx context.Context, id uuid.UUID, token string, expires *time.Time) error {
				assert.Equal(t, userID, id)
				storedToken = token
				storedExpiry = expires
				return nil
			},
		}
		notifier := &stubNotifier{}
		sink := &stubActivitySink{}

		handler := auth.NewInitializePasswordResetHandler(&stubRepoManager{users: users}).
			WithNotifier(notifier).
			WithActivitySink(sink)

		var resp *auth.InitializePasswordResetResponse
		err := handler.Execute(ctx, auth.InitializePasswordResetMessage{
			Email: "known@example.com",
			OnResponse: func(r *auth.InitializePasswordResetResponse) {
				resp = r
			},
		})

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.True(t, resp.Success)
		assert.Len(t, resp.ResetToken, auth.MinLifecycleTokenLength)
		assert.Equal(t, storedToken, resp.ResetToken)

		require.NotNil(t, storedExpiry)
		assert.True(t, storedExpiry.After(time.Now()))
		assert.True(t, storedExpiry.Before(time.Now().Add(auth.ResetTokenTTL+time.Minute)))

		require.Len(t, notifier.resets, 1)
		assert.Equal(t, "known@example.com", notifier.resets[0].email)
		assert.Equal(t, resp.ResetToken, notifier.resets[0].token)

		require.Len(t, sink.events, 1)
		assert.Equal(t, auth.ActivityEventPasswordResetRequest, sink.events[0].EventType)
	})

	t.Run("unknown email reports the same success and sends nothing", func(t *testing.T) {
		users := &stubUsers{
			getByEmailTx: func(ctx context.Context, email string) (*auth.User, error) {
				return nil, notFound()
			},
		}
		notifier := &stubNotifier{}
		sink := &stubActivitySink{}

		handler := auth.NewInitializePasswordResetHandler(&stubRepoManager{users: users}).
			WithNotifier(notifier).
			WithActivitySink(sink)

		var resp *auth.InitializePasswordResetResponse
		err := handler.Execute(ctx, auth.InitializePasswordResetMessage{
			Email: "nobody@example.com",
			OnResponse: func(r *auth.InitializePasswordResetResponse) {
				resp = r
			},
		})

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.True(t, resp.Success)
		assert.Nil(t, resp.User)
		assert.Empty(t, resp.ResetToken)
		assert.Empty(t, notifier.resets)
		assert.Empty(t, sink.events)
	})
}

func TestFinalizePasswordResetHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("burns the token and stores the new hash", func(t *testing.T) {
		userID := uuid.New()

		var gotHash, gotToken string

		users := &stubUsers{
			consumeResetTx: func(ctx context.Context, passwordHash, token string) (*auth.User, error) {
				gotHash = passwordHash
				gotToken = token
				return &auth.User{ID: userID, Email: "reset@example.com"}, nil
			},
		}
		sink := &stubActivitySink{}

		handler := auth.NewFinalizePasswordResetHandler(&stubRepoManager{users: users}).
			WithActivitySink(sink)

		err := handler.Execute(ctx, auth.FinalizePasswordResetMessage{
			Token:    "reset-token",
			Password: "newpassword123",
		})

		require.NoError(t, err)
		assert.Equal(t, "reset-token", gotToken)
		assert.NoError(t, auth.ComparePasswordAndHash("newpassword123", gotHash))

		require.Len(t, sink.events, 1)
		assert.Equal(t, auth.ActivityEventPasswordResetSuccess, sink.events[0].EventType)
		assert.Equal(t, userID.String(), sink.events[0].UserID)
	})

	t.Run("spent or unknown tokens surface as the same error", func(t *testing.T) {
		users := &stubUsers{
			consumeResetTx: func(ctx context.Context, passwordHash, token string) (*auth.User, error) {
				return nil, notFound()
			},
		}

		handler := auth.NewFinalizePasswordResetHandler(&stubRepoManager{users: users})

		err := handler.Execute(ctx, auth.FinalizePasswordResetMessage{
			Token:    "already-used",
			Password: "newpassword123",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrLifecycleTokenInvalid)
	})

	t.Run("empty password fails before touching the token", func(t *testing.T) {
		touched := false
		users := &stubUsers{
			consumeResetTx: func(ctx context.Context, passwordHash, token string) (*auth.User, error) {
				touched = true
				return nil, notFound()
			},
		}

		handler := auth.NewFinalizePasswordResetHandler(&stubRepoManager{users: users})

		err := handler.Execute(ctx, auth.FinalizePasswordResetMessage{
			Token:    "reset-token",
			Password: "",
		})

		require.Error(t, err)
		assert.False(t, touched)
	})
}
