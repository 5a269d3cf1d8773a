package auth_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redwanhasan980/TaskManagement/auth"
)

func TestVerifyEmailHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes the token and reports the verified account", func(t *testing.T) {
		userID := uuid.New()
		var consumed string

		users := &stubUsers{
			consumeVerifyTx: func(ctx context.Context, token string) (*auth.User, error) {
				consumed = token
				return &auth.User{
					ID:            userID,
					Email:         "verified@example.com",
					EmailVerified: true,
				}, nil
			},
		}
		sink := &stubActivitySink{}

		handler := auth.NewVerifyEmailHandler(&stubRepoManager{users: users}).
			WithActivitySink(sink)

		var resp *auth.VerifyEmailResponse
		err := handler.Execute(ctx, auth.VerifyEmailMessage{
			Token: "a-verification-token",
			OnResponse: func(r *auth.VerifyEmailResponse) {
				resp = r
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "a-verification-token", consumed)
		require.NotNil(t, resp)
		assert.True(t, resp.User.EmailVerified)

		require.Len(t, sink.events, 1)
		assert.Equal(t, auth.ActivityEventEmailVerified, sink.events[0].EventType)
		assert.Equal(t, userID.String(), sink.events[0].UserID)
	})

	t.Run("unknown and expired tokens surface as the same error", func(t *testing.T) {
		users := &stubUsers{
			consumeVerifyTx: func(ctx context.Context, token string) (*auth.User, error) {
				return nil, notFound()
			},
		}

		handler := auth.NewVerifyEmailHandler(&stubRepoManager{users: users})

		err := handler.Execute(ctx, auth.VerifyEmailMessage{Token: "gone-or-never-was"})

		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrLifecycleTokenInvalid)
	})

	t.Run("database failure is wrapped as internal", func(t *testing.T) {
		users := &stubUsers{
			consumeVerifyTx: func(ctx context.Context, token string) (*auth.User, error) {
				return nil, goerrors.New("disk on fire", goerrors.CategoryInternal)
			},
		}

		handler := auth.NewVerifyEmailHandler(&stubRepoManager{users: users})

		err := handler.Execute(ctx, auth.VerifyEmailMessage{Token: "any"})

		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrLifecycleTokenInvalid)
	})
}
