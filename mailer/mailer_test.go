package mailer_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/redwanhasan980/TaskManagement/mailer"
)

// MockSender is a mock implementation of Sender for testing
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendEmail(ctx context.Context, params mailer.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  mailer.SendEmailParams
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid params",
			params: mailer.SendEmailParams{
				SendTo:   "user@example.com",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
				Tag:      "test",
			},
			wantErr: false,
		},
		{
			name: "valid params without tag",
			params: mailer.SendEmailParams{
				SendTo:   "user@example.com",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: false,
		},
		{
			name: "empty SendTo",
			params: mailer.SendEmailParams{
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: true,
			errMsg:  "SendTo is required",
		},
		{
			name: "whitespace only SendTo",
			params: mailer.SendEmailParams{
				SendTo:   "   ",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: true,
			errMsg:  "SendTo is required",
		},
		{
			name: "invalid email format",
			params: mailer.SendEmailParams{
				SendTo:   "invalid-email",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: true,
			errMsg:  "SendTo must be a valid email address",
		},
		{
			name: "invalid email missing domain",
			params: mailer.SendEmailParams{
				SendTo:   "user@",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: true,
			errMsg:  "SendTo must be a valid email address",
		},
		{
			name: "empty Subject",
			params: mailer.SendEmailParams{
				SendTo:   "user@example.com",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: true,
			errMsg:  "Subject is required",
		},
		{
			name: "empty BodyHTML",
			params: mailer.SendEmailParams{
				SendTo:  "user@example.com",
				Subject: "Test Subject",
			},
			wantErr: true,
			errMsg:  "BodyHTML is required",
		},
		{
			name: "complex valid email",
			params: mailer.SendEmailParams{
				SendTo:   "test.user+tag@sub.example.com",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.params.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, mailer.ErrInvalidParams)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("writes HTML body and JSON metadata", func(t *testing.T) {
		t.Parallel()

		tempDir := t.TempDir()
		sender := mailer.NewDevSender(tempDir)

		params := mailer.SendEmailParams{
			SendTo:   "user@example.com",
			Subject:  "Test Email",
			BodyHTML: "<p>Test content</p>",
			Tag:      "email-verification",
		}

		err := sender.SendEmail(ctx, params)
		require.NoError(t, err)

		files, err := os.ReadDir(tempDir)
		require.NoError(t, err)
		require.Len(t, files, 2)

		var htmlFile, jsonFile string
		for _, file := range files {
			if strings.HasSuffix(file.Name(), ".html") {
				htmlFile = filepath.Join(tempDir, file.Name())
			}
			if strings.HasSuffix(file.Name(), ".json") {
				jsonFile = filepath.Join(tempDir, file.Name())
			}
		}

		require.NotEmpty(t, htmlFile)
		require.NotEmpty(t, jsonFile)

		htmlContent, err := os.ReadFile(htmlFile)
		require.NoError(t, err)
		assert.Equal(t, "<p>Test content</p>", string(htmlContent))

		jsonContent, err := os.ReadFile(jsonFile)
		require.NoError(t, err)

		var metadata map[string]string
		require.NoError(t, json.Unmarshal(jsonContent, &metadata))
		assert.Equal(t, "user@example.com", metadata["send_to"])
		assert.Equal(t, "Test Email", metadata["subject"])
		assert.Equal(t, "email-verification", metadata["tag"])

		// the tag becomes part of the filename
		assert.Contains(t, filepath.Base(htmlFile), "email-verification")
	})

	t.Run("falls back to the subject for the filename", func(t *testing.T) {
		t.Parallel()

		tempDir := t.TempDir()
		sender := mailer.NewDevSender(tempDir)

		err := sender.SendEmail(ctx, mailer.SendEmailParams{
			SendTo:   "user@example.com",
			Subject:  "Weekly Digest #42!",
			BodyHTML: "<p>hi</p>",
		})
		require.NoError(t, err)

		files, err := os.ReadDir(tempDir)
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Contains(t, files[0].Name(), "weekly_digest_42")
	})

	t.Run("rejects invalid params", func(t *testing.T) {
		t.Parallel()

		tempDir := t.TempDir()
		sender := mailer.NewDevSender(tempDir)

		err := sender.SendEmail(ctx, mailer.SendEmailParams{
			SendTo: "not-an-email",
		})

		assert.Error(t, err)
		assert.ErrorIs(t, err, mailer.ErrInvalidParams)

		files, _ := os.ReadDir(tempDir)
		assert.Empty(t, files)
	})
}

func TestNotifier_SendVerificationEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("builds the verification link and tag", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		notifier := mailer.NewNotifier(sender, "https://tasks.example.com/")

		var sent mailer.SendEmailParams
		sender.On("SendEmail", ctx, mock.AnythingOfType("mailer.SendEmailParams")).
			Run(func(args mock.Arguments) {
				sent = args.Get(1).(mailer.SendEmailParams)
			}).
			Return(nil).Once()

		err := notifier.SendVerificationEmail(ctx, "new@example.com", "token123")
		require.NoError(t, err)

		assert.Equal(t, "new@example.com", sent.SendTo)
		assert.Equal(t, "Verify your email address", sent.Subject)
		assert.Equal(t, "email-verification", sent.Tag)
		assert.Contains(t, sent.BodyHTML, "https://tasks.example.com/verify-email?token=token123")

		sender.AssertExpectations(t)
	})

	t.Run("propagates sender failures", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		notifier := mailer.NewNotifier(sender, "https://tasks.example.com")

		sender.On("SendEmail", ctx, mock.AnythingOfType("mailer.SendEmailParams")).
			Return(mailer.ErrFailedToSendEmail).Once()

		err := notifier.SendVerificationEmail(ctx, "new@example.com", "token123")
		assert.ErrorIs(t, err, mailer.ErrFailedToSendEmail)

		sender.AssertExpectations(t)
	})
}

func TestNotifier_SendPasswordResetEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	sender := &MockSender{}
	notifier := mailer.NewNotifier(sender, "https://tasks.example.com")

	var sent mailer.SendEmailParams
	sender.On("SendEmail", ctx, mock.AnythingOfType("mailer.SendEmailParams")).
		Run(func(args mock.Arguments) {
			sent = args.Get(1).(mailer.SendEmailParams)
		}).
		Return(nil).Once()

	err := notifier.SendPasswordResetEmail(ctx, "known@example.com", "resettoken")
	require.NoError(t, err)

	assert.Equal(t, "known@example.com", sent.SendTo)
	assert.Equal(t, "Reset your password", sent.Subject)
	assert.Equal(t, "password-reset", sent.Tag)
	assert.Contains(t, sent.BodyHTML, "https://tasks.example.com/reset-password?token=resettoken")

	sender.AssertExpectations(t)
}
