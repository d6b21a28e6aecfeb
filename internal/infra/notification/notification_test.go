//go:build unit

package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"venue-reservation/internal/infra/notification"
	"venue-reservation/internal/pkg/config"
	"venue-reservation/internal/pkg/errs"
	notificationmock "venue-reservation/tests/mock/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestResendMailer_Send(t *testing.T) {
	t.Run("posts the message with the api key", func(t *testing.T) {
		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/emails", r.URL.Path)
			assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"id":"email_1"}`))
		}))
		defer srv.Close()

		mailer := notification.NewResendMailer(config.NotifyConfig{
			ResendAPIKey:  "re_test",
			ResendFrom:    "Tech Hub <no-reply@techhub.local>",
			ResendBaseURL: srv.URL + "/",
			SendTimeout:   time.Second,
		})

		err := mailer.Send(context.Background(), "ada@example.com", "Reservation Approved", "<p>pay</p>")

		require.NoError(t, err)
		assert.Equal(t, "Tech Hub <no-reply@techhub.local>", got["from"])
		assert.Equal(t, []any{"ada@example.com"}, got["to"])
		assert.Equal(t, "Reservation Approved", got["subject"])
		assert.Equal(t, "<p>pay</p>", got["html"])
	})

	t.Run("provider rejection surfaces the status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"invalid to"}`))
		}))
		defer srv.Close()

		mailer := notification.NewResendMailer(config.NotifyConfig{ResendBaseURL: srv.URL})

		err := mailer.Send(context.Background(), "bad", "Reservation Approved", "x")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "422")
		assert.Contains(t, err.Error(), "invalid to")
	})
}

func TestConsumer_Handle(t *testing.T) {
	envelope := func(t *testing.T, env notification.Envelope) []byte {
		t.Helper()
		b, err := json.Marshal(env)
		require.NoError(t, err)
		return b
	}

	t.Run("delivers through the mailer with a deadline", func(t *testing.T) {
		mailer := notificationmock.NewMockMailer(gomock.NewController(t))
		mailer.EXPECT().Send(gomock.Any(), "ada@example.com", "Reservation Confirmed", "<p>ok</p>").
			DoAndReturn(func(ctx context.Context, _, _, _ string) error {
				_, ok := ctx.Deadline()
				assert.True(t, ok)
				return nil
			})
		c := notification.NewConsumer("amqp://unused", "q", mailer, time.Second)

		err := c.Handle(context.Background(), envelope(t, notification.Envelope{
			To: "ada@example.com", Subject: "Reservation Confirmed", HTML: "<p>ok</p>",
		}))
		require.NoError(t, err)
	})

	t.Run("mailer failure is returned", func(t *testing.T) {
		mailer := notificationmock.NewMockMailer(gomock.NewController(t))
		sendErr := errs.New("smtp down")
		mailer.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(sendErr)
		c := notification.NewConsumer("amqp://unused", "q", mailer, 0)

		err := c.Handle(context.Background(), envelope(t, notification.Envelope{To: "ada@example.com"}))
		assert.ErrorIs(t, err, sendErr)
	})

	t.Run("undecodable and unaddressed notices never reach the mailer", func(t *testing.T) {
		mailer := notificationmock.NewMockMailer(gomock.NewController(t))
		c := notification.NewConsumer("amqp://unused", "q", mailer, 0)

		assert.Error(t, c.Handle(context.Background(), []byte("{not json")))
		assert.Error(t, c.Handle(context.Background(), envelope(t, notification.Envelope{Subject: "x"})))
	})
}

func TestLogMailer_Send(t *testing.T) {
	assert.NoError(t, notification.NewLogMailer().Send(context.Background(), "ada@example.com", "s", "<p/>"))
}
