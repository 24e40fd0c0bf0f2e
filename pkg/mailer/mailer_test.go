package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func testConfig() Config {
	return Config{
		Host:      "smtp.example.com",
		Port:      587,
		FromName:  "ShopIT",
		FromEmail: "noreply@shopit.test",
	}
}

func TestSMTPMailer_Send_Success(t *testing.T) {
	var sent []*gomail.Message
	m := newSMTPMailer(testConfig(), func(msgs ...*gomail.Message) error {
		sent = append(sent, msgs...)
		return nil
	})

	err := m.Send(context.Background(), Message{
		To:      "buyer@example.com",
		Subject: "ShopIT Password Recovery",
		Body:    "reset link",
	})

	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"ShopIT <noreply@shopit.test>"}, sent[0].GetHeader("From"))
	assert.Equal(t, []string{"buyer@example.com"}, sent[0].GetHeader("To"))
	assert.Equal(t, []string{"ShopIT Password Recovery"}, sent[0].GetHeader("Subject"))
}

func TestSMTPMailer_Send_TransportError(t *testing.T) {
	m := newSMTPMailer(testConfig(), func(msgs ...*gomail.Message) error {
		return errors.New("connection refused")
	})

	err := m.Send(context.Background(), Message{To: "a@b.c", Subject: "s", Body: "b"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPMailer_Send_InvalidMessage(t *testing.T) {
	called := false
	m := newSMTPMailer(testConfig(), func(msgs ...*gomail.Message) error {
		called = true
		return nil
	})

	err := m.Send(context.Background(), Message{Subject: "no recipient"})

	assert.ErrorIs(t, err, ErrInvalidMessage)
	assert.False(t, called)
}

func TestSMTPMailer_Send_CancelledContext(t *testing.T) {
	m := newSMTPMailer(testConfig(), func(msgs ...*gomail.Message) error {
		t.Error("send should not be called")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, Message{To: "a@b.c", Subject: "s"})

	assert.ErrorIs(t, err, context.Canceled)
}
