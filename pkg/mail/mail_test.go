package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
)

func TestFormatINR(t *testing.T) {
	cases := map[int64]string{
		0:          "₹0",
		999:        "₹999",
		1000:       "₹1,000",
		123456:     "₹1,23,456",
		12345678:   "₹1,23,45,678",
		-4500:      "-₹4,500",
		1000000000: "₹1,00,00,00,000",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatINR(in), "amount %d", in)
	}
}

func TestNewSenderFallsBackToLogSender(t *testing.T) {
	sender := NewSender(config.SendgridConfig{}, nil)
	logSender, ok := sender.(*LogSender)
	require.True(t, ok)

	require.NoError(t, sender.Send(context.Background(), Message{ToEmail: "a@example.com", Subject: "hi", Body: "b"}))
	assert.Len(t, logSender.Sent, 1)

	_, ok = NewSender(config.SendgridConfig{APIKey: "SG.key", DefaultFrom: "x@y.z"}, nil).(*SendGridSender)
	assert.True(t, ok)
}

func TestMessageValidation(t *testing.T) {
	s := &LogSender{}
	assert.Error(t, s.Send(context.Background(), Message{Subject: "x"}))
	assert.Error(t, s.Send(context.Background(), Message{ToEmail: "a@b.c"}))
	assert.Empty(t, s.Sent)
}
