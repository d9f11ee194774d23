package mailer

import (
	"bytes"
	"errors"
	"testing"

	"talentscout-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return c.err
}

func TestNewEmailService_DisabledWithoutHost(t *testing.T) {
	assert.Nil(t, NewEmailService("", 587, "", "", "", "", logger.NewNopLogger()))
}

func TestSendScreeningConfirmation(t *testing.T) {
	capture := &captureSender{}
	s := &emailService{dialer: capture, senderEmail: "hr@talentscout.io", senderName: "TalentScout", logger: logger.NewNopLogger()}

	require.NoError(t, s.SendScreeningConfirmation("asha@x.com", "Asha <Rao>", "candidate_abc"))
	require.Len(t, capture.sent, 1)

	m := capture.sent[0]
	assert.Equal(t, []string{"asha@x.com"}, m.GetHeader("To"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "candidate_abc")
	assert.Contains(t, buf.String(), "Asha &lt;Rao&gt;")
}

func TestSendScreeningConfirmation_Failure(t *testing.T) {
	capture := &captureSender{err: errors.New("smtp down")}
	s := &emailService{dialer: capture, senderEmail: "hr@talentscout.io", senderName: "TalentScout", logger: logger.NewNopLogger()}

	assert.Error(t, s.SendScreeningConfirmation("asha@x.com", "Asha", "candidate_abc"))
}
