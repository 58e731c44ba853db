package notify

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwilio_Send(t *testing.T) {
	var gotPath, gotTo, gotBody, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		assert.NoError(t, r.ParseForm())
		gotTo = r.PostForm.Get("To")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer srv.Close()

	tw := NewTwilio(TwilioConfig{AccountSID: "AC1", AuthToken: "tok", FromNumber: "+15550000", BaseURL: srv.URL + "/"}, srv.Client())
	err := tw.Send(context.Background(), "+15551234", "ignored", "Your OTP code is: 123456.")
	require.NoError(t, err)

	assert.Equal(t, "/2010-04-01/Accounts/AC1/Messages.json", gotPath)
	assert.Equal(t, "AC1", gotUser)
	assert.Equal(t, "+15551234", gotTo)
	assert.Equal(t, "Your OTP code is: 123456.", gotBody)
}

func TestTwilio_SendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number"}`))
	}))
	defer srv.Close()

	tw := NewTwilio(TwilioConfig{AccountSID: "AC1", BaseURL: srv.URL}, srv.Client())
	err := tw.Send(context.Background(), "nope", "", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "21211")
}

func TestSMTP_RejectsHeaderInjection(t *testing.T) {
	s := NewSMTP(SMTPConfig{Server: "127.0.0.1", Port: 1})
	err := s.Send(context.Background(), "a@example.com\r\nBcc: evil@example.com", "hi", "body")
	assert.ErrorIs(t, err, errHeaderInjection)
}

func TestNewMessage(t *testing.T) {
	m, err := newMessage("from@example.com", "to@example.com", "Your MATER OTP Code", "Your OTP code is: 123456.")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "Subject: Your MATER OTP Code")
	assert.Contains(t, raw, "<to@example.com>")
	assert.Contains(t, raw, "Your OTP code is: 123456.")

	_, err = newMessage("from@example.com", "not an address", "s", "b")
	assert.Error(t, err)
}

func TestSMTP_SendDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s := NewSMTP(SMTPConfig{Server: "127.0.0.1", Port: port, From: "from@example.com", Timeout: time.Second})
	err = s.Send(context.Background(), "to@example.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp send")
}

func TestLog_Send(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog("email", slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, l.Send(context.Background(), "a@example.com", "s", "b"))
	assert.Contains(t, buf.String(), `"destination":"a@example.com"`)
}
