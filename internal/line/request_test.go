package line_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onemouth/chatrelay/internal/line"
)

const (
	testSecret = "channel-secret"
	testBody   = `{"destination":"Ubot","events":[{"type":"message","mode":"active","timestamp":1700000000000,` +
		`"source":{"type":"user","userId":"U1"},"webhookEventId":"evt-1","deliveryContext":{"isRedelivery":false},` +
		`"replyToken":"reply","message":{"type":"text","id":"m1","text":"Привет","quoteToken":"q"}}]}`
)

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestRequestSignatureVerifier(t *testing.T) {
	t.Parallel()

	var got *webhook.CallbackRequest
	next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		cb, ok := line.CallbackRequestFrom(req.Context())
		require.True(t, ok)
		got = cb
		w.WriteHeader(http.StatusOK)
	})
	h := line.NewRequestSignatureVerifier(testSecret).Decorate(next)

	t.Run("valid signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(testBody))
		req.Header.Set("x-line-signature", sign(testSecret, testBody))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		require.Len(t, got.Events, 1)
		ev, ok := line.EventFromWebhook(got.Events[0])
		require.True(t, ok)
		assert.Equal(t, "Привет", ev.Text)
	})

	t.Run("bad signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(testBody))
		req.Header.Set("x-line-signature", sign("wrong", testBody))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
