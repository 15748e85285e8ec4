package contact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/pkg/models"
)

func validRequest() models.ContactRequest {
	return models.ContactRequest{
		Name:        "  Jane Doe ",
		Email:       "jane@example.com",
		Subject:     "Export question",
		InquiryType: "Support",
		Message:     "How do I export?",
	}
}

func TestSendPostsFormEncodedMessage(t *testing.T) {
	var got http.Header
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		assert.NoError(t, r.ParseForm())
		form = r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.URL, "https://example.com/thanks", srv.Client())
	require.NoError(t, c.Send(context.Background(), validRequest()))

	assert.Equal(t, "application/x-www-form-urlencoded", got.Get("Content-Type"))
	assert.Equal(t, []string{"Jane Doe"}, form["name"])
	assert.Equal(t, []string{"Technical Support"}, form["inquiryType"])
	assert.Equal(t, []string{"false"}, form["_captcha"])
	assert.Equal(t, []string{"https://example.com/thanks"}, form["_next"])
}

func TestSendRejectsInvalidInput(t *testing.T) {
	c := NewClientWithHTTP("http://127.0.0.1:1", "", http.DefaultClient)

	req := validRequest()
	req.Email = "not-an-email"
	assert.True(t, errors.Is(c.Send(context.Background(), req), ErrInvalid))

	req = validRequest()
	req.InquiryType = "sales"
	assert.True(t, errors.Is(c.Send(context.Background(), req), ErrInvalid))

	req = validRequest()
	req.Message = "   "
	assert.True(t, errors.Is(c.Send(context.Background(), req), ErrInvalid))
}

func TestSendReportsRelayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.URL, "", srv.Client())
	assert.True(t, errors.Is(c.Send(context.Background(), validRequest()), ErrDelivery))
}

func TestSendWithoutEndpoint(t *testing.T) {
	c := NewClientWithHTTP("", "", http.DefaultClient)
	assert.True(t, errors.Is(c.Send(context.Background(), validRequest()), ErrNotConfigured))

	c = NewClientWithHTTP("https://formsubmit.co/${CONTACT_EMAIL}", "", http.DefaultClient)
	assert.True(t, errors.Is(c.Send(context.Background(), validRequest()), ErrNotConfigured))
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(2)
	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("5.6.7.8"))

	unlimited := NewLimiter(0)
	for i := 0; i < 100; i++ {
		require.True(t, unlimited.Allow("k"))
	}
}
