package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("valid response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<ValCurs/>"))
			}),
		)
		defer srv.Close()

		c := NewClient(time.Second)

		body, err := c.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, []byte("<ValCurs/>"), body)
	})

	t.Run("non-2xx status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}),
		)
		defer srv.Close()

		c := NewClient(time.Second)

		_, err := c.Fetch(context.Background(), srv.URL)

		var statusErr *StatusError

		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.Code)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		blockCh := make(chan struct{})

		srv := httptest.NewServer(
			http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
				<-blockCh
			}),
		)

		// Unblock the handler before the server shuts down
		defer srv.Close()
		defer close(blockCh)

		c := NewClient(time.Millisecond * 50)

		_, err := c.Fetch(context.Background(), srv.URL)

		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()

		// Nothing is listening on this address
		srv := httptest.NewServer(
			http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}),
		)
		url := srv.URL

		srv.Close()

		c := NewClient(time.Second)

		_, err := c.Fetch(context.Background(), url)

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrTimeout)
	})

	t.Run("default timeout fallback", func(t *testing.T) {
		t.Parallel()

		c := NewClient(0)

		assert.Equal(t, DefaultTimeout, c.client.Timeout)
	})
}
