package display

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guidelight-backend/internal/domains/board"
	"guidelight-backend/internal/domains/pick"
	"guidelight-backend/internal/session"
	"guidelight-backend/internal/shared/apperror"
	"guidelight-backend/internal/shared/response"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", func(c *gin.Context) {
		var req map[string]string
		_ = c.ShouldBindJSON(&req)
		if req["password"] != "Secret123" {
			response.Error(c, apperror.ErrUnauthorized.WithMessage("Invalid email or password"))
			return
		}
		response.Success(c, http.StatusOK, gin.H{"access_token": "access", "refresh_token": "refresh", "expires_at": time.Now().Add(time.Hour)})
	})
	v1.POST("/auth/logout", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"signed_out": true})
	})
	v1.GET("/staff/me", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer access" {
			response.Error(c, apperror.ErrUnauthorized)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"id": uuid.New(), "display_name": "Sam", "role": "budtender"})
	})
	v1.GET("/display/boards/:slug", func(c *gin.Context) {
		if c.GetHeader("X-Display-Token") != "kiosk" {
			response.Error(c, apperror.ErrUnauthorized.WithMessage("Invalid display token"))
			return
		}
		if c.Param("slug") != "front" {
			response.Error(c, board.ErrBoardNotFound)
			return
		}
		response.Success(c, http.StatusOK, board.View{Board: board.Board{Name: "Front"}})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SignInNotifiesAndLoadsProfile(t *testing.T) {
	srv := fakeAPI(t)
	client := NewClient(srv.URL, "kiosk", time.Second)
	ctx := context.Background()

	var seen []*session.Session
	unsubscribe := client.OnSessionChange(func(s *session.Session) { seen = append(seen, s) })
	defer unsubscribe()

	s, err := client.SignIn(ctx, "sam@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "access", s.AccessToken)
	require.Len(t, seen, 1)

	profile, err := client.FetchProfile(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "Sam", profile.DisplayName)

	require.NoError(t, client.SignOut(ctx))
	require.Len(t, seen, 2)
	assert.Nil(t, seen[1])
	current, err := client.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestClient_ErrorsAreClassified(t *testing.T) {
	srv := fakeAPI(t)
	client := NewClient(srv.URL, "kiosk", time.Second)
	ctx := context.Background()

	_, err := client.SignIn(ctx, "sam@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, session.KindAuth, session.Classify(err))
	var statusErr *session.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "Invalid email or password", statusErr.Message)

	_, err = client.FetchProfile(ctx, &session.Session{AccessToken: "stale"})
	assert.Equal(t, session.KindAuth, session.Classify(err))

	_, err = client.FetchBoard(ctx, "missing")
	assert.Equal(t, session.KindNotFound, session.Classify(err))

	srv.Close()
	_, err = client.FetchBoard(ctx, "front")
	assert.Equal(t, session.KindNetwork, session.Classify(err))
}

func TestClient_FetchBoardSendsDisplayToken(t *testing.T) {
	srv := fakeAPI(t)

	view, err := NewClient(srv.URL, "kiosk", time.Second).FetchBoard(context.Background(), "front")
	require.NoError(t, err)
	assert.Equal(t, "Front", view.Name)

	_, err = NewClient(srv.URL, "", time.Second).FetchBoard(context.Background(), "front")
	assert.Equal(t, session.KindAuth, session.Classify(err))
}

func TestRender(t *testing.T) {
	brand := "Cookies"
	thc := decimal.RequireFromString("27.5")
	note := "Happy hour 4-6"
	img := "http://cdn/m.jpg"
	view := &board.View{
		Board: board.Board{Name: "Front Counter"},
		Items: []board.RenderedItem{
			{Item: board.Item{Kind: board.KindPick}, Pick: &pick.FeedItem{Title: "Gelato", CategoryName: "Flower", Brand: &brand, THCPercent: &thc, EffectTags: []string{"Relaxed", "Happy"}}},
			{Item: board.Item{Kind: board.KindText, Text: &note}},
			{Item: board.Item{Kind: board.KindAsset}, ImageURL: &img},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, view))
	out := buf.String()
	assert.Contains(t, out, "FRONT COUNTER")
	assert.Contains(t, out, "* Gelato")
	assert.Contains(t, out, "THC 27.5%")
	assert.Contains(t, out, "Relaxed, Happy")
	assert.Contains(t, out, "Happy hour 4-6")
	assert.Contains(t, out, "[image]")

	buf.Reset()
	require.NoError(t, Render(&buf, &board.View{Board: board.Board{Name: "Empty"}}))
	assert.Contains(t, buf.String(), "nothing on this board yet")
}
