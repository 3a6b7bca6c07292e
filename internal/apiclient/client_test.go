package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"support_chat_client/internal/dto/request"
	"support_chat_client/pkg/errorx"

	"github.com/gin-gonic/gin"
)

func newBackend(t *testing.T, register func(r *gin.Engine)) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestLoginSuccess(t *testing.T) {
	url := newBackend(t, func(r *gin.Engine) {
		r.POST("/api/auth/login", func(c *gin.Context) {
			var req request.LoginRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
				return
			}
			if req.Username != "agent" || req.Password != "secret123" {
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect username or password"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"access_token": "tok-1", "token_type": "bearer"})
		})
	})

	client := New(url, nil)
	tokens, err := client.Login(context.Background(), request.LoginRequest{Username: "agent", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.AccessToken != "tok-1" {
		t.Fatalf("access token = %q, want tok-1", tokens.AccessToken)
	}
}

// The server's detail field must reach the caller verbatim.
func TestErrorDetailSurfacedVerbatim(t *testing.T) {
	url := newBackend(t, func(r *gin.Engine) {
		r.POST("/api/companies/register", func(c *gin.Context) {
			c.JSON(http.StatusConflict, gin.H{"detail": "Slug already taken"})
		})
	})

	client := New(url, nil)
	_, err := client.RegisterCompany(context.Background(), request.CompanyRegisterRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	var codeErr *errorx.CodeError
	if !errors.As(err, &codeErr) {
		t.Fatalf("error type %T", err)
	}
	if codeErr.Code != errorx.CodeAPIError {
		t.Fatalf("code = %d, want %d", codeErr.Code, errorx.CodeAPIError)
	}
	if codeErr.Msg != "Slug already taken" {
		t.Fatalf("msg = %q, want server detail", codeErr.Msg)
	}
}

// A body without a parseable detail field falls back to the generic message.
func TestErrorWithoutDetailFallsBack(t *testing.T) {
	url := newBackend(t, func(r *gin.Engine) {
		r.POST("/api/sessions", func(c *gin.Context) {
			c.String(http.StatusInternalServerError, "boom")
		})
	})

	client := New(url, nil)
	_, err := client.CreateSession(context.Background(), request.CreateSessionRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	var codeErr *errorx.CodeError
	if !errors.As(err, &codeErr) {
		t.Fatalf("error type %T", err)
	}
	if codeErr.Msg != "Request failed. Please try again." {
		t.Fatalf("msg = %q, want generic fallback", codeErr.Msg)
	}
}

func TestUnauthorizedMapsToAuthCode(t *testing.T) {
	url := newBackend(t, func(r *gin.Engine) {
		r.GET("/api/admin/me", func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		})
	})

	client := New(url, func() string { return "stale-token" })
	_, err := client.AdminMe(context.Background())
	if !errorx.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	// A closed server guarantees a connection failure.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(url, nil)
	_, err := client.AdminQueue(context.Background())
	if !errorx.IsNetwork(err) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestBearerHeaderSentWhenTokenPresent(t *testing.T) {
	var gotAuth string
	url := newBackend(t, func(r *gin.Engine) {
		r.GET("/api/admin/queue", func(c *gin.Context) {
			gotAuth = c.GetHeader("Authorization")
			c.JSON(http.StatusOK, []any{})
		})
	})

	client := New(url, func() string { return "tok-42" })
	if _, err := client.AdminQueue(context.Background()); err != nil {
		t.Fatalf("queue: %v", err)
	}
	if gotAuth != "Bearer tok-42" {
		t.Fatalf("Authorization = %q, want Bearer tok-42", gotAuth)
	}
}

func TestSessionMessagesPath(t *testing.T) {
	url := newBackend(t, func(r *gin.Engine) {
		r.GET("/api/sessions/:id/messages", func(c *gin.Context) {
			if c.Param("id") != "sess-9" {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Session not found"})
				return
			}
			c.JSON(http.StatusOK, []gin.H{
				{"content": "hello", "sender_type": "CLIENT"},
				{"content": "hi there", "sender_type": "AI"},
			})
		})
	})

	client := New(url, func() string { return "tok" })
	msgs, err := client.SessionMessages(context.Background(), "sess-9")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2 || msgs[1].SenderType != "AI" {
		t.Fatalf("unexpected history: %+v", msgs)
	}
}
