package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/revisions/internal/common"
	"github.com/dmitrijs2005/revisions/internal/server/auth"
	"github.com/dmitrijs2005/revisions/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// helper to build server
func newTestServer(secret string) *GRPCServer {
	s := newServer(&fakeRevisions{}, &fakeItems{})
	s.jwtSecret = []byte(secret)
	return s
}

func withToken(token string) context.Context {
	md := metadata.New(map[string]string{
		common.AccessTokenHeaderName: token,
	})
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestInterceptor_Ping_AllowsWithoutToken(t *testing.T) {
	s := newTestServer("secret")

	info := &grpc.UnaryServerInfo{FullMethod: FullMethodName("Ping")}
	handlerCalled := false

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerCalled {
		t.Fatal("handler was not called")
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newTestServer("secret")

	for _, method := range []string{"ListRevisions", "GetRevision", "DeleteRevision", "SaveItem", "DuplicateItem"} {
		t.Run(method, func(t *testing.T) {
			info := &grpc.UnaryServerInfo{FullMethod: FullMethodName(method)}

			h := func(ctx context.Context, req interface{}) (interface{}, error) {
				t.Fatal("handler should not be called when token missing")
				return nil, nil
			}

			_, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
			if status.Code(err) != codes.Unauthenticated {
				t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
			}
			if status.Convert(err).Message() != "missing token" {
				t.Fatalf("expected 'missing token', got %q", status.Convert(err).Message())
			}
		})
	}
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s := newTestServer("secret")

	info := &grpc.UnaryServerInfo{FullMethod: FullMethodName("ListRevisions")}

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called for invalid token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(withToken("not-a-valid-jwt"), nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "invalid token" {
		t.Fatalf("expected 'invalid token', got %q", status.Convert(err).Message())
	}
}

func TestInterceptor_ExpiredToken(t *testing.T) {
	secret := "secret"
	s := newTestServer(secret)

	token, err := auth.GenerateToken("user-123", nil, []byte(secret), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	info := &grpc.UnaryServerInfo{FullMethod: FullMethodName("GetRevision")}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called for expired token")
		return nil, nil
	}

	_, err = s.accessTokenInterceptor(withToken(token), nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "token expired" {
		t.Fatalf("expected 'token expired', got %q", status.Convert(err).Message())
	}
}

func TestInterceptor_ValidToken_SetsCaller(t *testing.T) {
	secret := "super-secret"
	s := newTestServer(secret)

	userID := "user-123"
	token, err := auth.GenerateToken(userID, []models.RoleName{models.RoleProUser}, []byte(secret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	info := &grpc.UnaryServerInfo{FullMethod: FullMethodName("GetRevision")}

	var (
		gotUser  string
		gotRoles []models.RoleName
		gotOK    bool
	)
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		gotUser, gotRoles, gotOK = userFromContext(ctx)
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(withToken(token), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
	if !gotOK || gotUser != userID {
		t.Fatalf("user id not propagated in context: got %v want %v", gotUser, userID)
	}
	if len(gotRoles) != 1 || gotRoles[0] != models.RoleProUser {
		t.Fatalf("roles not propagated in context: %v", gotRoles)
	}
}
