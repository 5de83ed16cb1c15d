package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/howscary-backend/internal/data/repos"
	"github.com/yungbote/howscary-backend/internal/data/repos/testutil"
	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/ctxutil"
)

func TestSetContextFromTokenMirrorsUser(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewAuthService(log, repos.NewUserRepo(db, log), "secret")

	tok, err := SignToken("secret", "uid-1", "a@example.com", "Ann", time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	ctx, user, err := svc.SetContextFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if user.ExternalUID != "uid-1" || user.Role != types.RoleUser {
		t.Fatalf("unexpected user %+v", user)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("request data not attached")
	}

	_, again, err := svc.SetContextFromToken(context.Background(), tok)
	if err != nil || again.ID != user.ID {
		t.Fatalf("expected same user on second login, got %v %v", again, err)
	}
}

func TestSetContextFromTokenRejectsBadTokens(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewAuthService(log, repos.NewUserRepo(db, log), "secret")

	wrongKey, _ := SignToken("other", "uid-1", "", "", time.Hour)
	expired, _ := SignToken("secret", "uid-1", "", "", -time.Hour)
	noSubject, _ := SignToken("secret", "", "", "", time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "uid-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, tok := range map[string]string{"empty": "", "wrong key": wrongKey, "expired": expired, "no subject": noSubject, "alg none": none} {
		if _, _, err := svc.SetContextFromToken(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}
