package token_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/app/system/token"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestCodec_RoundTrip(t *testing.T) {
	codec := token.NewCodec(testKey)
	uid := primitive.NewObjectID()

	cred, err := codec.Issue(uid)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	got, err := codec.Verify(cred)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got != uid {
		t.Errorf("verified user id: got %s, want %s", got.Hex(), uid.Hex())
	}
}

func TestCodec_EmptyCredential(t *testing.T) {
	codec := token.NewCodec(testKey)

	_, err := codec.Verify("")
	if !apperr.IsKind(err, apperr.Unauthenticated) {
		t.Errorf("expected Unauthenticated for empty credential, got %v", err)
	}
}

func TestCodec_TamperedCredential(t *testing.T) {
	codec := token.NewCodec(testKey)

	cred, err := codec.Issue(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	_, err = codec.Verify(cred + "x")
	if !apperr.IsKind(err, apperr.Unauthenticated) {
		t.Errorf("expected Unauthenticated for tampered credential, got %v", err)
	}
}

func TestCodec_WrongKey(t *testing.T) {
	issuer := token.NewCodec(testKey)
	verifier := token.NewCodec("another-key-another-key-another!")

	cred, err := issuer.Issue(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := verifier.Verify(cred); err == nil {
		t.Error("expected verification with a different key to fail")
	}
}
