package http_test

import (
	"context"
	"errors"
	nethttp "net/http"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "multistop/internal/adapters/in/http"
	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
)

func TestParseToken_RoundTrip(t *testing.T) {
	companyID := kernel.NewUUID()
	p := httpadapter.Principal{ID: kernel.NewUUID(), Role: httpadapter.RoleDriver, CompanyID: &companyID}

	tok, err := httpadapter.IssueToken(p, secret, jwt.RegisteredClaims{})
	require.NoError(t, err)

	got, err := httpadapter.ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, httpadapter.RoleDriver, got.Role)
	require.NotNil(t, got.CompanyID)
	assert.Equal(t, companyID, *got.CompanyID)
}

func TestParseToken_Rejects(t *testing.T) {
	subject := kernel.NewUUID().String()
	sign := func(method jwt.SigningMethod, claims httpadapter.Claims) string {
		tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return tok
	}

	cases := map[string]string{
		"wrong algorithm": sign(jwt.SigningMethodHS384, httpadapter.Claims{
			Role: "client", RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		}),
		"unknown role": sign(jwt.SigningMethodHS256, httpadapter.Claims{
			Role: "dispatcher", RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		}),
		"missing subject": sign(jwt.SigningMethodHS256, httpadapter.Claims{Role: "client"}),
		"bad subject": sign(jwt.SigningMethodHS256, httpadapter.Claims{
			Role: "client", RegisteredClaims: jwt.RegisteredClaims{Subject: "nope"},
		}),
		"expired": sign(jwt.SigningMethodHS256, httpadapter.Claims{
			Role: "client",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   subject,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := httpadapter.ParseToken(tok, secret)
			assert.Error(t, err)
		})
	}
}

func TestParseToken_EmptySecret(t *testing.T) {
	tok, err := httpadapter.IssueToken(httpadapter.Principal{ID: kernel.NewUUID(), Role: httpadapter.RoleClient}, secret,
		jwt.RegisteredClaims{})
	require.NoError(t, err)

	_, err = httpadapter.ParseToken(tok, "")
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	_, ok := httpadapter.FromContext(context.Background())
	assert.False(t, ok)

	p := &httpadapter.Principal{ID: kernel.NewUUID(), Role: httpadapter.RoleAdmin}
	got, ok := httpadapter.FromContext(httpadapter.WithPrincipal(context.Background(), p))
	require.True(t, ok)
	assert.Same(t, p, got)
}

func TestStatusOf(t *testing.T) {
	id := kernel.NewUUID()
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errs.NewObjectNotFoundError("order", id), nethttp.StatusNotFound},
		{"ownership", errs.NewOwnershipMismatchError("order", id, id), nethttp.StatusForbidden},
		{"compliance", errs.NewComplianceRejectedError(id, []string{"LICENSE"}), nethttp.StatusPreconditionFailed},
		{"transition", errs.NewInvalidTransitionError("order", "closed"), nethttp.StatusConflict},
		{"conflict", errs.NewConcurrencyConflictError("driver", 5, nil), nethttp.StatusConflict},
		{"external", errs.NewExternalServiceError("maps", errors.New("timeout")), nethttp.StatusServiceUnavailable},
		{"invalid", errs.NewValueIsInvalidError("view"), nethttp.StatusUnprocessableEntity},
		{"required", errs.NewValueIsRequiredError("stop"), nethttp.StatusUnprocessableEntity},
		{"out of range", errs.NewValueIsOutOfRangeError("lat", 91, -90, 90), nethttp.StatusUnprocessableEntity},
		{"company", commands.ErrCompanyIsRequired, nethttp.StatusUnprocessableEntity},
		{"wrapped", errors.Join(errors.New("ctx"), errs.NewObjectNotFoundError("stop", id)), nethttp.StatusNotFound},
		{"unknown", errors.New("boom"), nethttp.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, httpadapter.StatusOf(tc.err))
		})
	}
}
