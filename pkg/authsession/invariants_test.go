package authsession_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/apitest"
	"github.com/dmitrymomot/authkit/pkg/authsession"
)

// checkInvariants asserts the structural invariants that must hold after
// every operation, regardless of order or outcome.
func checkInvariants(t *testing.T, sess authsession.Session) {
	t.Helper()

	require.False(t, sess.NeedsTwoFactor && sess.IsAuthenticated,
		"a pending second factor and an authenticated session are mutually exclusive")
	require.Equal(t, sess.IsAuthenticated, sess.User != nil,
		"a user profile is held iff the session is authenticated")
	require.Equal(t, sess.NeedsTwoFactor, sess.TemporaryToken != "",
		"a temporary token is held iff a second factor is outstanding")
}

// TestInvariants_FuzzedOperationOrder drives the store through randomized
// operation sequences and asserts the invariants after every step. The seed
// is fixed so failures reproduce.
func TestInvariants_FuzzedOperationOrder(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))

	srv := apitest.NewServer(t,
		apitest.WithAccount("jane@example.com", "secret"),
		apitest.WithTwoFactor("654321", "temp-abc", "perm-xyz"),
	)
	f := setup(t, srv)
	require.NoError(t, f.store.Init(ctx))
	checkInvariants(t, f.store.Snapshot())

	ops := []func(){
		func() { _, _ = f.store.Login(ctx, "jane@example.com", "secret", true) },
		func() { _, _ = f.store.Login(ctx, "jane@example.com", "wrong", false) },
		func() { _ = f.store.VerifyTwoFactor(ctx, "654321", authsession.TwoFactorLogin) },
		func() { _ = f.store.VerifyTwoFactor(ctx, "000000", authsession.TwoFactorLogin) },
		func() { _ = f.store.VerifyTwoFactor(ctx, "654321", authsession.TwoFactorConfirm) },
		func() { _ = f.store.RefreshUser(ctx) },
		func() { f.store.Revalidate(ctx) },
		func() { f.store.Logout(ctx) },
		func() { _ = f.store.ForgotPassword(ctx, "jane@example.com") },
		func() { _ = f.store.SendVerificationEmail(ctx) },
		func() { _ = f.store.CheckVerificationStatus(ctx) },
	}

	for i := 0; i < 200; i++ {
		ops[rng.Intn(len(ops))]()
		checkInvariants(t, f.store.Snapshot())
	}
}
