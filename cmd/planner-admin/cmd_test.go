package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resetterStub struct {
	email, password string
	err             error
}

func (r *resetterStub) ResetPassword(ctx context.Context, email, password string) error {
	r.email, r.password = email, password
	return r.err
}

func withPassword(t *testing.T, pwd string, err error) {
	t.Helper()
	original := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), err }
	t.Cleanup(func() { readPasswordFunc = original })
}

func TestCommandLineResetPassword(t *testing.T) {
	withPassword(t, "new-pass", nil)
	users := &resetterStub{}
	out := &bytes.Buffer{}
	cli := &commandLine{users: users, out: out}

	require.NoError(t, cli.run(context.Background(), []string{"planner-admin", "resetpassword", "-email", "ana@school.edu"}))
	assert.Equal(t, "ana@school.edu", users.email)
	assert.Equal(t, "new-pass", users.password)
	assert.Contains(t, out.String(), "password updated")
}

func TestCommandLineUsage(t *testing.T) {
	cli := &commandLine{users: &resetterStub{}, out: &bytes.Buffer{}}

	assert.ErrorIs(t, cli.run(context.Background(), []string{"planner-admin"}), errHelp)
	assert.ErrorIs(t, cli.run(context.Background(), []string{"planner-admin", "unknown"}), errHelp)
	assert.ErrorIs(t, cli.run(context.Background(), []string{"planner-admin", "resetpassword"}), errHelp)

	withPassword(t, "", nil)
	assert.ErrorIs(t, cli.run(context.Background(), []string{"planner-admin", "resetpassword", "-email", "a@b.c"}), errHelp)
}

func TestCommandLinePropagatesErrors(t *testing.T) {
	withPassword(t, "", errors.New("not a terminal"))
	cli := &commandLine{users: &resetterStub{}, out: &bytes.Buffer{}}
	assert.EqualError(t, cli.run(context.Background(), []string{"planner-admin", "resetpassword", "-email", "a@b.c"}), "not a terminal")

	withPassword(t, "new-pass", nil)
	cli.users = &resetterStub{err: errors.New("db down")}
	assert.EqualError(t, cli.run(context.Background(), []string{"planner-admin", "resetpassword", "-email", "a@b.c"}), "db down")
}
