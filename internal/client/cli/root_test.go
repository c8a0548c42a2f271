package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubCommands struct {
	loggedIn bool
	locked   bool
	calls    []string
}

func (s *stubCommands) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubCommands) isLoggedIn() bool { return s.loggedIn }

func (s *stubCommands) guarded(context.Context) bool {
	s.calls = append(s.calls, "guarded")
	return !s.locked
}

func (s *stubCommands) Login(context.Context) error  { return s.record("login") }
func (s *stubCommands) Logout(context.Context) error { return s.record("logout") }
func (s *stubCommands) Record(context.Context) error { return s.record("record") }
func (s *stubCommands) Upload(_ context.Context, args []string) error {
	return s.record("upload:" + join(args))
}
func (s *stubCommands) List(context.Context) error { return s.record("list") }
func (s *stubCommands) Show(_ context.Context, args []string) error {
	return s.record("show:" + join(args))
}
func (s *stubCommands) Watch(_ context.Context, args []string) error {
	return s.record("watch:" + join(args))
}
func (s *stubCommands) Retry(_ context.Context, args []string) error {
	return s.record("retry:" + join(args))
}
func (s *stubCommands) Note(_ context.Context, args []string) error {
	return s.record("note:" + join(args))
}
func (s *stubCommands) Templates(context.Context) error { return s.record("templates") }
func (s *stubCommands) WhoAmI(context.Context) error    { return s.record("whoami") }
func (s *stubCommands) Biometrics(_ context.Context, args []string) error {
	return s.record("biometrics:" + join(args))
}

func join(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}

func silenceOutput(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestDispatch_RoutesCommands(t *testing.T) {
	silenceOutput(t)

	tests := []struct {
		line string
		want string
	}{
		{"login", "login"},
		{"list", "list"},
		{"l", "list"},
		{"watch abc", "watch:abc"},
		{"retry abc", "retry:abc"},
		{"note abc", "note:abc"},
		{"upload /tmp/a.m4a", "upload:/tmp/a.m4a"},
		{"biometrics on", "biometrics:on"},
	}

	for _, tc := range tests {
		s := &stubCommands{}
		require.True(t, dispatch(context.Background(), s, tc.line))
		require.Equal(t, []string{"guarded", tc.want}, s.calls, "line %q", tc.line)
	}
}

func TestDispatch_ExitStopsLoopWithoutGuardCheck(t *testing.T) {
	silenceOutput(t)

	s := &stubCommands{}
	require.False(t, dispatch(context.Background(), s, "exit"))
	require.Empty(t, s.calls)
}

func TestDispatch_LockedAppRunsNothing(t *testing.T) {
	silenceOutput(t)

	s := &stubCommands{locked: true}
	require.True(t, dispatch(context.Background(), s, "list"))
	require.Equal(t, []string{"guarded"}, s.calls)
}

func TestDispatch_EmptyAndUnknownLines(t *testing.T) {
	silenceOutput(t)

	s := &stubCommands{}
	require.True(t, dispatch(context.Background(), s, "   "))
	require.Empty(t, s.calls)

	require.True(t, dispatch(context.Background(), s, "frobnicate"))
	require.Equal(t, []string{"guarded"}, s.calls)
}
