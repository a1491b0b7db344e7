package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/blogctl/pkg/sqlite"
	"github.com/mesh-intelligence/blogctl/pkg/types"
)

func openTemp(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(sqlite.NewStore(), dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadEmpty(t *testing.T) {
	s := openTemp(t, t.TempDir())

	st, err := s.Load()
	require.NoError(t, err)
	assert.False(t, st.Authenticated())
	assert.True(t, st.User.IsZero())
	assert.Empty(t, s.Token())
}

func TestLoginPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	fixed := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	s, err := Open(sqlite.NewStore(), dir)
	require.NoError(t, err)
	s.now = func() time.Time { return fixed }
	user := types.UserProfile{ID: "u1", Username: "ada", FirstName: "Ada", EmailAddress: "ada@example.com"}
	require.NoError(t, s.Login("tok-1", user))
	require.NoError(t, s.Close())

	s2 := openTemp(t, dir)
	st, err := s2.Load()
	require.NoError(t, err)
	assert.True(t, st.Authenticated())
	assert.Equal(t, "tok-1", st.Token)
	assert.Equal(t, user, st.User)
	assert.True(t, fixed.Equal(st.LoggedInAt))
}

func TestLoginRequiresToken(t *testing.T) {
	s := openTemp(t, t.TempDir())
	assert.ErrorIs(t, s.Login("", types.UserProfile{ID: "u1"}), types.ErrInvalidData)
}

func TestLoginReplacesProfile(t *testing.T) {
	s := openTemp(t, t.TempDir())
	require.NoError(t, s.Login("a", types.UserProfile{ID: "u1", LastName: "Lovelace"}))
	require.NoError(t, s.Login("b", types.UserProfile{ID: "u2"}))

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "b", st.Token)
	assert.Equal(t, types.UserProfile{ID: "u2"}, st.User)
}

func TestSetUserMerges(t *testing.T) {
	s := openTemp(t, t.TempDir())
	require.NoError(t, s.Login("tok", types.UserProfile{ID: "u1", FirstName: "Ada", LastName: "Lovelace"}))

	merged, err := s.SetUser(types.UserProfile{FirstName: "Augusta"})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", merged.FirstName)
	assert.Equal(t, "Lovelace", merged.LastName)
	assert.Equal(t, "u1", merged.ID)

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, merged, st.User)
	assert.Equal(t, "tok", st.Token, "SetUser must not touch the token")
}

func TestEditUserCanClearFields(t *testing.T) {
	s := openTemp(t, t.TempDir())
	require.NoError(t, s.Login("tok", types.UserProfile{ID: "u1", FirstName: "Ada", LastName: "Lovelace"}))

	edited, err := s.EditUser(func(u *types.UserProfile) { u.FirstName = "" })
	require.NoError(t, err)
	assert.Empty(t, edited.FirstName)
	assert.Equal(t, "Lovelace", edited.LastName)

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, edited, st.User)
	assert.Equal(t, "tok", st.Token)
}

func TestClear(t *testing.T) {
	s := openTemp(t, t.TempDir())
	require.NoError(t, s.Login("tok", types.UserProfile{ID: "u1"}))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear(), "clearing twice is fine")

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, State{}, st)
}

func TestLoadCorruptProfile(t *testing.T) {
	s := openTemp(t, t.TempDir())
	require.NoError(t, s.Backend().Set(KeyUser, "{not json"))

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestOpenTwiceFails(t *testing.T) {
	backend := sqlite.NewStore()
	s, err := Open(backend, t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	_, err = Open(backend, t.TempDir())
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}
