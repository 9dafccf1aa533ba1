package session

import (
	"sync"
	"testing"
	"time"

	"university_portal_backend/internal/account"
	"university_portal_backend/internal/catalog"
	"university_portal_backend/internal/contact"
	"university_portal_backend/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func testFactory(t *testing.T, delay time.Duration) *Factory {
	t.Helper()
	cat := catalog.NewCatalog([]catalog.Entity{
		{Kind: catalog.KindCourse, Title: "Calculus III", Subtitle: "MATH 301"},
	}, []string{"MATH 301"}, []string{"Campus Events"})
	notes := []notification.Notification{
		{ID: 1, Category: notification.CategoryAcademic},
		{ID: 2, Category: notification.CategoryFinancial, IsRead: true},
	}
	opts := []account.Option{{ID: "grade", Label: "Grade Updates", DefaultOn: true}}
	profile := account.Profile{FirstName: "Alex", LastName: "Johnson", Email: "alex@state.edu", StudentID: "SU-1"}
	f, err := NewFactory(cat, notes, opts, delay, zap.NewNop(), WithProfile(profile, delay))
	require.NoError(t, err)
	return f
}

func newTestStore(t *testing.T, size int) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	store, err := NewStore(testFactory(t, time.Hour), size, 30*time.Minute, zap.NewNop(), WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store, clock
}

func TestNewFactory_RejectsDuplicateNotificationIDs(t *testing.T) {
	cat := catalog.NewCatalog(nil, nil, nil)
	_, err := NewFactory(cat, []notification.Notification{{ID: 1}, {ID: 1}}, nil, 0, zap.NewNop())
	assert.Error(t, err)
}

func TestNewStore_RejectsNonPositiveSize(t *testing.T) {
	_, err := NewStore(testFactory(t, 0), 0, time.Minute, zap.NewNop())
	assert.Error(t, err)
}

func TestResolve_CreatesAndReuses(t *testing.T) {
	store, _ := newTestStore(t, 4)

	sess, created, err := store.Resolve("")
	require.NoError(t, err)
	assert.True(t, created)
	_, parseErr := uuid.Parse(sess.ID)
	assert.NoError(t, parseErr)

	again, created, err := store.Resolve(sess.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, sess, again)

	other, created, err := store.Resolve("not-a-uuid")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, sess.ID, other.ID)

	unknown, created, err := store.Resolve(uuid.NewString())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 3, store.Len())
	assert.NotNil(t, unknown)
}

func TestSessionsAreIsolated(t *testing.T) {
	store, _ := newTestStore(t, 4)
	a, _, err := store.Resolve("")
	require.NoError(t, err)
	b, _, err := store.Resolve("")
	require.NoError(t, err)

	a.Board.MarkAllRead()
	a.Overlay.SetQuery("calc")
	a.Preferences.Set("grade", false)

	assert.Equal(t, 1, b.Board.Badges().Total)
	assert.Empty(t, b.Overlay.State().Query)
	assert.True(t, b.Preferences.List()[0].Enabled)
}

func TestResolve_ExpiredSessionIsReplaced(t *testing.T) {
	store, clock := newTestStore(t, 4)
	sess, _, err := store.Resolve("")
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)
	next, created, err := store.Resolve(sess.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, sess.ID, next.ID)
	assert.True(t, sess.Closed())
}

func TestCapacityEvictionClosesSession(t *testing.T) {
	store, clock := newTestStore(t, 2)
	first, _, _ := store.Resolve("")
	clock.Advance(time.Second)
	second, _, _ := store.Resolve("")
	clock.Advance(time.Second)
	store.Resolve(first.ID) // first becomes most recently used
	third, _, _ := store.Resolve("")

	assert.Equal(t, 2, store.Len())
	assert.True(t, second.Closed())
	assert.False(t, first.Closed())
	assert.False(t, third.Closed())
	_, ok := store.Get(second.ID)
	assert.False(t, ok)
}

func TestSweepIdle(t *testing.T) {
	store, clock := newTestStore(t, 8)
	idle, _, _ := store.Resolve("")
	clock.Advance(20 * time.Minute)
	active, _, _ := store.Resolve("")
	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, store.SweepIdle())
	assert.True(t, idle.Closed())
	assert.False(t, active.Closed())
	assert.Equal(t, 1, store.Len())
}

func TestSweepIdle_KeepsSessionWithOpenStream(t *testing.T) {
	store, clock := newTestStore(t, 8)
	sess, _, err := store.Resolve("")
	require.NoError(t, err)

	_, unsubscribe := sess.Board.Subscribe()
	require.True(t, sess.Board.Delete(1))
	clock.Advance(31 * time.Minute)

	assert.Zero(t, store.SweepIdle())
	assert.False(t, sess.Closed())

	again, created, err := store.Resolve(sess.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, sess, again)
	assert.Equal(t, 1, again.Board.Len(), "deleted notification stays deleted")

	unsubscribe()
	clock.Advance(31 * time.Minute)
	assert.Equal(t, 1, store.SweepIdle())
	assert.True(t, sess.Closed())
}

func TestTeardownCancelsPendingSubmission(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	store, err := NewStore(testFactory(t, 50*time.Millisecond), 4, time.Minute, zap.NewNop(), WithClock(clock.Now))
	require.NoError(t, err)
	defer store.Close()

	sess, _, err := store.Resolve("")
	require.NoError(t, err)
	sess.Form.Submit(contact.Submission{Name: "A", Email: "a@b.edu", Subject: "s", Message: "m"})
	updates, _ := sess.Board.Subscribe()

	assert.True(t, store.Remove(sess.ID))
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, contact.StatusSubmitting, sess.Form.State().Status)
	_, open := <-updates
	assert.False(t, open)
}

func TestTeardownFreezesProfileNotice(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	store, err := NewStore(testFactory(t, 50*time.Millisecond), 4, time.Minute, zap.NewNop(), WithClock(clock.Now))
	require.NoError(t, err)
	defer store.Close()

	sess, _, err := store.Resolve("")
	require.NoError(t, err)
	sess.Profile.Edit()
	st, err := sess.Profile.Save(account.ProfileUpdate{FirstName: "Sam", LastName: "Johnson", Email: "sam@state.edu"})
	require.NoError(t, err)
	require.True(t, st.Saved)

	assert.True(t, store.Remove(sess.ID))
	time.Sleep(100 * time.Millisecond)

	st = sess.Profile.State()
	assert.True(t, st.Saved, "no expiry lands after teardown")
	assert.Equal(t, "Sam", st.Profile.FirstName)
}

func TestProfilePerSession(t *testing.T) {
	store, _ := newTestStore(t, 4)

	a, _, err := store.Resolve("")
	require.NoError(t, err)
	b, _, err := store.Resolve("")
	require.NoError(t, err)

	a.Profile.Edit()
	_, err = a.Profile.Save(account.ProfileUpdate{FirstName: "Sam", LastName: "Lee", Email: "sam@state.edu"})
	require.NoError(t, err)

	assert.Equal(t, "Sam", a.Profile.State().Profile.FirstName)
	assert.Equal(t, "Alex", b.Profile.State().Profile.FirstName)
	assert.Equal(t, "SU-1", a.Profile.State().Profile.StudentID)
}
