package application

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	"github.com/oksasatya/go-ddd-identity/pkg/mailer"
)

const testVerifyURL = "http://api.test/api/auth/validate-email/"

type recordingNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, job mailer.EmailJob) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.jobs = append(n.jobs, job)
	return nil
}

// lastToken extracts the verification token from the most recent job's link.
func (n *recordingNotifier) lastToken(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.jobs)
	link, ok := n.jobs[len(n.jobs)-1].Data["VerifyURL"].(string)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(link, testVerifyURL))
	return strings.TrimPrefix(link, testVerifyURL)
}

type fakeIndexer struct {
	mu       sync.Mutex
	docs     map[string]entity.User
	removed  []string
	hits     []string
	lastSize int
}

func newFakeIndexer() *fakeIndexer { return &fakeIndexer{docs: map[string]entity.User{}} }

func (f *fakeIndexer) Index(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[u.ID] = *u
	return nil
}

func (f *fakeIndexer) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeIndexer) Search(_ context.Context, _ string, size int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSize = size
	return f.hits, nil
}

type fixture struct {
	store    *memory.Store
	tokens   *helpers.JWTManager
	notifier *recordingNotifier
	indexer  *fakeIndexer
	auth     *AuthService
	users    *UserService
	members  *MembershipService
	projects *ProjectService
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	hasher := helpers.NewBcryptHasher(bcrypt.MinCost)
	tokens := helpers.NewJWTManager("test-secret")
	notifier := &recordingNotifier{}
	indexer := newFakeIndexer()
	logger := quietLogger()

	auth := NewAuthService(store.Users(), hasher, tokens, notifier, logger, AuthConfig{VerifyURL: testVerifyURL}).
		WithIndexer(indexer)

	return &fixture{
		store:    store,
		tokens:   tokens,
		notifier: notifier,
		indexer:  indexer,
		auth:     auth,
		users:    NewUserService(store.Users(), store.Memberships(), hasher, indexer, logger, "http://api.test/api/"),
		members:  NewMembershipService(store.Memberships(), logger),
		projects: NewProjectService(store.Projects(), logger),
	}
}

func validRegister() RegisterInput {
	return RegisterInput{
		FirstName: "Juan",
		LastName:  "Perez",
		Age:       25,
		Email:     "juan@example.com",
		Username:  "juanperez",
		Password:  "Password123!",
	}
}
