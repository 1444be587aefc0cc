package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/dbx"
	"github.com/dmitrijs2005/ordermanager/internal/server/auth"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
	attachmentsrepo "github.com/dmitrijs2005/ordermanager/internal/server/repositories/attachments"
	orderitemsrepo "github.com/dmitrijs2005/ordermanager/internal/server/repositories/orderitems"
	ordersrepo "github.com/dmitrijs2005/ordermanager/internal/server/repositories/orders"
	refreshtokensrepo "github.com/dmitrijs2005/ordermanager/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/ordermanager/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newTestIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	codec, err := auth.NewCodec([]byte("test-secret"), "ordermanager", "ordermanager-clients")
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	issuer, err := auth.NewIssuer(codec, 30*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer error: %v", err)
	}
	return issuer
}

// --- fake repositories ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	existsOut bool
	existsErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "u-created"
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return f.existsOut, f.existsErr
}

// memRefreshRepo is a mutex-guarded single-token store with the same
// compare-and-swap rotation semantics as the SQL implementation.
type memRefreshRepo struct {
	mu    sync.Mutex
	token *models.RefreshToken

	saveErr error
	delErr  error
}

func (f *memRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == nil || f.token.Token != token {
		return nil, common.ErrorNotFound
	}
	copied := *f.token
	return &copied, nil
}

func (f *memRefreshRepo) Save(ctx context.Context, token *models.RefreshToken) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *token
	f.token = &copied
	return nil
}

func (f *memRefreshRepo) Rotate(ctx context.Context, oldToken, newToken string, expiresAt time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == nil || f.token.Token != oldToken || !f.token.ExpiresAt.After(time.Now()) {
		return "", common.ErrorNotFound
	}
	f.token.Token = newToken
	f.token.ExpiresAt = expiresAt
	return f.token.UserID, nil
}

func (f *memRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token != nil && f.token.Token == token {
		f.token = nil
	}
	return nil
}

type fakeOrdersRepo struct {
	listOut []*models.Order
	listErr error

	getOut *models.Order
	getErr error

	createErr error
	updateErr error
	deleteErr error

	nextNumber    string
	nextNumberErr error

	totalErr     error
	totalUpdates int
}

func (f *fakeOrdersRepo) List(ctx context.Context) ([]*models.Order, error) {
	return f.listOut, f.listErr
}

func (f *fakeOrdersRepo) Get(ctx context.Context, id string) (*models.Order, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	order.ID = "o-created"
	return order, nil
}

func (f *fakeOrdersRepo) Update(ctx context.Context, order *models.Order) error {
	return f.updateErr
}

func (f *fakeOrdersRepo) Delete(ctx context.Context, id string) error {
	return f.deleteErr
}

func (f *fakeOrdersRepo) NextOrderNumber(ctx context.Context) (string, error) {
	if f.nextNumberErr != nil {
		return "", f.nextNumberErr
	}
	return f.nextNumber, nil
}

func (f *fakeOrdersRepo) UpdateTotalAmount(ctx context.Context, orderID string) error {
	f.totalUpdates++
	return f.totalErr
}

type fakeOrderItemsRepo struct {
	listOut []*models.OrderItem
	listErr error

	getOut *models.OrderItem
	getErr error

	createErr error
	updateErr error
	deleteErr error
}

func (f *fakeOrderItemsRepo) ListByOrder(ctx context.Context, orderID string) ([]*models.OrderItem, error) {
	return f.listOut, f.listErr
}

func (f *fakeOrderItemsRepo) Get(ctx context.Context, id string) (*models.OrderItem, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeOrderItemsRepo) Create(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	item.ID = "i-created"
	return item, nil
}

func (f *fakeOrderItemsRepo) Update(ctx context.Context, item *models.OrderItem) error {
	return f.updateErr
}

func (f *fakeOrderItemsRepo) Delete(ctx context.Context, id string) error {
	return f.deleteErr
}

type fakeAttachmentsRepo struct {
	createErr error

	getOut *models.Attachment
	getErr error

	listOut []*models.Attachment
	listErr error

	markErr error
}

func (f *fakeAttachmentsRepo) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = "a-created"
	return a, nil
}

func (f *fakeAttachmentsRepo) Get(ctx context.Context, id string) (*models.Attachment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeAttachmentsRepo) ListByOrder(ctx context.Context, orderID string) ([]*models.Attachment, error) {
	return f.listOut, f.listErr
}

func (f *fakeAttachmentsRepo) MarkUploaded(ctx context.Context, id string) error {
	return f.markErr
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *memRefreshRepo
	o  *fakeOrdersRepo
	oi *fakeOrderItemsRepo
	a  *fakeAttachmentsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.r
}
func (m *fakeRepoManager) Orders(db dbx.DBTX) ordersrepo.Repository          { return m.o }
func (m *fakeRepoManager) OrderItems(db dbx.DBTX) orderitemsrepo.Repository  { return m.oi }
func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachmentsrepo.Repository {
	return m.a
}
