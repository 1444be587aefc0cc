package orderitems

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestListByOrder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*order_id,\s*product_name,\s*quantity,\s*unit_price,\s*total_price\s+FROM\s+order_items\s+WHERE\s+order_id\s*=\s*\$1\s+ORDER\s+BY\s+product_name\s*$`

	rows := sqlmock.NewRows([]string{"id", "order_id", "product_name", "quantity", "unit_price", "total_price"}).
		AddRow("i-1", "o-1", "Gadget", 1, 35.00, 35.00).
		AddRow("i-2", "o-1", "Widget", 3, 10.50, 31.50)
	mock.ExpectQuery(q).WithArgs("o-1").WillReturnRows(rows)

	got, err := repo.ListByOrder(context.Background(), "o-1")
	if err != nil {
		t.Fatalf("ListByOrder error: %v", err)
	}
	if len(got) != 2 || got[0].ProductName != "Gadget" || got[1].Quantity != 3 {
		t.Fatalf("unexpected items: %+v", got)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*order_id,\s*product_name,\s*quantity,\s*unit_price,\s*total_price\s+FROM\s+order_items\s+WHERE\s+id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "order_id", "product_name", "quantity", "unit_price", "total_price"}).
		AddRow("i-1", "o-1", "Widget", 3, 10.50, 31.50)
	mock.ExpectQuery(q).WithArgs("i-1").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "i-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.OrderID != "o-1" || got.TotalPrice != 31.50 {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*order_id\b`

	mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+order_items\s*\(order_id,\s*product_name,\s*quantity,\s*unit_price,\s*total_price\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`

	rows := sqlmock.NewRows([]string{"id"}).AddRow("i-9")
	mock.ExpectQuery(q).
		WithArgs("o-1", "Widget", 3, 10.50, 31.50).
		WillReturnRows(rows)

	item := &models.OrderItem{OrderID: "o-1", ProductName: "Widget", Quantity: 3, UnitPrice: 10.50, TotalPrice: 31.50}
	got, err := repo.Create(context.Background(), item)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "i-9" {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+order_items\b`

	mock.ExpectQuery(q).
		WithArgs("o-1", "Widget", 3, 10.50, 31.50).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.OrderItem{OrderID: "o-1", ProductName: "Widget", Quantity: 3, UnitPrice: 10.50, TotalPrice: 31.50})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+order_items\s+SET\s+product_name\s*=\s*\$2,\s*quantity\s*=\s*\$3,\s*unit_price\s*=\s*\$4,\s*total_price\s*=\s*\$5\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("i-1", "Widget", 4, 10.50, 42.00).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.OrderItem{ID: "i-1", ProductName: "Widget", Quantity: 4, UnitPrice: 10.50, TotalPrice: 42.00})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+order_items\b`

	mock.ExpectExec(q).
		WithArgs("ghost", "Widget", 4, 10.50, 42.00).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.OrderItem{ID: "ghost", ProductName: "Widget", Quantity: 4, UnitPrice: 10.50, TotalPrice: 42.00})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+order_items\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs("i-1").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "i-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+order_items\b`

	mock.ExpectExec(q).WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
