package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ordermanager/internal/dbx"
	"github.com/dmitrijs2005/ordermanager/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/ordermanager/internal/server/repositories/orderitems"
	"github.com/dmitrijs2005/ordermanager/internal/server/repositories/orders"
	"github.com/dmitrijs2005/ordermanager/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/ordermanager/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Orders(db dbx.DBTX) orders.Repository
	OrderItems(db dbx.DBTX) orderitems.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}
