// Package repomanager builds repositories bound to a shared DB handle or to
// a transaction, and runs schema migrations.
package repomanager

import (
	"github.com/ysemenov/coinkeeper/internal/dbx"
	"github.com/ysemenov/coinkeeper/internal/server/repositories/records"
	"github.com/ysemenov/coinkeeper/internal/server/repositories/refreshtokens"
	"github.com/ysemenov/coinkeeper/internal/server/repositories/users"
)

// RepositoryManager hands out repositories over an arbitrary DBTX so that
// services can use the same factory inside and outside transactions.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Records(db dbx.DBTX) records.Repository
}
