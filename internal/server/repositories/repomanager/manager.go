package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/timeline/internal/dbx"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/archive"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/batches"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/entries"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/months"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Entries(db dbx.DBTX) entries.Repository
	Months(db dbx.DBTX) months.Repository
	Batches(db dbx.DBTX) batches.Repository
	Archive(db dbx.DBTX) archive.Repository
}
