package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"order-console/internal/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestExportRepoSave(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `export_records`").WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	rec := &domain.ExportRecord{Kind: domain.ExportPDF, FileName: "order-list.pdf", Rows: 3, Revenue: "395000", SessionID: "s1"}
	require.NoError(t, NewExportRepository(db).Save(context.Background(), rec))
	assert.Equal(t, uint64(42), rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportRepoSaveError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `export_records`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := NewExportRepository(db).Save(context.Background(), &domain.ExportRecord{Kind: domain.ExportSpreadsheet})
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportRepoListRecent(t *testing.T) {
	db, mock := newMockDB(t)
	created := time.Date(2024, 4, 1, 1, 5, 9, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "kind", "file_name", "rows", "revenue", "session_id", "created_at"}).
		AddRow(2, "pdf", "b.pdf", 3, "395000", "s1", created).
		AddRow(1, "spreadsheet", "a.xlsx", 12, "770000", "s1", created.Add(-time.Hour))
	mock.ExpectQuery("SELECT \\* FROM `export_records` WHERE session_id = \\? ORDER BY created_at DESC,id DESC LIMIT").
		WillReturnRows(rows)

	got, err := NewExportRepository(db).ListRecent(context.Background(), "s1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.ExportPDF, got[0].Kind)
	assert.Equal(t, "a.xlsx", got[1].FileName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportRepoListRecentEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `export_records`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := NewExportRepository(db).ListRecent(context.Background(), "", 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
