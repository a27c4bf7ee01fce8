package logs

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	if err := db.AutoMigrate(&SystemLog{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	cleanup := func() { _ = db.Close() }
	return gdb, mock, cleanup
}

func TestLogService_Log_Inserts(t *testing.T) {
	db := newTestDB(t)
	ls := &LogService{DB: db}

	entry := SystemLog{Level: "INFO", Service: "colegios", Action: "CREATE_COLEGIO", Message: "Colegio creado: X (id 1)"}
	if err := ls.Log(entry, map[string]int{"id": 1}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	var stored SystemLog
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("First: %v", err)
	}
	if stored.Action != "CREATE_COLEGIO" || stored.Level != "INFO" {
		t.Fatalf("entry fields lost: %+v", stored)
	}
	if string(stored.Metadata) != `{"id":1}` {
		t.Fatalf("metadata = %s, want {\"id\":1}", stored.Metadata)
	}
	if stored.CreatedAt.IsZero() {
		t.Fatalf("created_at not set")
	}
}

func TestLogService_Log_NilPayloadLeavesMetadataEmpty(t *testing.T) {
	db := newTestDB(t)
	ls := &LogService{DB: db}

	if err := ls.Log(SystemLog{Level: "INFO", Service: "colegios", Action: "A", Message: "m"}, nil); err != nil {
		t.Fatalf("Log: %v", err)
	}

	var stored SystemLog
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("First: %v", err)
	}
	if len(stored.Metadata) != 0 {
		t.Fatalf("metadata should be empty, got %s", stored.Metadata)
	}
}

func TestLogService_GetLogs_FiltersAndOrder(t *testing.T) {
	db := newTestDB(t)
	ls := &LogService{DB: db}

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	seed := []SystemLog{
		{Level: "INFO", Service: "colegios", Action: "CREATE_COLEGIO", Message: "a", CreatedAt: base},
		{Level: "ERROR", Service: "colegios", Action: "UPDATE_COLEGIO", Message: "b", CreatedAt: base.Add(time.Minute)},
		{Level: "INFO", Service: "colegios", Action: "DELETE_COLEGIO", Message: "c", CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := ls.GetLogs("", "", 0)
	if err != nil {
		t.Fatalf("GetLogs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].Message != "c" || all[2].Message != "a" {
		t.Fatalf("entries not newest-first: %+v", all)
	}

	infos, err := ls.GetLogs("INFO", "", 0)
	if err != nil {
		t.Fatalf("GetLogs level: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("level filter: expected 2, got %d", len(infos))
	}

	updates, err := ls.GetLogs("", "UPDATE_COLEGIO", 0)
	if err != nil {
		t.Fatalf("GetLogs action: %v", err)
	}
	if len(updates) != 1 || updates[0].Message != "b" {
		t.Fatalf("action filter: %+v", updates)
	}

	limited, err := ls.GetLogs("", "", 1)
	if err != nil {
		t.Fatalf("GetLogs limit: %v", err)
	}
	if len(limited) != 1 || limited[0].Message != "c" {
		t.Fatalf("limit: %+v", limited)
	}
}

func TestLogService_Log_DBError(t *testing.T) {
	db, mock, cleanup := newMockGorm(t)
	defer cleanup()

	ls := &LogService{DB: db}

	boom := errors.New("insert failed")
	mock.ExpectQuery(`INSERT INTO "logs"`).WillReturnError(boom)

	err := ls.Log(SystemLog{Level: "INFO", Service: "colegios", Action: "A", Message: "m"}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected insert error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
