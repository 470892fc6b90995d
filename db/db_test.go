package db

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/seadrift/seadrift/domain"
	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory SQLite database for testing. The pool is
// capped at one connection so the in-memory database is shared across all
// statements.
func setupTestDB(t *testing.T) *DB {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := &DB{db: sqlDB}

	if err := db.CreateDB(); err != nil {
		t.Fatalf("Failed to create base schema: %v", err)
	}
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// createTestAccount is a helper to create accounts directly via SQL
func createTestAccount(t *testing.T, db *DB, id uuid.UUID, username, pubkey string) {
	_, err := db.db.Exec(sqlInsertAccount, id, username, pubkey, "webpub", "webpriv", time.Now())
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}
}

func TestReadAccById(t *testing.T) {
	db := setupTestDB(t)
	defer db.db.Close()

	id := uuid.New()
	username := "testuser"
	createTestAccount(t, db, id, username, "pubkey")

	err, acc := db.ReadAccById(id)
	if err != nil {
		t.Fatalf("ReadAccById failed: %v", err)
	}

	if acc.Id != id {
		t.Errorf("Expected Id %s, got %s", id, acc.Id)
	}
	if acc.Username != username {
		t.Errorf("Expected Username %s, got %s", username, acc.Username)
	}
}

func TestReadAccByIdNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.db.Close()

	err, acc := db.ReadAccById(uuid.New())
	if err == nil {
		t.Error("Expected error for non-existent account")
	}
	if acc != nil {
		t.Error("Expected nil account for non-existent ID")
	}
}

func TestReadAccByUsername(t *testing.T) {
	db := setupTestDB(t)
	defer db.db.Close()

	id := uuid.New()
	username := "alice"
	createTestAccount(t, db, id, username, "pubkey")

	err, acc := db.ReadAccByUsername(username)
	if err != nil {
		t.Fatalf("ReadAccByUsername failed: %v", err)
	}

	if acc.Username != username {
		t.Errorf("Expected username %s, got %s", username, acc.Username)
	}
	if acc.Id != id {
		t.Errorf("Expected ID %s, got %s", id, acc.Id)
	}
}

func TestUpdateLoginById(t *testing.T) {
	db := setupTestDB(t)
	defer db.db.Close()

	id := uuid.New()
	createTestAccount(t, db, id, "oldname", "pubkey")

	err := db.UpdateLoginById("newname", "Alice Diver", "Logs dives here", id)
	if err != nil {
		t.Fatalf("UpdateLoginById failed: %v", err)
	}

	err, acc := db.ReadAccById(id)
	if err != nil {
		t.Fatalf("ReadAccById failed: %v", err)
	}

	if acc.Username != "newname" {
		t.Errorf("Expected username newname, got %s", acc.Username)
	}
	if acc.DisplayName != "Alice Diver" {
		t.Errorf("Expected display name 'Alice Diver', got '%s'", acc.DisplayName)
	}
	if acc.FirstTimeLogin != domain.FALSE {
		t.Error("Expected FirstTimeLogin to be FALSE after update")
	}
}

func TestCreateDive(t *testing.T) {
	db := setupTestDB(t)
	defer db.db.Close()

	userId := uuid.New()
	createTestAccount(t, db, userId, "testuser", "pubkey")

	save := &domain.SaveDive{
		UserId:      userId,
		SiteName:    "Blue Hole",
		MaxDepth:    31.5,
		DurationMin: 48,
		Description: "Wall dive",
	}

	err, dive := db.CreateDive(save)
	if err != nil {
		t.Fatalf("CreateDive failed: %v", err)
	}

	if dive.Id == uuid.Nil {
		t.Error("Expected valid dive ID")
	}
	if dive.DiveNumber != 1 {
		t.Errorf("Expected first dive to be #1, got #%d", dive.DiveNumber)
	}
	if dive.SiteName != "Blue Hole" {
		t.Errorf("Expected site 'Blue Hole', got '%s'", dive.SiteName)
	}
	if dive.CreatedBy != "testuser" {
		t.Errorf("Expected CreatedBy 'testuser', got '%s'", dive.CreatedBy)
	}
}

func TestCreateDiveNumbering(t *testing.T) {
	db := setupTestDB(t)
	defer db.db.Close()

	userId := uuid.New()
	otherId := uuid.New()
	createTestAccount(t, db, userId, "alice", "pubkey1")
	createTestAccount(t, db, otherId, "bob", "pubkey2")

	// Dive numbers are assigned per diver
	for i := 1; i <= 3; i++ {
		err, dive := db.CreateDive(&domain.SaveDive{UserId: userId, SiteName: "Reef"})
		if err != nil {
			t.Fatalf("CreateDive %d failed: %v", i, err)
		}
		if dive.DiveNumber != i {
			t.Errorf("Expected dive #%d, got #%d", i, dive.DiveNumber)
		}
	}

	err, dive := db.CreateDive(&domain.SaveDive{UserId: otherId, SiteName: "Wreck"})
	if err != nil {
		t.Fatalf("CreateDive for second user failed: %v", err)
	}
	if dive.DiveNumber != 1 {
		t.Errorf("Expected second user's first dive to be #1, got #%d", dive.DiveNumber)
	}
}

func TestReadDiveByIdNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.db.Close()

	err, dive := db.ReadDiveById(uuid.New())
	if err == nil {
		t.Error("Expected error for non-existent dive")
	}
	if dive != nil {
		t.Error("Expected nil dive")
	}
}

func TestReadDivesByUserId(t *testing.T) {
	db := setupTestDB(t)
	defer db.db.Close()

	userId := uuid.New()
	createTestAccount(t, db, userId, "testuser", "pubkey")

	for i := 0; i < 3; i++ {
		err, _ := db.CreateDive(&domain.SaveDive{UserId: userId, SiteName: "Reef"})
		if err != nil {
			t.Fatalf("Failed to create dive %d: %v", i, err)
		}
	}

	err, dives := db.ReadDivesByUserId(userId)
	if err != nil {
		t.Fatalf("ReadDivesByUserId failed: %v", err)
	}

	if len(*dives) != 3 {
		t.Errorf("Expected 3 dives, got %d", len(*dives))
	}
}

func TestReadDivesByUsername(t *testing.T) {
	db := setupTestDB(t)
	defer db.db.Close()

	userId := uuid.New()
	createTestAccount(t, db, userId, "alice", "pubkey")

	db.CreateDive(&domain.SaveDive{UserId: userId, SiteName: "Alice's reef"})

	err, dives := db.ReadDivesByUsername("alice")
	if err != nil {
		t.Fatalf("ReadDivesByUsername failed: %v", err)
	}

	if len(*dives) == 0 {
		t.Fatal("Expected at least one dive")
	}
	if (*dives)[0].CreatedBy != "alice" {
		t.Errorf("Expected CreatedBy 'alice', got '%s'", (*dives)[0].CreatedBy)
	}
}

func TestReadAllDives(t *testing.T) {
	db := setupTestDB(t)
	defer db.db.Close()

	user1Id := uuid.New()
	user2Id := uuid.New()
	createTestAccount(t, db, user1Id, "user1", "pubkey1")
	createTestAccount(t, db, user2Id, "user2", "pubkey2")

	db.CreateDive(&domain.SaveDive{UserId: user1Id, SiteName: "Reef"})
	db.CreateDive(&domain.SaveDive{UserId: user2Id, SiteName: "Wreck"})

	err, dives := db.ReadAllDives()
	if err != nil {
		t.Fatalf("ReadAllDives failed: %v", err)
	}

	if len(*dives) < 2 {
		t.Errorf("Expected at least 2 dives, got %d", len(*dives))
	}
}

func TestCountAccountsAndDives(t *testing.T) {
	db := setupTestDB(t)
	defer db.db.Close()

	err, accounts := db.CountAccounts()
	if err != nil {
		t.Fatalf("CountAccounts failed: %v", err)
	}
	if accounts != 0 {
		t.Errorf("Expected 0 accounts, got %d", accounts)
	}

	userId := uuid.New()
	createTestAccount(t, db, userId, "alice", "pubkey")
	db.CreateDive(&domain.SaveDive{UserId: userId, SiteName: "Reef"})
	db.CreateDive(&domain.SaveDive{UserId: userId, SiteName: "Wreck"})

	err, accounts = db.CountAccounts()
	if err != nil {
		t.Fatalf("CountAccounts failed: %v", err)
	}
	if accounts != 1 {
		t.Errorf("Expected 1 account, got %d", accounts)
	}

	err, dives := db.CountDives()
	if err != nil {
		t.Fatalf("CountDives failed: %v", err)
	}
	if dives != 2 {
		t.Errorf("Expected 2 dives, got %d", dives)
	}
}

func TestAccountFirstTimeLogin(t *testing.T) {
	db := setupTestDB(t)
	defer db.db.Close()

	id := uuid.New()
	createTestAccount(t, db, id, "newuser", "pubkey")

	err, acc := db.ReadAccById(id)
	if err != nil {
		t.Fatalf("ReadAccById failed: %v", err)
	}

	if acc.FirstTimeLogin != domain.TRUE {
		t.Error("Expected FirstTimeLogin to be TRUE for new account")
	}

	err = db.UpdateLoginById("updateduser", "Updated User", "Updated bio", id)
	if err != nil {
		t.Fatalf("UpdateLoginById failed: %v", err)
	}

	err, acc = db.ReadAccById(id)
	if err != nil {
		t.Fatalf("ReadAccById failed: %v", err)
	}

	if acc.FirstTimeLogin != domain.FALSE {
		t.Error("Expected FirstTimeLogin to be FALSE after update")
	}
}
